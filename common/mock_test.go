package common

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/driverkit/webdriver/log"
)

// driverServer is a scripted WebDriver HTTP server. Handlers are keyed by
// "METHOD /path"; every request is recorded for assertions.
type driverServer struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	calls    map[string]int
	bodies   map[string][]string
	handlers map[string]http.HandlerFunc
}

func newDriverServer(t *testing.T) *driverServer {
	t.Helper()
	d := &driverServer{
		t:        t,
		calls:    make(map[string]int),
		bodies:   make(map[string][]string),
		handlers: make(map[string]http.HandlerFunc),
	}
	d.srv = httptest.NewServer(http.HandlerFunc(d.route))
	t.Cleanup(d.srv.Close)
	return d
}

func (d *driverServer) route(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	d.mu.Lock()
	d.calls[key]++
	data, _ := io.ReadAll(r.Body)
	d.bodies[key] = append(d.bodies[key], string(data))
	h := d.handlers[key]
	d.mu.Unlock()

	// Recording consumed the body; restore it for the handler.
	r.Body = io.NopCloser(bytes.NewReader(data))

	if h == nil {
		d.t.Errorf("unexpected request: %s", key)
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

// respond registers a fixed response body for a command.
func (d *driverServer) respond(key, body string) {
	d.handle(key, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body)) //nolint:errcheck
	})
}

func (d *driverServer) handle(key string, h http.HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[key] = h
}

func (d *driverServer) count(key string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[key]
}

func (d *driverServer) lastBody(key string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	bodies := d.bodies[key]
	if len(bodies) == 0 {
		return ""
	}
	return bodies[len(bodies)-1]
}

func (d *driverServer) config() Config {
	return Config{URL: null.StringFrom(d.srv.URL)}
}

// bootstrap registers the handlers session creation needs: negotiation
// returning session id "abc123" and discovery returning the given handles.
func (d *driverServer) bootstrap(handles ...string) {
	if handles == nil {
		handles = []string{}
	}
	d.respond("POST /session", `{"value":{"sessionId":"abc123"}}`)
	data, err := json.Marshal(map[string]any{"value": map[string]any{"handles": handles}})
	require.NoError(d.t, err)
	d.respond("GET /session/abc123/window/handles", string(data))
}

// newTestSession creates a session against the scripted server.
func newTestSession(t *testing.T, d *driverServer) *Session {
	t.Helper()
	s, err := NewSession(BrowserFirefox, d.config(), log.NewNullLogger())
	require.NoError(t, err)
	return s
}

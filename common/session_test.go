package common

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/driverkit/webdriver/log"
	"github.com/driverkit/webdriver/wire"
)

// stubDriver writes a fake driver executable that records each spawn in a
// marker file and then idles until killed.
func stubDriver(t *testing.T) (path, marker string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fallback driver launch is unix only")
	}
	dir := t.TempDir()
	marker = filepath.Join(dir, "spawned")
	path = filepath.Join(dir, "driver.sh")
	script := fmt.Sprintf("#!/bin/sh\necho spawned >> %q\nsleep 30\n", marker)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700))
	return path, marker
}

func spawnCount(t *testing.T, marker string) int {
	t.Helper()
	data, err := os.ReadFile(marker)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return strings.Count(string(data), "spawned")
}

// closedPortURL returns an endpoint nothing listens on.
func closedPortURL(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "http://" + addr
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	d := newDriverServer(t)
	d.bootstrap()

	s := newTestSession(t, d)
	assert.Equal(t, "abc123", s.ID())
	assert.Equal(t, BrowserFirefox, s.Browser())
	assert.Empty(t, s.Tabs())
	assert.Nil(t, s.Driver())

	capabilities := d.lastBody("POST /session")
	assert.JSONEq(t, fmt.Sprintf(
		`{"capabilities":{"alwaysMatch":{"platformName":%q,"browserName":"firefox"}}}`,
		mustCurrentPlatform(t)), capabilities)
}

func TestNewSessionHeadless(t *testing.T) {
	t.Parallel()

	d := newDriverServer(t)
	d.bootstrap("h1")

	s, err := NewSession(BrowserFirefox, d.config().Apply(Config{Headless: null.BoolFrom(true)}), nil)
	require.NoError(t, err)
	require.Len(t, s.Tabs(), 1)
	assert.Equal(t, "h1", s.Tabs()[0].ID())

	capabilities := d.lastBody("POST /session")
	assert.JSONEq(t, fmt.Sprintf(
		`{"capabilities":{"alwaysMatch":{"platformName":%q,"browserName":"firefox","moz:firefoxOptions":{"args":["-headless"]}}}}`,
		mustCurrentPlatform(t)), capabilities)
}

func TestNewSessionProtocolErrorNotRetried(t *testing.T) {
	t.Parallel()

	driverPath, marker := stubDriver(t)

	d := newDriverServer(t)
	d.respond("POST /session", `{"value":{"error":"session not created","message":"no browser"}}`)

	_, err := NewSession(BrowserFirefox, d.config().Apply(Config{
		DriverPath: null.StringFrom(driverPath),
	}), log.NewNullLogger())
	assert.ErrorIs(t, err, wire.SessionNotCreated)
	assert.Equal(t, 1, d.count("POST /session"))
	assert.Equal(t, 0, spawnCount(t, marker), "a protocol error must not trigger the fallback launch")
}

func TestNewSessionFallbackLaunchFailure(t *testing.T) {
	t.Parallel()

	driverPath, marker := stubDriver(t)

	cfg := Config{
		URL:          null.StringFrom(closedPortURL(t)),
		DriverPath:   null.StringFrom(driverPath),
		StartupDelay: null.IntFrom(50),
	}
	_, err := NewSession(BrowserFirefox, cfg, log.NewNullLogger())
	assert.ErrorIs(t, err, wire.FailedRequest)
	assert.Equal(t, 1, spawnCount(t, marker), "exactly one spawn and one retry")
}

func TestNewSessionFallbackLaunchSuccess(t *testing.T) {
	t.Parallel()

	driverPath, marker := stubDriver(t)

	// Kill the first connection to simulate a driver that is not yet
	// listening, then serve the protocol.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	mux := http.NewServeMux()
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":{"sessionId":"abc123"}}`)) //nolint:errcheck
	})
	mux.HandleFunc("/session/abc123/window/handles", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":{"handles":["h1"]}}`)) //nolint:errcheck
	})
	go func() {
		conn, aerr := l.Accept()
		if aerr != nil {
			return
		}
		conn.Close() //nolint:errcheck
		_ = http.Serve(l, mux)
	}()

	cfg := Config{
		URL:          null.StringFrom("http://" + l.Addr().String()),
		DriverPath:   null.StringFrom(driverPath),
		StartupDelay: null.IntFrom(50),
	}
	s, err := NewSession(BrowserFirefox, cfg, log.NewNullLogger())
	require.NoError(t, err)

	assert.Equal(t, "abc123", s.ID())
	require.Len(t, s.Tabs(), 1)
	require.NotNil(t, s.Driver(), "the launched driver must be owned by the session")
	assert.Equal(t, 1, spawnCount(t, marker))

	done := s.Driver().Done()
	s.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Error("driver process was not terminated on session close")
	}
	assert.Nil(t, s.Driver())
	assert.Empty(t, s.Tabs())
}

func TestNewTab(t *testing.T) {
	t.Parallel()

	d := newDriverServer(t)
	d.bootstrap()
	d.respond("POST /session/abc123/window/new", `{"value":{"handle":"tab1","type":"tab"}}`)

	s := newTestSession(t, d)
	require.Empty(t, s.Tabs())

	tab, err := s.NewTab()
	require.NoError(t, err)
	assert.Equal(t, "tab1", tab.ID())
	require.Len(t, s.Tabs(), 1)
	assert.True(t, tab.Equal(s.Tabs()[0]))
}

func TestDiscoverTabsIsAdditive(t *testing.T) {
	t.Parallel()

	d := newDriverServer(t)
	d.bootstrap("h1", "h2")

	s := newTestSession(t, d)
	require.Len(t, s.Tabs(), 2)

	// Unchanged server-side handles: a second discovery adds nothing.
	require.NoError(t, s.DiscoverTabs())
	assert.Len(t, s.Tabs(), 2)

	d.respond("GET /session/abc123/window/handles", `{"value":{"handles":["h1","h2","h3"]}}`)
	require.NoError(t, s.DiscoverTabs())
	require.Len(t, s.Tabs(), 3)
	assert.Equal(t, "h3", s.Tabs()[2].ID())
}

func TestSelectedTab(t *testing.T) {
	t.Parallel()

	d := newDriverServer(t)
	d.bootstrap("h1")
	d.respond("GET /session/abc123/window", `{"value":"h1"}`)

	s := newTestSession(t, d)
	tab, err := s.SelectedTab()
	require.NoError(t, err)
	assert.Equal(t, "h1", tab.ID())
	assert.Len(t, s.Tabs(), 1, "an already known handle is not duplicated")

	// An externally opened window becomes tracked.
	d.respond("GET /session/abc123/window", `{"value":"h9"}`)
	tab, err = s.SelectedTab()
	require.NoError(t, err)
	assert.Equal(t, "h9", tab.ID())
	assert.Len(t, s.Tabs(), 2)
}

func TestTimeoutsRoundTrip(t *testing.T) {
	t.Parallel()

	d := newDriverServer(t)
	d.bootstrap()

	var stored string
	d.handle("POST /session/abc123/timeouts", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		stored = string(data)
		w.Write([]byte(`{"value":null}`)) //nolint:errcheck
	})
	d.handle("GET /session/abc123/timeouts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":` + stored + `}`)) //nolint:errcheck
	})

	s := newTestSession(t, d)

	want := Timeouts{PageLoad: 30000, Implicit: 5000}
	require.NoError(t, s.SetTimeouts(want))
	assert.JSONEq(t, `{"pageLoad":30000,"implicit":5000}`, stored, "absent script timeout is not sent")

	got, err := s.Timeouts()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTimeoutsWithScript(t *testing.T) {
	t.Parallel()

	d := newDriverServer(t)
	d.bootstrap()
	d.respond("GET /session/abc123/timeouts", `{"value":{"script":30000,"pageLoad":300000,"implicit":0}}`)

	s := newTestSession(t, d)
	got, err := s.Timeouts()
	require.NoError(t, err)
	assert.Equal(t, Timeouts{Script: null.IntFrom(30000), PageLoad: 300000, Implicit: 0}, got)
}

func TestTimeoutsMissingRequiredField(t *testing.T) {
	t.Parallel()

	d := newDriverServer(t)
	d.bootstrap()
	d.respond("GET /session/abc123/timeouts", `{"value":{"script":30000,"pageLoad":300000}}`)

	s := newTestSession(t, d)
	_, err := s.Timeouts()
	assert.ErrorIs(t, err, wire.InvalidResponse)
}

func TestSessionWithoutIDFailsFast(t *testing.T) {
	t.Parallel()

	s := &Session{logger: log.NewNullLogger()}
	_, err := s.SelectedTabID()
	assert.ErrorIs(t, err, wire.InvalidSessionID)
}

func mustCurrentPlatform(t *testing.T) string {
	t.Helper()
	p, err := CurrentPlatform()
	require.NoError(t, err)
	return string(p)
}

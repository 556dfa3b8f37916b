package common

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/driverkit/webdriver/log"
	"github.com/driverkit/webdriver/wire"
)

// Session is one negotiated browser-automation context. It owns the wire
// client, the set of known tabs, and, when the fallback launch was used, the
// driver process.
type Session struct {
	id      string
	browser Browser
	client  *wire.Client
	tabs    []*Tab
	driver  *DriverProcess

	logger *log.Logger
}

// NewSession negotiates a session with the WebDriver server for the given
// browser. When no server is listening it launches the platform-appropriate
// driver executable (Unix-like platforms only), waits for it to settle, and
// retries exactly once. Protocol errors are never retried.
func NewSession(browser Browser, cfg Config, logger *log.Logger) (*Session, error) {
	cfg = NewConfig().Apply(cfg)
	if logger == nil {
		logger = log.NewNullLogger()
	}

	logger.Infof("session", "creating a %s session", browser)

	s, err := newSession(browser, cfg, logger)
	if errors.Is(err, wire.FailedRequest) {
		logger.Warnf("session", "no WebDriver server listening on %s", cfg.URL.String)
		if !canLaunchDriver() {
			// On this platform the driver must be started manually.
			return nil, err
		}

		driver, derr := launchDriver(browser, cfg, logger)
		if derr != nil {
			return nil, derr
		}
		time.Sleep(cfg.startupDelay())

		s, err = newSession(browser, cfg, logger)
		if err != nil {
			logger.Errorf("session", "creating session after driver launch: %v", err)
			driver.Terminate()
			return nil, err
		}
		s.driver = driver
	} else if err != nil {
		return nil, err
	}

	// Discover the tabs the browser opened on startup. Discovery, not
	// creation: the handles already exist server side.
	if err := s.DiscoverTabs(); err != nil {
		if s.driver != nil {
			s.driver.Terminate()
		}
		return nil, errors.Wrap(err, "discovering initial tabs")
	}

	logger.Infof("session", "session %s created", s.id)
	return s, nil
}

// newSession performs one direct session-creation attempt.
func newSession(browser Browser, cfg Config, logger *log.Logger) (*Session, error) {
	platform, err := CurrentPlatform()
	if err != nil {
		return nil, err
	}

	client := wire.NewClient(cfg.URL.String, cfg.requestTimeout(), logger)

	value, err := client.Command(http.MethodPost, "/session", capabilitiesPayload(browser, platform, cfg.Headless.Bool))
	if err != nil {
		return nil, err
	}
	id := value.Get("sessionId")
	if id.Type != gjson.String {
		return nil, errors.Wrap(wire.InvalidResponse, "session response has no sessionId")
	}

	return &Session{
		id:      id.String(),
		browser: browser,
		client:  client,
		logger:  logger,
	}, nil
}

func launchDriver(browser Browser, cfg Config, logger *log.Logger) (*DriverProcess, error) {
	path := browser.DriverExecutable()
	if cfg.DriverPath.Valid && cfg.DriverPath.String != "" {
		path = cfg.DriverPath.String
	}
	logger.Infof("session", "launching %s...", path)
	return startDriverProcess(path, browser.DriverArgs(), logger)
}

// ID returns the server-issued session id.
func (s *Session) ID() string {
	return s.id
}

// Browser returns the browser this session drives.
func (s *Session) Browser() Browser {
	return s.browser
}

// Tabs returns the currently known tabs, in discovery order.
func (s *Session) Tabs() []*Tab {
	return s.tabs
}

// Driver returns the driver process launched by this session, or nil when an
// already-running server was used.
func (s *Session) Driver() *DriverProcess {
	return s.driver
}

// path builds a session-scoped command path. A session without an id fails
// fast, before any network call.
func (s *Session) path(suffix string) (string, error) {
	if s.id == "" {
		return "", errors.Wrap(wire.InvalidSessionID, "session has no id")
	}
	return "/session/" + s.id + suffix, nil
}

// command dispatches one session-scoped command and returns its value payload.
func (s *Session) command(method, suffix string, body any) (gjson.Result, error) {
	path, err := s.path(suffix)
	if err != nil {
		return gjson.Result{}, err
	}
	return s.client.Command(method, path, body)
}

// SelectedTabID returns the handle of the currently selected window.
func (s *Session) SelectedTabID() (string, error) {
	value, err := s.command(http.MethodGet, "/window", nil)
	if err != nil {
		return "", err
	}
	return requireString(value)
}

// SelectedTab returns a Tab for the currently selected window.
func (s *Session) SelectedTab() (*Tab, error) {
	id, err := s.SelectedTabID()
	if err != nil {
		return nil, err
	}
	if t := s.knownTab(id); t != nil {
		return t, nil
	}
	// Selected window was opened outside this client; track it.
	t := &Tab{id: id, session: s}
	s.tabs = append(s.tabs, t)
	return t, nil
}

// NewTab opens a new browser tab and returns it.
func (s *Session) NewTab() (*Tab, error) {
	s.logger.Infof("session", "opening a new tab...")

	value, err := s.command(http.MethodPost, "/window/new", map[string]any{})
	if err != nil {
		return nil, err
	}
	handle := value.Get("handle")
	if handle.Type != gjson.String {
		return nil, errors.Wrap(wire.InvalidResponse, "new window response has no handle")
	}

	t := &Tab{id: handle.String(), session: s}
	s.tabs = append(s.tabs, t)
	return t, nil
}

// DiscoverTabs lists the open window handles and appends, in server-reported
// order, every handle not already known. Additive: handles are unique, so id
// equality is the only dedup needed.
func (s *Session) DiscoverTabs() error {
	s.logger.Debugf("session", "discovering tabs...")

	value, err := s.command(http.MethodGet, "/window/handles", nil)
	if err != nil {
		return err
	}
	handles := value.Get("handles")
	if !handles.IsArray() {
		return errors.Wrap(wire.InvalidResponse, "window handles response has no handles array")
	}

	for _, handle := range handles.Array() {
		if handle.Type != gjson.String {
			return errors.Wrap(wire.InvalidResponse, "window handle is not a string")
		}
		if s.knownTab(handle.String()) == nil {
			s.tabs = append(s.tabs, &Tab{id: handle.String(), session: s})
		}
	}
	return nil
}

func (s *Session) knownTab(id string) *Tab {
	for _, t := range s.tabs {
		if t.id == id {
			return t
		}
	}
	return nil
}

func (s *Session) removeTab(id string) {
	for i, t := range s.tabs {
		if t.id == id {
			s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
			return
		}
	}
}

// Timeouts fetches the session timeout configuration. pageLoad and implicit
// are required in the response; script may be absent or null.
func (s *Session) Timeouts() (Timeouts, error) {
	s.logger.Debugf("session", "getting timeouts...")

	value, err := s.command(http.MethodGet, "/timeouts", nil)
	if err != nil {
		return Timeouts{}, err
	}
	return timeoutsFromValue(value)
}

// SetTimeouts configures the session timeouts as a unit.
func (s *Session) SetTimeouts(t Timeouts) error {
	s.logger.Debugf("session", "setting timeouts: %v", t)

	value, err := s.command(http.MethodPost, "/timeouts", t.body())
	if err != nil {
		return err
	}
	return requireNull(value)
}

// Close tears the session down locally: known tabs are released (no network
// calls are made to close them server side) and the driver process, if this
// session launched one, is terminated. Termination failure is logged, never
// surfaced.
func (s *Session) Close() {
	s.logger.Infof("session", "closing session %s", s.id)
	s.tabs = nil
	if s.driver != nil {
		s.driver.Terminate()
		s.driver = nil
	}
}

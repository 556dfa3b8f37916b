package common

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/driverkit/webdriver/wire"
)

// Tab is one browser window within a session. It shares the session (it never
// owns it); a Tab is only valid while its Session is alive and its handle is
// still among the session's known handles.
type Tab struct {
	id      string
	session *Session
}

// ID returns the server-issued window handle.
func (t *Tab) ID() string {
	return t.id
}

// Session returns the owning session.
func (t *Tab) Session() *Session {
	return t.session
}

// Equal reports whether two tabs are the same window. Identity is defined by
// handle equality alone; which Session value is held does not matter.
func (t *Tab) Equal(other *Tab) bool {
	return other != nil && t.id == other.id
}

// Select makes this tab the session's current window. The switch call is
// skipped when the tab is already selected, avoiding a redundant round trip.
// A failed current-window lookup falls through to the switch.
func (t *Tab) Select() error {
	if current, err := t.session.SelectedTabID(); err == nil && current == t.id {
		return nil
	}

	value, err := t.session.command(http.MethodPost, "/window", map[string]any{"handle": t.id})
	if err != nil {
		return err
	}
	return requireNull(value)
}

// do selects the tab and dispatches one tab-scoped command. Selection failure
// aborts with the error it received.
func (t *Tab) do(method, suffix string, body any) (gjson.Result, error) {
	if err := t.Select(); err != nil {
		return gjson.Result{}, err
	}
	return t.session.command(method, suffix, body)
}

// Navigate loads the given URL in the tab.
func (t *Tab) Navigate(url string) error {
	t.session.logger.Infof("tab", "navigating to %s...", url)

	value, err := t.do(http.MethodPost, "/url", map[string]any{"url": url})
	if err != nil {
		return err
	}
	return requireNull(value)
}

// URL returns the URL of the current page.
func (t *Tab) URL() (string, error) {
	value, err := t.do(http.MethodGet, "/url", nil)
	if err != nil {
		return "", err
	}
	return requireString(value)
}

// Title returns the title of the current page.
func (t *Tab) Title() (string, error) {
	value, err := t.do(http.MethodGet, "/title", nil)
	if err != nil {
		return "", err
	}
	return requireString(value)
}

// Back navigates to the previous page in the tab history.
func (t *Tab) Back() error {
	value, err := t.do(http.MethodPost, "/back", map[string]any{})
	if err != nil {
		return err
	}
	return requireNull(value)
}

// Forward navigates to the next page in the tab history.
func (t *Tab) Forward() error {
	value, err := t.do(http.MethodPost, "/forward", map[string]any{})
	if err != nil {
		return err
	}
	return requireNull(value)
}

// Refresh reloads the current page.
func (t *Tab) Refresh() error {
	value, err := t.do(http.MethodPost, "/refresh", map[string]any{})
	if err != nil {
		return err
	}
	return requireNull(value)
}

// Close closes the tab server side and drops it from the session's known
// set. Unlike other commands, any response without an error field counts as
// success: the close response shape is looser.
func (t *Tab) Close() error {
	t.session.logger.Infof("tab", "closing tab %s...", t.id)

	if err := t.Select(); err != nil {
		return err
	}
	if _, err := t.session.command(http.MethodDelete, "/window", nil); err != nil {
		return err
	}
	t.session.removeTab(t.id)
	return nil
}

// Find locates the first element matching value under the given selector
// strategy. A "no such element" protocol error is not a failure: it returns
// (nil, nil).
func (t *Tab) Find(selector Selector, value string) (*Element, error) {
	t.session.logger.Debugf("tab", "finding %q with selector %q", value, selector)

	res, err := t.do(http.MethodPost, "/element", map[string]any{
		"using": string(selector),
		"value": value,
	})
	if errors.Is(err, wire.NoSuchElement) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	id := res.Get(webElementIdentifier)
	if id.Type != gjson.String {
		return nil, errors.Wrap(wire.InvalidResponse, "element response has no element identifier")
	}
	return &Element{id: id.String(), tab: t}, nil
}

// ExecuteScript runs a synchronous script in the tab. Args may be nil.
func (t *Tab) ExecuteScript(script string, args []any) error {
	t.session.logger.Debugf("tab", "executing script...")

	if args == nil {
		args = []any{}
	}
	value, err := t.do(http.MethodPost, "/execute/sync", map[string]any{
		"script": script,
		"args":   args,
	})
	if err != nil {
		return err
	}
	return requireNull(value)
}

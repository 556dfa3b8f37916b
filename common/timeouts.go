package common

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"gopkg.in/guregu/null.v3"

	"github.com/driverkit/webdriver/wire"
)

// Timeouts is the session timeout configuration, in milliseconds. Script is
// optional; pageLoad and implicit are required by the protocol.
type Timeouts struct {
	Script   null.Int `json:"script"`
	PageLoad int64    `json:"pageLoad"`
	Implicit int64    `json:"implicit"`
}

// timeoutsFromValue parses the value payload of a GET /timeouts response.
func timeoutsFromValue(value gjson.Result) (Timeouts, error) {
	pageLoad := value.Get("pageLoad")
	implicit := value.Get("implicit")
	if pageLoad.Type != gjson.Number || implicit.Type != gjson.Number {
		return Timeouts{}, errors.Wrap(wire.InvalidResponse, "timeouts response is missing pageLoad or implicit")
	}

	t := Timeouts{
		PageLoad: pageLoad.Int(),
		Implicit: implicit.Int(),
	}
	if script := value.Get("script"); script.Type == gjson.Number {
		t.Script = null.IntFrom(script.Int())
	}
	return t, nil
}

// body builds the POST /timeouts request, sending only the fields that are
// present.
func (t Timeouts) body() map[string]any {
	b := map[string]any{
		"pageLoad": t.PageLoad,
		"implicit": t.Implicit,
	}
	if t.Script.Valid {
		b["script"] = t.Script.Int64
	}
	return b
}

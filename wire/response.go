package wire

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// parseValue classifies a raw response body three ways: a protocol error
// (value.error is a string), a success (the value payload is returned for the
// caller to shape-check), or an invalid response (anything else, including
// non-JSON bodies). Pure transform; every command goes through it.
func parseValue(body string) (gjson.Result, error) {
	if !gjson.Valid(body) {
		return gjson.Result{}, errors.Wrap(InvalidResponse, "response is not valid JSON")
	}
	value := gjson.Get(body, "value")
	if !value.Exists() {
		return gjson.Result{}, errors.Wrap(InvalidResponse, "response has no value field")
	}
	if wireErr := value.Get("error"); wireErr.Type == gjson.String {
		return gjson.Result{}, &Error{
			Code:       Code(wireErr.String()),
			Message:    value.Get("message").String(),
			Stacktrace: value.Get("stacktrace").String(),
		}
	}
	return value, nil
}

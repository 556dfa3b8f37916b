package common

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/driverkit/webdriver/wire"
)

// requireNull checks the expected success shape of mutating commands.
func requireNull(value gjson.Result) error {
	if value.Type != gjson.Null {
		return errors.Wrap(wire.InvalidResponse, "expected a null value")
	}
	return nil
}

// requireString checks the expected success shape of string-valued queries
// and returns the payload verbatim.
func requireString(value gjson.Result) (string, error) {
	if value.Type != gjson.String {
		return "", errors.Wrap(wire.InvalidResponse, "expected a string value")
	}
	return value.String(), nil
}

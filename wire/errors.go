package wire

import "fmt"

// Code identifies a failure in the WebDriver error taxonomy. The W3C wire
// error strings are used verbatim so a Code compares directly against what a
// driver puts in the response's "value.error" field. Codes raised locally by
// this client (never sent by a server) use the same mechanism.
type Code string

// Client-side codes.
const (
	// FailedRequest is any transport-level failure: connection refused,
	// timeout, DNS. Session creation uses it to detect that no driver is
	// listening and trigger the fallback launch; nothing else retries on it.
	FailedRequest Code = "failed request"
	// InvalidResponse is a response that is not JSON or whose value matches
	// neither a success shape nor a protocol error.
	InvalidResponse Code = "invalid response"
	// UnsupportedPlatform is reported before any network call when the local
	// platform is not in the WebDriver platformName enumeration.
	UnsupportedPlatform Code = "unsupported platform"
)

// W3C WebDriver wire error codes.
const (
	ElementClickIntercepted Code = "element click intercepted"
	ElementNotInteractable  Code = "element not interactable"
	InsecureCertificate     Code = "insecure certificate"
	InvalidArgument         Code = "invalid argument"
	InvalidCookieDomain     Code = "invalid cookie domain"
	InvalidElementState     Code = "invalid element state"
	InvalidSelector         Code = "invalid selector"
	InvalidSessionID        Code = "invalid session id"
	JavascriptError         Code = "javascript error"
	MoveTargetOutOfBounds   Code = "move target out of bounds"
	NoSuchAlert             Code = "no such alert"
	NoSuchCookie            Code = "no such cookie"
	NoSuchElement           Code = "no such element"
	NoSuchFrame             Code = "no such frame"
	NoSuchWindow            Code = "no such window"
	ScriptTimeout           Code = "script timeout"
	SessionNotCreated       Code = "session not created"
	StaleElementReference   Code = "stale element reference"
	Timeout                 Code = "timeout"
	UnableToSetCookie       Code = "unable to set cookie"
	UnableToCaptureScreen   Code = "unable to capture screen"
	UnexpectedAlertOpen     Code = "unexpected alert open"
	UnknownCommand          Code = "unknown command"
	UnknownError            Code = "unknown error"
	UnknownMethod           Code = "unknown method"
	UnsupportedOperation    Code = "unsupported operation"
)

// Error implements the error interface, so a bare Code can be returned and
// matched with errors.Is.
func (c Code) Error() string {
	return string(c)
}

// Error is a protocol error reported by the WebDriver server. Unwrap returns
// the Code, so errors.Is(err, wire.NoSuchElement) matches regardless of the
// message or stacktrace attached by the driver.
type Error struct {
	Code       Code
	Message    string
	Stacktrace string
}

// NewError builds an Error from the wire error string and message. Codes
// outside the W3C table are kept verbatim; they still compare as Codes.
func NewError(code, message string) *Error {
	return &Error{Code: Code(code), Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap makes errors.Is(err, someCode) work on wrapped protocol errors.
func (e *Error) Unwrap() error {
	return e.Code
}

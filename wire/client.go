// Package wire implements the WebDriver protocol layer: command dispatch
// against a local driver endpoint, the response envelope codec, and the error
// taxonomy shared by all higher layers.
package wire

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/driverkit/webdriver/log"
)

const (
	// DefaultBaseURL is where geckodriver and chromedriver listen by default.
	DefaultBaseURL = "http://localhost:4444"
	// DefaultTimeout bounds every command round trip.
	DefaultTimeout = 10 * time.Second
)

// Client dispatches WebDriver commands over HTTP. One network round trip per
// call, no retries; retry policy belongs to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient returns a Client rooted at baseURL. Empty baseURL and zero
// timeout select the defaults.
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// BaseURL returns the endpoint the client dispatches against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs one request and returns the raw response text. Every
// transport-level failure is collapsed into FailedRequest; the session layer
// relies on that single signal to detect a driver that is not listening.
func (c *Client) Do(method, path string, body any) (string, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return "", errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return "", errors.Wrap(err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	c.logger.Debugf("wire:do", "%s %s", method, path)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorf("wire:do", "%s %s: %v", method, path, err)
		return "", errors.Wrap(FailedRequest, err.Error())
	}
	defer res.Body.Close() //nolint:errcheck

	text, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.Errorf("wire:do", "%s %s: reading body: %v", method, path, err)
		return "", errors.Wrap(FailedRequest, err.Error())
	}

	return string(text), nil
}

// Command dispatches one command and classifies the response, returning the
// value payload on success and a typed error otherwise. Callers check the
// payload against the shape their command expects.
func (c *Client) Command(method, path string, body any) (gjson.Result, error) {
	text, err := c.Do(method, path, body)
	if err != nil {
		return gjson.Result{}, err
	}
	value, err := parseValue(text)
	if err != nil {
		c.logger.Errorf("wire:command", "%s %s: %v", method, path, err)
		return gjson.Result{}, err
	}
	return value, nil
}

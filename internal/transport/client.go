package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http   *http.Client
	auth   Authenticator
	apiKey string
}

// New creates a new transport client. A nil httpClient gets one with
// DefaultHTTPTimeout.
func New(auth Authenticator, apiKey string, httpClient *http.Client) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Client{http: httpClient, auth: auth, apiKey: apiKey}
}

// Do performs an HTTP request with authentication applied. Transport
// failures come back as *errors.NetworkError; a canceled context also
// matches errors.ErrCanceled.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}

	req.Header.Set("Accept", "application/json")
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, errors.NewNetworkError(req.Method, redact(req), canceled{ctxErr})
		}
		return nil, errors.NewNetworkError(req.Method, redact(req), err)
	}
	return resp, nil
}

// NewJSONRequest builds a request with body encoded as JSON. A nil body
// sends no payload.
func NewJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", "request body", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &errors.ConfigError{Component: "transport", Message: "invalid request " + method + " " + url, Err: err}
	}
	return req, nil
}

func redact(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	return u.String()
}

// canceled tags a context error so that errors.Is matches both the
// context error and errors.ErrCanceled.
type canceled struct{ err error }

func (c canceled) Error() string { return c.err.Error() }
func (c canceled) Unwrap() error { return c.err }
func (c canceled) Is(target error) bool {
	return target == errors.ErrCanceled
}

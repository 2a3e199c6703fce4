// Package postgrest implements backend.Backend over a hosted PostgREST
// endpoint. Every request carries the static anon key as both the apikey
// header and a bearer token. There is no retry and no backoff: a failed
// call is reported once and the caller decides what to show.
package postgrest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pricemap-tw/pricemap/internal/backend"
	"github.com/pricemap-tw/pricemap/internal/transport"
	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/logging"
)

var _ backend.Backend = (*Client)(nil)

// Client talks to the PostgREST API under <baseURL>/rest/v1.
type Client struct {
	restURL      string
	transport    *transport.Client
	historyLimit int
}

type options struct {
	httpClient   *http.Client
	historyLimit int
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithHistoryLimit caps the price-history rows fetched per location.
func WithHistoryLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.historyLimit = n
		}
	}
}

// New creates a client for the backend at baseURL using the anon key.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	o := &options{historyLimit: constants.PriceHistoryLimit}
	for _, opt := range opts {
		opt(o)
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.NewConfigError("postgrest", "invalid backend URL "+strconv.Quote(baseURL), err)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.NewConfigError("postgrest", "backend key is required", nil)
	}

	return &Client{
		restURL:      baseURL + constants.RESTPath,
		transport:    transport.New(transport.AnonKeyAuth(), apiKey, o.httpClient),
		historyLimit: o.historyLimit,
	}, nil
}

func (c *Client) tableURL(table string, query url.Values) string {
	u := c.restURL + "/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func eq(v any) string {
	switch x := v.(type) {
	case int64:
		return "eq." + strconv.FormatInt(x, 10)
	case string:
		return "eq." + x
	}
	return "eq."
}

// do sends one request and decodes the JSON reply into target.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, body, target any, representation bool) error {
	ctx = logging.WithTable(ctx, table)
	req, err := transport.NewJSONRequest(ctx, method, c.tableURL(table, query), body)
	if err != nil {
		return err
	}
	if representation {
		req.Header.Set("Prefer", "return=representation")
	}

	logging.Ctx(ctx).Debug().Str("method", method).Msg("Backend request")

	resp, err := c.transport.Do(req)
	if err != nil {
		return err
	}
	return transport.DecodeResponse(resp, table, target)
}

// ListLocations implements backend.Reader.
func (c *Client) ListLocations(ctx context.Context) ([]locations.Location, error) {
	var rows []locations.Location
	q := url.Values{"select": {"*"}}
	if err := c.do(ctx, http.MethodGet, constants.TableLocations, q, nil, &rows, false); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []locations.Location{}
	}
	return rows, nil
}

// GetLocation implements backend.Reader.
func (c *Client) GetLocation(ctx context.Context, id int64) (*locations.Location, error) {
	var rows []locations.Location
	q := url.Values{"select": {"*"}, "id": {eq(id)}}
	if err := c.do(ctx, http.MethodGet, constants.TableLocations, q, nil, &rows, false); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.NewNotFoundError("location", strconv.FormatInt(id, 10))
	}
	return &rows[0], nil
}

// ListNotes implements backend.Reader.
func (c *Client) ListNotes(ctx context.Context, id int64) ([]locations.Note, error) {
	var rows []locations.Note
	q := url.Values{
		"mounjaro_data_id": {eq(id)},
		"select":           {"id,note,created_at"},
		"order":            {"created_at.desc"},
	}
	if err := c.do(ctx, http.MethodGet, constants.TableNotes, q, nil, &rows, false); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []locations.Note{}
	}
	return rows, nil
}

// ListPriceHistory implements backend.Reader.
func (c *Client) ListPriceHistory(ctx context.Context, id int64) ([]locations.PricePoint, error) {
	var rows []locations.PricePoint
	q := url.Values{
		"mounjaro_data_id": {eq(id)},
		"is_deleted":       {"eq.false"},
		"select":           {"price5mg,price10mg,created_at"},
		"order":            {"created_at.desc"},
		"limit":            {strconv.Itoa(c.historyLimit)},
	}
	if err := c.do(ctx, http.MethodGet, constants.TablePriceHistory, q, nil, &rows, false); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []locations.PricePoint{}
	}
	return rows, nil
}

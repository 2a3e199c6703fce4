package pricemap

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricemap-tw/pricemap/internal/backend"
	"github.com/pricemap-tw/pricemap/internal/backend/memory"
	"github.com/pricemap-tw/pricemap/internal/backend/postgres"
	"github.com/pricemap-tw/pricemap/internal/backend/postgrest"
	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/logging"
	"github.com/pricemap-tw/pricemap/pkg/reconciler"
)

// KindMemory names the in-process backend used for fixtures and tests.
const KindMemory backend.Kind = "memory"

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the client configuration.
type options struct {
	kind        backend.Kind
	backendURL  string
	backendKey  string
	databaseURL string
	fixturePath string
	backend     backend.Backend
	httpClient  *http.Client

	historyLimit      int
	refreshTimeout    time.Duration
	reconcilerOptions []reconciler.Option

	autoRefreshEnabled  bool
	autoRefreshInterval time.Duration

	logger *zerolog.Logger
}

// defaults returns the default client options.
func defaults() *options {
	return &options{
		kind:                backend.KindPostgREST,
		backendURL:          constants.DefaultBackendURL,
		historyLimit:        constants.PriceHistoryLimit,
		refreshTimeout:      constants.RefreshTimeout,
		autoRefreshEnabled:  false,
		autoRefreshInterval: constants.DefaultRefreshInterval,
		logger:              logging.Default(),
	}
}

// apply applies opts in order, stopping at the first error.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// openBackend builds the configured backend.
func (o *options) openBackend(ctx context.Context) (backend.Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}

	switch o.kind {
	case backend.KindPostgREST:
		var popts []postgrest.Option
		if o.httpClient != nil {
			popts = append(popts, postgrest.WithHTTPClient(o.httpClient))
		}
		popts = append(popts, postgrest.WithHistoryLimit(o.historyLimit))
		return postgrest.New(o.backendURL, o.backendKey, popts...)
	case backend.KindPostgres:
		ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
		defer cancel()
		return postgres.Open(ctx, o.databaseURL)
	case KindMemory:
		if o.fixturePath == "" {
			return memory.New(), nil
		}
		return memory.LoadFixture(o.fixturePath)
	}
	return nil, errors.NewConfigError("backend", "unknown backend "+string(o.kind), nil)
}

// WithPostgREST configures the hosted PostgREST backend. The key is the
// public anon key; it is sent as both the apikey header and a bearer token.
func WithPostgREST(url, apiKey string) Option {
	return func(o *options) error {
		o.kind = backend.KindPostgREST
		o.backendURL = url
		o.backendKey = apiKey
		return nil
	}
}

// WithPostgres configures a direct database connection.
func WithPostgres(dsn string) Option {
	return func(o *options) error {
		if strings.TrimSpace(dsn) == "" {
			return &errors.ValidationError{Field: "databaseURL", Message: "database URL is required"}
		}
		o.kind = backend.KindPostgres
		o.databaseURL = dsn
		return nil
	}
}

// WithFixture serves the directory from a YAML or JSON fixture file.
// An empty path starts with an empty in-memory directory.
func WithFixture(path string) Option {
	return func(o *options) error {
		o.kind = KindMemory
		o.fixturePath = path
		return nil
	}
}

// WithBackend uses an already constructed backend.
func WithBackend(b backend.Backend) Option {
	return func(o *options) error {
		if b == nil {
			return &errors.ValidationError{Field: "backend", Message: "backend is nil"}
		}
		o.backend = b
		return nil
	}
}

// WithHTTPClient sets the HTTP client used by the PostgREST backend.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) error {
		o.httpClient = c
		return nil
	}
}

// WithHistoryLimit caps the price-history rows fetched for a detail view.
func WithHistoryLimit(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return &errors.ValidationError{Field: "historyLimit", Value: n, Message: "must be positive"}
		}
		o.historyLimit = n
		return nil
	}
}

// WithRefreshTimeout bounds a single directory load.
func WithRefreshTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.refreshTimeout = d
		return nil
	}
}

// WithReconcilerOptions passes options through to the reconciler.
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(o *options) error {
		o.reconcilerOptions = append(o.reconcilerOptions, opts...)
		return nil
	}
}

// WithAutoRefresh configures whether the directory reloads periodically.
func WithAutoRefresh(enabled bool) Option {
	return func(o *options) error {
		o.autoRefreshEnabled = enabled
		return nil
	}
}

// WithAutoRefreshInterval configures how often the directory reloads.
func WithAutoRefreshInterval(interval time.Duration) Option {
	return func(o *options) error {
		o.autoRefreshInterval = interval
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}

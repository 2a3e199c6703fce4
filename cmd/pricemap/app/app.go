// Package app provides the application context and dependency management
// for the pricemap CLI. It centralizes configuration, logging, and the
// lazily created pricemap client.
package app

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pricemap-tw/pricemap"
	"github.com/pricemap-tw/pricemap/cmd/application"
	"github.com/pricemap-tw/pricemap/internal/backend"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/reconciler"
)

var _ application.Application = (*App)(nil)

// App represents the pricemap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	out    io.Writer

	// Client (lazy-initialized, singleton)
	mu     sync.RWMutex
	client pricemap.Client
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and config file, then
// options are applied.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "load config", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Client returns the pricemap client, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Client() (pricemap.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	opts, err := a.clientOptions()
	if err != nil {
		return nil, err
	}
	c, err := pricemap.New(opts...)
	if err != nil {
		return nil, err
	}

	a.client = c
	return c, nil
}

// Shutdown stops background refreshes and releases the backend.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	c := a.client
	a.client = nil
	a.mu.Unlock()

	if c == nil {
		return nil
	}
	if err := c.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close client during shutdown")
		return err
	}
	return nil
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() ([]pricemap.Option, error) {
	cfg := a.config
	opts := []pricemap.Option{
		pricemap.WithLogger(a.logger),
		pricemap.WithReconcilerOptions(reconciler.WithAddressSearch(cfg.AddressSearch)),
	}

	switch backend.Kind(cfg.Backend) {
	case backend.KindPostgREST, "":
		opts = append(opts, pricemap.WithPostgREST(cfg.BackendURL, cfg.BackendKey))
	case backend.KindPostgres:
		opts = append(opts, pricemap.WithPostgres(cfg.DatabaseURL))
	case pricemap.KindMemory:
		opts = append(opts, pricemap.WithFixture(cfg.Fixture))
	default:
		return nil, errors.NewConfigError("backend", "unknown backend "+cfg.Backend+": must be postgrest, postgres or memory", nil)
	}

	if cfg.HistoryLimit > 0 {
		opts = append(opts, pricemap.WithHistoryLimit(cfg.HistoryLimit))
	}
	if cfg.RefreshTimeout > 0 {
		opts = append(opts, pricemap.WithRefreshTimeout(cfg.RefreshTimeout))
	}
	if cfg.RefreshInterval > 0 {
		opts = append(opts, pricemap.WithAutoRefreshInterval(cfg.RefreshInterval))
	}

	return opts, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(c pricemap.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

// WithOutput redirects command output, which defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

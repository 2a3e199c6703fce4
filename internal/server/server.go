// Package server provides the HTTP JSON API for the price directory.
//
// The architecture follows the pattern: CLI → App → Server → Router → Handlers.
// Listing endpoints are answered from the loaded directory and cached per
// query; detail views and submissions go to the backend on every call.
//
// Usage:
//
//	cfg := server.DefaultConfig()
//	srv, err := server.New(app, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv.Start()
//	defer srv.Shutdown(ctx)
//	http.ListenAndServe(":8080", srv.Handler())
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricemap-tw/pricemap"
	"github.com/pricemap-tw/pricemap/cmd/application"
	"github.com/pricemap-tw/pricemap/internal/server/cache"
	"github.com/pricemap-tw/pricemap/internal/server/middleware"
	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/directory"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       application.Application
	client    pricemap.Client
	cache     *cache.Cache
	limiter   *middleware.RateLimiter
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	logger.Debug().Msg("Creating new server instance")

	// Set defaults
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = constants.CacheTTL
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = constants.DefaultPathPrefix
	}

	client, err := app.Client()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		app:       app,
		client:    client,
		cache:     cache.New(cfg.CacheTTL, constants.CacheCleanupInterval),
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	if cfg.RateLimit > 0 {
		server.limiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}

	server.connectHooks()

	logger.Debug().Msg("Server instance created successfully")
	return server, nil
}

// connectHooks invalidates the response cache whenever the directory reloads.
func (s *Server) connectHooks() {
	s.client.OnRefreshed(func(snap directory.Snapshot) {
		s.cache.Clear()
		s.logger.Debug().
			Int("locations", len(snap.Locations)).
			Msg("Response cache cleared after refresh")
	})

	s.client.OnLocationAdded(func(loc locations.Location) {
		s.logger.Info().Str("key", loc.Key()).Str("clinic", loc.Name).Msg("Location added")
	})
	s.client.OnLocationRemoved(func(loc locations.Location) {
		s.logger.Info().Str("key", loc.Key()).Str("clinic", loc.Name).Msg("Location removed")
	})
}

// Start loads the directory in the background and keeps it fresh.
func (s *Server) Start() {
	s.logger.Debug().Msg("Starting background services")

	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		if s.config.AutoRefresh {
			if err := s.client.AutoRefreshOn(); err != nil {
				s.logger.Error().Err(err).Msg("Failed to start directory refresh")
			}
			return
		}
		if _, err := s.client.Refresh(s.ctx); err != nil && !errors.IsCanceled(err) {
			s.logger.Error().Err(err).Msg(errors.MsgLoadFailed)
		}
	}()
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops background services. The client is owned by the app.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")

	s.cancel()
	if s.limiter != nil {
		s.limiter.Stop()
	}

	if s.done != nil {
		select {
		case <-s.done:
		case <-ctx.Done():
			s.logger.Warn().Msg("Background services shutdown timed out")
			return ctx.Err()
		}
	}

	_ = s.client.AutoRefreshOff()
	s.logger.Info().Msg("Background services shut down successfully")
	return nil
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}

// Package serve provides the HTTP API server command.
package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pricemap-tw/pricemap/cmd/application"
	"github.com/pricemap-tw/pricemap/internal/server"
	"github.com/pricemap-tw/pricemap/pkg/constants"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	defaults := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Serve the directory as a JSON API",
		Long: `Start the JSON API for the price directory.

Features:
  - Filtered, sorted and paged listings answered from the loaded directory
  - Location detail with notes and 5 mg / 10 mg price trends
  - Report and deletion submissions to the moderation queue
  - Pen dose and BMR calculators
  - Periodic directory refresh and a response cache cleared on each refresh
  - Request ids, structured request logging and panic recovery
  - CORS, per-IP rate limiting and an optional API key on /refresh
  - Graceful shutdown with connection draining`,
		Example: `  # Start on default port 8080
  pricemap serve

  # Serve a local fixture
  pricemap --fixture testdata/directory.yaml serve --port 3000

  # Protect the refresh endpoint
  PRICEMAP_API_KEY=secret pricemap serve --auth`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromFlags(cmd, defaults)
			if err != nil {
				return err
			}
			return run(cmd.Context(), app, cfg)
		},
	}

	cmd.Flags().IntP("port", "p", defaults.Port, "Server port")
	cmd.Flags().String("host", defaults.Host, "Bind address")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")

	cmd.Flags().Bool("cors", defaults.CORSEnabled, "Enable CORS")
	cmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (comma-separated, default all)")

	cmd.Flags().Bool("auth", defaults.AuthEnabled, "Require an API key on the refresh endpoint")
	cmd.Flags().String("auth-header", defaults.AuthHeader, "Authentication header name")

	cmd.Flags().Int("rate-limit", defaults.RateLimit, "Requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("cache-ttl", defaults.CacheTTL, "Response cache TTL")
	cmd.Flags().Bool("auto-refresh", defaults.AutoRefresh, "Reload the directory periodically")

	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	return cmd
}

// configFromFlags builds the server config. HTTP_HOST and HTTP_PORT
// override the bind address when the flags are not given.
func configFromFlags(cmd *cobra.Command, cfg server.Config) (server.Config, error) {
	f := cmd.Flags()
	cfg.Port, _ = f.GetInt("port")
	cfg.Host, _ = f.GetString("host")
	cfg.PathPrefix, _ = f.GetString("prefix")
	cfg.CORSEnabled, _ = f.GetBool("cors")
	cfg.CORSOrigins, _ = f.GetStringSlice("cors-origins")
	cfg.AuthEnabled, _ = f.GetBool("auth")
	cfg.AuthHeader, _ = f.GetString("auth-header")
	cfg.RateLimit, _ = f.GetInt("rate-limit")
	cfg.CacheTTL, _ = f.GetDuration("cache-ttl")
	cfg.AutoRefresh, _ = f.GetBool("auto-refresh")
	cfg.ReadTimeout, _ = f.GetDuration("read-timeout")
	cfg.WriteTimeout, _ = f.GetDuration("write-timeout")
	cfg.IdleTimeout, _ = f.GetDuration("idle-timeout")
	cfg.APIKey = os.Getenv("PRICEMAP_API_KEY")

	if envPort := os.Getenv("HTTP_PORT"); envPort != "" && !f.Changed("port") {
		p, err := strconv.Atoi(envPort)
		if err != nil || p <= 0 || p > 65535 {
			return cfg, fmt.Errorf("invalid HTTP_PORT %q", envPort)
		}
		cfg.Port = p
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" && !f.Changed("host") {
		cfg.Host = envHost
	}
	return cfg, nil
}

// run serves until ctx is cancelled, then drains connections.
func run(ctx context.Context, app application.Application, cfg server.Config) error {
	logger := app.Logger()
	logger.Info().
		Int("port", cfg.Port).
		Str("host", cfg.Host).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", cfg.CacheTTL).
		Bool("auto_refresh", cfg.AutoRefresh).
		Msg("Starting API server")

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	srv.Start()

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return serveWithGracefulShutdown(ctx, httpServer, srv, logger)
}

func serveWithGracefulShutdown(ctx context.Context, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("background shutdown failed: %w", err)
	}

	logger.Info().Msg("Server stopped gracefully")
	return nil
}

package server

import (
	"net/http"
	"strings"

	"github.com/pricemap-tw/pricemap/internal/server/handlers"
	"github.com/pricemap-tw/pricemap/internal/server/middleware"
	"github.com/pricemap-tw/pricemap/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(s.client, s.cache, s.logger, s.startTime)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := strings.TrimSuffix(s.config.PathPrefix, "/")

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("/health", get(h.HandleHealth))
	mux.HandleFunc(prefix+"/health", get(h.HandleHealth))
	mux.HandleFunc(prefix+"/ready", get(h.HandleReady))

	// Directory
	mux.HandleFunc(prefix+"/locations", get(h.HandleListLocations))
	mux.HandleFunc(prefix+"/cities", get(h.HandleCities))

	mux.HandleFunc(prefix+"/locations/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(strings.TrimPrefix(r.URL.Path, prefix+"/locations/"))

		switch {
		case len(parts) == 1 && r.Method == http.MethodGet:
			// GET /locations/{id}
			h.HandleGetLocation(w, r, parts[0])
		case len(parts) == 2 && parts[1] == "reports" && r.Method == http.MethodPost:
			// POST /locations/{id}/reports
			h.HandleSubmitReport(w, r, parts[0])
		case len(parts) == 2 && parts[1] == "deletions" && r.Method == http.MethodPost:
			// POST /locations/{id}/deletions
			h.HandleRequestDeletion(w, r, parts[0])
		case len(parts) == 1 || len(parts) == 2 && (parts[1] == "reports" || parts[1] == "deletions"):
			response.MethodNotAllowed(w, r.Method)
		default:
			response.NotFound(w, "Not found", r.URL.Path)
		}
	})

	// Calculators
	mux.HandleFunc(prefix+"/calculators/dose", get(h.HandleDoseCalculator))
	mux.HandleFunc(prefix+"/calculators/bmr", get(h.HandleBMRCalculator))

	// Admin endpoints
	mux.HandleFunc(prefix+"/refresh", method(http.MethodPost, h.HandleRefresh))
	mux.HandleFunc(prefix+"/stats", get(h.HandleStats))
}

// applyMiddleware wraps handler with middleware chain. The request id is
// outermost so every later layer can log it.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	var chain []func(http.Handler) http.Handler
	chain = append(chain,
		middleware.RequestID(),
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	)

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		if cfg.APIKey != "" {
			authConfig.APIKey = cfg.APIKey
		}
		authConfig.ProtectedPaths = []string{strings.TrimSuffix(cfg.PathPrefix, "/") + "/refresh"}
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	if s.limiter != nil {
		chain = append(chain, middleware.RateLimit(s.limiter))
	}

	return middleware.Chain(chain...)(handler)
}

// get restricts a handler to GET (and HEAD).
func get(fn http.HandlerFunc) http.HandlerFunc {
	return method(http.MethodGet, fn)
}

func method(m string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != m && !(m == http.MethodGet && r.Method == http.MethodHead) {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		fn(w, r)
	}
}

// splitPath splits a URL path into parts, removing empty strings.
func splitPath(path string) []string {
	parts := []string{}
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestCORS tests origin handling and preflight short-circuit.
func TestCORS(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allow all", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowAll = true
		w := httptest.NewRecorder()
		CORS(cfg)(next).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected *, got %q", got)
		}
	})

	t.Run("listed origin", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowedOrigins = []string{"https://pricemap.tw"}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://pricemap.tw")
		w := httptest.NewRecorder()
		CORS(cfg)(next).ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://pricemap.tw" {
			t.Errorf("expected origin echo, got %q", got)
		}
	})

	t.Run("unlisted origin", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowedOrigins = []string{"https://pricemap.tw"}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://evil.test")
		w := httptest.NewRecorder()
		CORS(cfg)(next).ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no allow-origin, got %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		CORS(DefaultCORSConfig())(next).ServeHTTP(w, httptest.NewRequest("OPTIONS", "/", nil))
		if called {
			t.Error("preflight should not reach the handler")
		}
		if w.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", w.Code)
		}
	})
}

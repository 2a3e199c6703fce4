package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pricemap-tw/pricemap/pkg/logging"
)

// TestChain tests middleware composition order.
func TestChain(t *testing.T) {
	var callOrder []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				callOrder = append(callOrder, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		callOrder = append(callOrder, "handler")
		w.WriteHeader(http.StatusOK)
	})

	Chain(mark("m1"), mark("m2"), mark("m3"))(handler).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := []string{"m1", "m2", "m3", "handler"}
	if strings.Join(callOrder, ",") != strings.Join(want, ",") {
		t.Errorf("expected call order %v, got %v", want, callOrder)
	}
}

// TestRequestID tests id generation and propagation.
func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = logging.RequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		if seen == "" {
			t.Fatal("expected a request id in context")
		}
		if got := w.Header().Get(RequestIDHeader); got != seen {
			t.Errorf("expected header %q, got %q", seen, got)
		}
	})

	t.Run("inbound", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if seen != "abc-123" {
			t.Errorf("expected inbound id, got %q", seen)
		}
	})
}

// TestLogger tests request logging with status capture.
func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Chain(RequestID(), Logger(&logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/cities", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}

	var inside, done map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &inside); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &done); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}

	if inside["request_id"] == "" || inside["request_id"] != done["request_id"] {
		t.Errorf("expected matching request ids, got %v and %v", inside["request_id"], done["request_id"])
	}
	if done["status"] != float64(http.StatusTeapot) {
		t.Errorf("expected status 418, got %v", done["status"])
	}
	if done["path"] != "/api/v1/cities" {
		t.Errorf("expected path, got %v", done["path"])
	}
}

// TestRecovery tests panic recovery.
func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()
	handler := Recovery(&logger)(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("expected INTERNAL_ERROR body, got %s", w.Body.String())
	}
}

package response

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pricemap-tw/pricemap/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	return resp
}

// TestEnvelope checks that data and error are mutually exclusive and that
// the error field is always present.
func TestEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	Created(w, map[string]int64{"id": 42})
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if body := w.Body.String(); body != "{\"data\":{\"id\":42},\"error\":null}\n" {
		t.Errorf("body = %q", body)
	}

	w = httptest.NewRecorder()
	NotFound(w, errors.MsgNotFound, "location 9")
	resp := decode(t, w)
	if resp.Data != nil || resp.Error == nil {
		t.Fatalf("unexpected envelope %+v", resp)
	}
	if resp.Error.Code != "NOT_FOUND" || resp.Error.Message != errors.MsgNotFound || resp.Error.Details != "location 9" {
		t.Errorf("error = %+v", resp.Error)
	}
}

// TestErrorFromType maps each error kind to its status and visitor message.
func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "report without prices",
			err:     errors.NewValidationError("prices", nil, errors.MsgPriceRequired),
			status:  http.StatusBadRequest,
			code:    "BAD_REQUEST",
			message: errors.MsgPriceRequired,
		},
		{
			name:    "unknown location",
			err:     errors.NewNotFoundError("location", "9"),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: errors.MsgNotFound,
		},
		{
			name:    "second deletion request",
			err:     errors.NewConflictError("deletion_request", "9", errors.MsgDeletionPending, nil),
			status:  http.StatusConflict,
			code:    "CONFLICT",
			message: errors.MsgDeletionPending,
		},
		{
			name:    "backend rejected insert",
			err:     errors.NewAPIError("mounjaro_reports", http.StatusInternalServerError, "boom"),
			status:  http.StatusBadGateway,
			code:    "BACKEND_ERROR",
			message: errors.MsgSubmitFailed,
		},
		{
			name:    "backend unreachable",
			err:     errors.NewNetworkError("GET", "mounjaro_data", fmt.Errorf("dial tcp: connection refused")),
			status:  http.StatusBadGateway,
			code:    "BACKEND_ERROR",
			message: errors.MsgSubmitFailed,
		},
		{
			name:    "directory not loaded",
			err:     errors.ErrNotLoaded,
			status:  http.StatusServiceUnavailable,
			code:    "SERVICE_UNAVAILABLE",
			message: "Service unavailable",
		},
		{
			name:    "refresh superseded",
			err:     fmt.Errorf("refresh: %w", errors.ErrCanceled),
			status:  http.StatusServiceUnavailable,
			code:    "SERVICE_UNAVAILABLE",
			message: "Service unavailable",
		},
		{
			name:    "unclassified",
			err:     context.DeadlineExceeded,
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_ERROR",
			message: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			resp := decode(t, w)
			if resp.Error == nil {
				t.Fatal("error missing from envelope")
			}
			if resp.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.code)
			}
			if resp.Error.Message != tt.message {
				t.Errorf("message = %q, want %q", resp.Error.Message, tt.message)
			}
		})
	}
}

// TestErrorFromTypeHidesBackendDetail keeps backend text out of the body.
func TestErrorFromTypeHidesBackendDetail(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorFromType(w, errors.NewAPIError("mounjaro_data_deletion_queue", http.StatusBadRequest, "relation secret_table does not exist"))

	resp := decode(t, w)
	if resp.Error == nil || resp.Error.Details == "" {
		t.Fatalf("unexpected envelope %+v", resp)
	}
	if got := resp.Error.Message + resp.Error.Details; strings.Contains(got, "secret_table") {
		t.Errorf("backend detail leaked: %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	MethodNotAllowed(w, http.MethodDelete)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", w.Code)
	}
	if resp := decode(t, w); resp.Error.Details != "Method DELETE is not supported for this endpoint" {
		t.Errorf("details = %q", resp.Error.Details)
	}
}

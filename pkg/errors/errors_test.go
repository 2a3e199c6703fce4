package errors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "location",
			ID:       "42",
		}
		assert.Equal(t, "location with ID 42 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("location", "7")
		wrapped := fmt.Errorf("loading detail: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("clinic", "", pkgerrors.MsgNameRequired)
		assert.Equal(t, "validation failed for field clinic: "+pkgerrors.MsgNameRequired, err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad"}
		assert.Equal(t, "validation failed: bad", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestAPIError(t *testing.T) {
	t.Run("status mapping", func(t *testing.T) {
		assert.True(t, errors.Is(pkgerrors.NewAPIError("mounjaro_data", 503, "down"), pkgerrors.ErrUnavailable))
		assert.True(t, errors.Is(pkgerrors.NewAPIError("mounjaro_data", 429, "slow"), pkgerrors.ErrRateLimited))
		assert.False(t, errors.Is(pkgerrors.NewAPIError("mounjaro_data", 400, "bad"), pkgerrors.ErrUnavailable))
	})

	t.Run("message", func(t *testing.T) {
		err := &pkgerrors.APIError{Table: "mounjaro_reports", Method: "PATCH", StatusCode: 400, Message: "bad column"}
		assert.Contains(t, err.Error(), "PATCH mounjaro_reports")
		assert.Contains(t, err.Error(), "400")
	})

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("boom")
		err := pkgerrors.WrapAPI("mounjaro_notes", 500, base)
		var api *pkgerrors.APIError
		require.True(t, errors.As(err, &api))
		assert.Equal(t, base, api.Unwrap())
	})
}

func TestConflictError(t *testing.T) {
	err := pkgerrors.NewConflictError("deletion_request", "12", "pending", nil)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), "deletion_request 12")
}

func TestNetworkError(t *testing.T) {
	err := pkgerrors.NewNetworkError("GET", "https://example.test", context.DeadlineExceeded)
	assert.True(t, pkgerrors.IsUnavailable(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want pkgerrors.Kind
	}{
		{"nil", nil, pkgerrors.KindNone},
		{"validation", pkgerrors.NewValidationError("note", "", pkgerrors.MsgReasonRequired), pkgerrors.KindValidation},
		{"conflict", pkgerrors.NewConflictError("deletion_request", "1", "dup", nil), pkgerrors.KindConflict},
		{"not found", pkgerrors.NewNotFoundError("location", "1"), pkgerrors.KindNotFound},
		{"network", pkgerrors.NewNetworkError("GET", "u", errors.New("dial")), pkgerrors.KindNetwork},
		{"status", pkgerrors.NewAPIError("mounjaro_data", 500, "x"), pkgerrors.KindStatus},
		{"canceled", fmt.Errorf("refresh: %w", pkgerrors.ErrCanceled), pkgerrors.KindCanceled},
		{"other", errors.New("other"), pkgerrors.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pkgerrors.Classify(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", pkgerrors.UserMessage(nil))
	assert.Equal(t, pkgerrors.MsgPriceRequired,
		pkgerrors.UserMessage(pkgerrors.NewValidationError("price", nil, pkgerrors.MsgPriceRequired)))
	assert.Equal(t, pkgerrors.MsgDeletionPending,
		pkgerrors.UserMessage(pkgerrors.NewConflictError("deletion_request", "1", "dup", nil)))
	assert.Equal(t, pkgerrors.MsgSubmitFailed,
		pkgerrors.UserMessage(pkgerrors.NewAPIError("mounjaro_reports", 500, "x")))
	assert.Equal(t, pkgerrors.MsgSubmitFailed,
		pkgerrors.UserMessage(pkgerrors.NewNetworkError("POST", "u", errors.New("reset"))))
}

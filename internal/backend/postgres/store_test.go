package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricemap-tw/pricemap/pkg/errors"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, wrap("t", nil))

	err := wrap("mounjaro_data", &pq.Error{Code: "42P01", Message: "relation does not exist"})
	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "42P01", apiErr.Code)

	err = wrap("mounjaro_data", fmt.Errorf("query: %w", context.Canceled))
	assert.True(t, errors.IsCanceled(err))
	assert.True(t, errors.IsUnavailable(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "P0001", Constraint: "mounjaro_data_deletion_queue_unique"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("other")))
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)
}

// TestStoreIntegration runs against a real database when
// PRICEMAP_TEST_DATABASE_URL points at one with the directory tables.
func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("PRICEMAP_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PRICEMAP_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	rows, err := store.ListLocations(ctx)
	require.NoError(t, err)
	if len(rows) == 0 {
		t.Skip("no directory rows")
	}

	loc, err := store.GetLocation(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, rows[0].ID, loc.ID)

	_, err = store.ListNotes(ctx, loc.ID)
	require.NoError(t, err)
	history, err := store.ListPriceHistory(ctx, loc.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(history), 10)

	_, err = store.GetLocation(ctx, -1)
	assert.True(t, errors.IsNotFound(err))
}

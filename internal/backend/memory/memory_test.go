package memory_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricemap-tw/pricemap/internal/backend/memory"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
)

const fixture = `
locations:
  - id: 1
    city: 台北
    district: 大安區
    clinic: 好診所
    type: clinic
    price5mg: 4200
    price10mg: "7800"
  - id: 2
    city: 高雄
    clinic: 南部藥局
    type: pharmacy
    price5mg: ""
notes:
  1:
    - id: 10
      mounjaro_data_id: 1
      note: 需預約
      created_at: 2025-01-02T00:00:00Z
history:
  1:
    - price5mg: 4000
      created_at: "2025-01-01T00:00:00Z"
    - price5mg: 4200
      created_at: "2025-02-01T00:00:00Z"
`

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	b, err := memory.LoadFixture(path)
	require.NoError(t, err)

	ctx := context.Background()
	rows, err := b.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, locations.Price(7800), rows[0].Price10mg)
	assert.False(t, rows[1].Price5mg.Offered())

	notes, err := b.ListNotes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "需預約", notes[0].Text)

	history, err := b.ListPriceHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, locations.Price(4200), history[0].Price5mg)
}

func TestLoadFixtureMissing(t *testing.T) {
	_, err := memory.LoadFixture(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDeletionUniqueness(t *testing.T) {
	b := memory.New(locations.Location{ID: 1})
	ctx := context.Background()

	_, err := b.CreateDeletionRequest(ctx, &locations.DeletionRequest{LocationID: 1, Reason: "歇業"})
	require.NoError(t, err)
	_, err = b.CreateDeletionRequest(ctx, &locations.DeletionRequest{LocationID: 1, Reason: "again"})
	assert.True(t, errors.IsConflict(err))

	pending, err := b.HasPendingDeletion(ctx, 1)
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestUpdateReportKeepsNote(t *testing.T) {
	b := memory.New()
	ctx := context.Background()

	created, err := b.CreateReport(ctx, &locations.Report{LocationID: 1, Note: locations.StringPtr("原本"), Status: "pending"})
	require.NoError(t, err)

	updated, err := b.UpdateReport(ctx, created.ID, &locations.Report{LocationID: 1, Price5mg: 1, Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "原本", updated.NoteText())
	assert.Equal(t, created.ID, updated.ID)

	_, err = b.UpdateReport(ctx, 12345, &locations.Report{})
	assert.True(t, errors.IsNotFound(err))
}

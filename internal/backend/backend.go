// Package backend defines the remote store the directory reads from and
// submissions are written to. Every entity is owned by the backend; the
// rest of pricemap only holds request-scoped copies.
package backend

import (
	"context"

	"github.com/pricemap-tw/pricemap/pkg/locations"
)

// Reader is the read side of the backend.
type Reader interface {
	// ListLocations returns every directory row. No pagination contract.
	ListLocations(ctx context.Context) ([]locations.Location, error)

	// GetLocation returns one row or a *errors.NotFoundError.
	GetLocation(ctx context.Context, id int64) (*locations.Location, error)

	// ListNotes returns the community notes of a location, newest first.
	ListNotes(ctx context.Context, id int64) ([]locations.Note, error)

	// ListPriceHistory returns up to constants.PriceHistoryLimit rows,
	// newest first, excluding deleted rows.
	ListPriceHistory(ctx context.Context, id int64) ([]locations.PricePoint, error)
}

// Writer is the moderation-queue side of the backend.
type Writer interface {
	// FindPendingReport returns the latest pending report for a location,
	// or nil when there is none.
	FindPendingReport(ctx context.Context, locationID int64) (*locations.Report, error)

	// CreateReport inserts a report and returns the stored row.
	CreateReport(ctx context.Context, report *locations.Report) (*locations.Report, error)

	// UpdateReport amends the pending report reportID in place.
	UpdateReport(ctx context.Context, reportID int64, report *locations.Report) (*locations.Report, error)

	// HasPendingDeletion reports whether a pending deletion request exists.
	HasPendingDeletion(ctx context.Context, locationID int64) (bool, error)

	// CreateDeletionRequest queues a deletion request. A second pending
	// request for the same location fails with *errors.ConflictError.
	CreateDeletionRequest(ctx context.Context, req *locations.DeletionRequest) (*locations.DeletionRequest, error)
}

// Backend is the full remote store.
type Backend interface {
	Reader
	Writer
}

// Kind names a backend implementation.
type Kind string

// Backend kinds.
const (
	KindPostgREST Kind = "postgrest"
	KindPostgres  Kind = "postgres"
)

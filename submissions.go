package pricemap

import (
	"context"

	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/reports"
)

// Compile-time interface check to ensure proper implementation.
var _ Submissions = (*client)(nil)

// Submissions sends visitor corrections to the moderation queues.
type Submissions interface {
	// SubmitReport creates or amends the pending report for location id
	SubmitReport(ctx context.Context, id int64, draft reports.Draft) (*reports.Outcome, error)

	// RequestDeletion queues a deletion request for location id
	RequestDeletion(ctx context.Context, id int64, reason string) (*locations.DeletionRequest, error)
}

// SubmitReport creates or amends the pending report for location id.
func (c *client) SubmitReport(ctx context.Context, id int64, draft reports.Draft) (*reports.Outcome, error) {
	target, err := c.target(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.submitter.SubmitReport(ctx, target, draft)
}

// RequestDeletion queues a deletion request for location id.
func (c *client) RequestDeletion(ctx context.Context, id int64, reason string) (*locations.DeletionRequest, error) {
	target, err := c.target(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.submitter.RequestDeletion(ctx, target, reason)
}

// target resolves a location from the loaded directory, falling back to
// the backend for rows loaded after the last refresh.
func (c *client) target(ctx context.Context, id int64) (locations.Location, error) {
	if id <= 0 {
		return locations.Location{}, errors.NewValidationError("mounjaro_data_id", id, errors.MsgTargetRequired)
	}
	if loc, ok := c.dir.Find(id); ok {
		return loc, nil
	}
	loc, err := c.backend.GetLocation(ctx, id)
	if err != nil {
		return locations.Location{}, err
	}
	return *loc, nil
}

package pricemap

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/logging"
	"github.com/pricemap-tw/pricemap/pkg/trend"
)

// Compile-time interface check to ensure proper implementation.
var _ Details = (*client)(nil)

// Details fetches the detail view of a single location.
type Details interface {
	// Detail returns the location, its notes and its 5 mg and 10 mg trends
	Detail(ctx context.Context, id int64) (*Detail, error)

	// Location returns the location from the backend
	Location(ctx context.Context, id int64) (*locations.Location, error)
}

// Detail is everything the detail view shows for one location.
type Detail struct {
	Location locations.Location     `json:"location" yaml:"location"`
	Notes    []locations.Note       `json:"notes" yaml:"notes"`
	History  []locations.PricePoint `json:"history" yaml:"history"`
	Trends   []trend.Series         `json:"trends" yaml:"trends"`
}

// Location returns the location with id from the backend.
func (c *client) Location(ctx context.Context, id int64) (*locations.Location, error) {
	if id <= 0 {
		return nil, errors.NewValidationError("id", id, errors.MsgTargetRequired)
	}
	return c.backend.GetLocation(ctx, id)
}

// Detail fetches the location, its notes and its price history
// concurrently. A failed notes or history read fails the whole view.
func (c *client) Detail(ctx context.Context, id int64) (*Detail, error) {
	if id <= 0 {
		return nil, errors.NewValidationError("id", id, errors.MsgTargetRequired)
	}
	ctx = logging.WithLocation(ctx, strconv.FormatInt(id, 10))

	var (
		loc     *locations.Location
		notes   []locations.Note
		history []locations.PricePoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		loc, err = c.backend.GetLocation(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = c.backend.ListNotes(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = c.backend.ListPriceHistory(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Detail fetch failed")
		return nil, err
	}

	if notes == nil {
		notes = []locations.Note{}
	}
	if history == nil {
		history = []locations.PricePoint{}
	}

	return &Detail{
		Location: *loc,
		Notes:    notes,
		History:  history,
		Trends:   trend.Detail(history),
	}, nil
}

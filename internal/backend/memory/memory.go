// Package memory implements backend.Backend in process. It backs tests and
// the offline mode of the CLI, seeded from a YAML or JSON fixture.
package memory

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/pricemap-tw/pricemap/internal/backend"
	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
)

var _ backend.Backend = (*Backend)(nil)

// Fixture is the on-disk seed format.
type Fixture struct {
	Locations []locations.Location             `json:"locations" yaml:"locations"`
	Notes     map[int64][]locations.Note       `json:"notes,omitempty" yaml:"notes,omitempty"`
	History   map[int64][]locations.PricePoint `json:"history,omitempty" yaml:"history,omitempty"`
}

// Backend is an in-memory backend. The zero value is not usable; call New.
type Backend struct {
	mu        sync.Mutex
	locations []locations.Location
	notes     map[int64][]locations.Note
	history   map[int64][]locations.PricePoint
	reports   []locations.Report
	deletions []locations.DeletionRequest
	nextID    int64
	now       func() time.Time

	// ListHook, when set, runs before ListLocations and may block or fail.
	ListHook func(ctx context.Context) error
	// Calls counts method invocations by name.
	Calls map[string]int
}

// New creates a backend holding locs.
func New(locs ...locations.Location) *Backend {
	return &Backend{
		locations: slices.Clone(locs),
		notes:     make(map[int64][]locations.Note),
		history:   make(map[int64][]locations.PricePoint),
		nextID:    1000,
		now:       time.Now,
		Calls:     make(map[string]int),
	}
}

// FromFixture creates a backend seeded from f.
func FromFixture(f Fixture) *Backend {
	b := New(f.Locations...)
	for id, notes := range f.Notes {
		b.notes[id] = slices.Clone(notes)
	}
	for id, points := range f.History {
		b.history[id] = slices.Clone(points)
	}
	return b
}

// LoadFixture reads a fixture file. YAML is a superset of JSON, so both
// formats go through the YAML decoder.
func LoadFixture(path string) (*Backend, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.NewConfigError("memory", "cannot read fixture "+path, err)
	}
	var f Fixture
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.UseJSONUnmarshaler()); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return FromFixture(f), nil
}

// SetLocations replaces the directory rows.
func (b *Backend) SetLocations(locs []locations.Location) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locations = slices.Clone(locs)
}

// AddNote attaches a note to a location.
func (b *Backend) AddNote(n locations.Note) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notes[n.LocationID] = append(b.notes[n.LocationID], n)
}

// AddPricePoint appends a price-history row.
func (b *Backend) AddPricePoint(id int64, p locations.PricePoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history[id] = append(b.history[id], p)
}

// Reports returns a copy of every stored report.
func (b *Backend) Reports() []locations.Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.reports)
}

// Deletions returns a copy of every stored deletion request.
func (b *Backend) Deletions() []locations.DeletionRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.deletions)
}

func (b *Backend) call(name string) {
	b.mu.Lock()
	b.Calls[name]++
	b.mu.Unlock()
}

// CallCount returns how often the named method ran.
func (b *Backend) CallCount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Calls[name]
}

// ListLocations implements backend.Reader.
func (b *Backend) ListLocations(ctx context.Context) ([]locations.Location, error) {
	b.call("ListLocations")
	if b.ListHook != nil {
		if err := b.ListHook(ctx); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewNetworkError("GET", constants.TableLocations, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.locations), nil
}

// GetLocation implements backend.Reader.
func (b *Backend) GetLocation(_ context.Context, id int64) (*locations.Location, error) {
	b.call("GetLocation")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.locations {
		if b.locations[i].ID == id {
			l := b.locations[i]
			return &l, nil
		}
	}
	return nil, errors.NewNotFoundError("location", strconv.FormatInt(id, 10))
}

// ListNotes implements backend.Reader.
func (b *Backend) ListNotes(_ context.Context, id int64) ([]locations.Note, error) {
	b.call("ListNotes")
	b.mu.Lock()
	defer b.mu.Unlock()
	notes := slices.Clone(b.notes[id])
	slices.SortStableFunc(notes, func(x, y locations.Note) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})
	if notes == nil {
		notes = []locations.Note{}
	}
	return notes, nil
}

// ListPriceHistory implements backend.Reader.
func (b *Backend) ListPriceHistory(_ context.Context, id int64) ([]locations.PricePoint, error) {
	b.call("ListPriceHistory")
	b.mu.Lock()
	defer b.mu.Unlock()
	points := slices.Clone(b.history[id])
	slices.SortStableFunc(points, func(x, y locations.PricePoint) int {
		return strings.Compare(y.CreatedAt, x.CreatedAt)
	})
	if len(points) > constants.PriceHistoryLimit {
		points = points[:constants.PriceHistoryLimit]
	}
	if points == nil {
		points = []locations.PricePoint{}
	}
	return points, nil
}

// FindPendingReport implements backend.Writer.
func (b *Backend) FindPendingReport(_ context.Context, locationID int64) (*locations.Report, error) {
	b.call("FindPendingReport")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.reports) - 1; i >= 0; i-- {
		r := b.reports[i]
		if r.LocationID == locationID && r.Status == constants.StatusPending {
			return &r, nil
		}
	}
	return nil, nil
}

// CreateReport implements backend.Writer.
func (b *Backend) CreateReport(_ context.Context, report *locations.Report) (*locations.Report, error) {
	b.call("CreateReport")
	b.mu.Lock()
	defer b.mu.Unlock()
	r := *report
	b.nextID++
	r.ID = b.nextID
	now := locations.NewTimestamp(b.now())
	r.CreatedAt = &now
	b.reports = append(b.reports, r)
	return &r, nil
}

// UpdateReport implements backend.Writer. A nil note keeps the stored note,
// matching a PATCH that leaves the column out.
func (b *Backend) UpdateReport(_ context.Context, reportID int64, report *locations.Report) (*locations.Report, error) {
	b.call("UpdateReport")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.reports {
		if b.reports[i].ID != reportID {
			continue
		}
		r := *report
		r.ID = reportID
		r.CreatedAt = b.reports[i].CreatedAt
		if r.Note == nil {
			r.Note = b.reports[i].Note
		}
		b.reports[i] = r
		return &r, nil
	}
	return nil, errors.NewNotFoundError("report", strconv.FormatInt(reportID, 10))
}

// HasPendingDeletion implements backend.Writer.
func (b *Backend) HasPendingDeletion(_ context.Context, locationID int64) (bool, error) {
	b.call("HasPendingDeletion")
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingDeletion(locationID), nil
}

func (b *Backend) pendingDeletion(locationID int64) bool {
	for _, d := range b.deletions {
		if d.LocationID == locationID && d.Status == constants.StatusPending {
			return true
		}
	}
	return false
}

// CreateDeletionRequest implements backend.Writer.
func (b *Backend) CreateDeletionRequest(_ context.Context, req *locations.DeletionRequest) (*locations.DeletionRequest, error) {
	b.call("CreateDeletionRequest")
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pendingDeletion(req.LocationID) {
		return nil, errors.NewConflictError("deletion_request", strconv.FormatInt(req.LocationID, 10), errors.MsgDeletionPending, nil)
	}
	d := *req
	b.nextID++
	d.ID = b.nextID
	d.Status = constants.StatusPending
	now := locations.NewTimestamp(b.now())
	d.CreatedAt = &now
	b.deletions = append(b.deletions, d)
	return &d, nil
}

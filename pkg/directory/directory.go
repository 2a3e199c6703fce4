// Package directory keeps the current copy of the price directory.
//
// At most one bulk read is outstanding. Starting a refresh cancels the
// one in flight, whose result is then discarded. A failed refresh keeps
// the previously loaded rows so the page can still be served.
package directory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/logging"
	"github.com/pricemap-tw/pricemap/pkg/reconciler"
)

// Source performs the bulk read.
type Source interface {
	ListLocations(ctx context.Context) ([]locations.Location, error)
}

// Snapshot is a loaded copy of the directory.
type Snapshot struct {
	Locations []locations.Location
	LoadedAt  time.Time
}

// Loaded reports whether the snapshot came from a successful read.
func (s Snapshot) Loaded() bool {
	return !s.LoadedAt.IsZero()
}

// Directory holds the latest snapshot and coordinates refreshes.
type Directory struct {
	source     Source
	reconciler reconciler.Reconciler
	timeout    time.Duration
	onRefresh  func(Snapshot)
	now        func() time.Time
	logger     *zerolog.Logger

	mu       sync.RWMutex
	snapshot Snapshot
	lastErr  error
	gen      uint64
	cancel   context.CancelFunc
}

// Option configures a Directory.
type Option func(*Directory)

// WithReconciler sets the reconciler used by View.
func WithReconciler(r reconciler.Reconciler) Option {
	return func(d *Directory) {
		if r != nil {
			d.reconciler = r
		}
	}
}

// WithTimeout bounds a single refresh. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Directory) {
		d.timeout = timeout
	}
}

// WithOnRefresh registers a callback run after each successful refresh.
func WithOnRefresh(fn func(Snapshot)) Option {
	return func(d *Directory) {
		d.onRefresh = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Directory reading from source.
func New(source Source, opts ...Option) *Directory {
	r, _ := reconciler.New()
	d := &Directory{
		source:     source,
		reconciler: r,
		timeout:    constants.RefreshTimeout,
		now:        time.Now,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Refresh performs a bulk read and installs the result. A refresh that is
// superseded by a later one returns an error matching errors.ErrCanceled
// and leaves the snapshot alone. On any failure the previous snapshot is
// kept.
func (d *Directory) Refresh(ctx context.Context) (Snapshot, error) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	if d.cancel != nil {
		d.cancel()
	}
	var (
		rctx   context.Context
		cancel context.CancelFunc
	)
	if d.timeout > 0 {
		rctx, cancel = context.WithTimeout(ctx, d.timeout)
	} else {
		rctx, cancel = context.WithCancel(ctx)
	}
	d.cancel = cancel
	d.mu.Unlock()

	start := d.now()
	rows, err := d.source.ListLocations(rctx)

	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		cancel()
		d.logger.Debug().Uint64("generation", gen).Msg("Superseded directory refresh discarded")
		return d.Snapshot(), errors.ErrCanceled
	}
	d.cancel = nil
	cancel()

	if err != nil {
		d.lastErr = err
		prev := d.snapshot
		d.mu.Unlock()
		d.logger.Warn().Err(err).
			Int("kept", len(prev.Locations)).
			Msg("Directory refresh failed, keeping previous rows")
		return copySnapshot(prev), err
	}

	d.snapshot = Snapshot{Locations: slices.Clone(rows), LoadedAt: d.now()}
	d.lastErr = nil
	snap := copySnapshot(d.snapshot)
	d.mu.Unlock()

	d.logger.Info().
		Int("locations", len(rows)).
		Dur("took", d.now().Sub(start)).
		Msg("Directory refreshed")

	if d.onRefresh != nil {
		d.onRefresh(snap)
	}
	return snap, nil
}

// Abandon cancels the refresh in flight, if any.
func (d *Directory) Abandon() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Snapshot returns a copy of the current rows.
func (d *Directory) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return copySnapshot(d.snapshot)
}

// LastError returns the error of the most recent completed refresh, or nil.
func (d *Directory) LastError() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastErr
}

// Ready reports whether at least one refresh has succeeded.
func (d *Directory) Ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot.Loaded()
}

// View reconciles the current rows for q.
func (d *Directory) View(q reconciler.Query) (reconciler.Result, error) {
	d.mu.RLock()
	snap := d.snapshot
	d.mu.RUnlock()
	if !snap.Loaded() {
		return reconciler.Result{}, errors.ErrNotLoaded
	}
	// Reconcile never mutates its input, so the shared slice is safe here.
	return d.reconciler.Reconcile(snap.Locations, q), nil
}

// Cities returns the city options of the current rows.
func (d *Directory) Cities() []string {
	d.mu.RLock()
	snap := d.snapshot
	d.mu.RUnlock()
	return d.reconciler.Cities(snap.Locations)
}

// Find returns the loaded row with id.
func (d *Directory) Find(id int64) (locations.Location, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := range d.snapshot.Locations {
		if d.snapshot.Locations[i].ID == id {
			return d.snapshot.Locations[i], true
		}
	}
	return locations.Location{}, false
}

// Run refreshes immediately and then every interval until ctx is done.
// Failures are logged and retried on the next tick.
func (d *Directory) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer d.Abandon()

	for {
		if _, err := d.Refresh(ctx); err != nil && !errors.IsCanceled(err) && ctx.Err() == nil {
			d.logger.Error().Err(err).Msg(errors.MsgLoadFailed)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func copySnapshot(s Snapshot) Snapshot {
	return Snapshot{Locations: slices.Clone(s.Locations), LoadedAt: s.LoadedAt}
}

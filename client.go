// Package pricemap provides the main entry point for the medication price
// directory. It wires a backend, the directory loader, the dataset
// reconciler and the report submitter behind one Client.
//
// The Client keeps the last successfully loaded directory in memory and
// answers listing queries from it. Detail views, report submissions and
// deletion requests go to the backend on every call.
//
// Example usage:
//
//	// Create a client against the hosted backend
//	pm, err := pricemap.New(
//	    pricemap.WithPostgREST("https://xyz.supabase.co", anonKey),
//	    pricemap.WithAutoRefresh(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pm.Close()
//
//	// Load the directory once before querying it
//	if _, err := pm.Refresh(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// List locations in 台北 by their lowest price
//	q := reconciler.DefaultQuery()
//	q.City = "台北"
//	res, err := pm.View(q)
//	for _, loc := range res.Locations {
//	    fmt.Println(loc.Name, loc.MinPrice())
//	}
//
//	// React to directory changes
//	pm.OnLocationAdded(func(loc locations.Location) {
//	    log.Printf("new location: %s", loc.Name)
//	})
package pricemap

import (
	"context"
	"sync"

	"github.com/pricemap-tw/pricemap/internal/backend"
	"github.com/pricemap-tw/pricemap/pkg/directory"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/reconciler"
	"github.com/pricemap-tw/pricemap/pkg/reports"
)

// Compile-time interface check to ensure proper implementation.
var _ Directory = (*client)(nil)

// Directory provides read access to the loaded price directory.
type Directory interface {
	// Refresh reloads the directory from the backend
	Refresh(ctx context.Context) (directory.Snapshot, error)

	// Snapshot returns a copy of the loaded rows
	Snapshot() directory.Snapshot

	// Ready reports whether the directory has been loaded at least once
	Ready() bool

	// View reconciles the loaded rows for a query
	View(q reconciler.Query) (reconciler.Result, error)

	// Cities returns the city options of the loaded rows
	Cities() []string
}

// Client manages the directory with automatic refreshes, event hooks and
// submission to the moderation queues.
type Client interface {

	// Directory provides copy-on-read access to the loaded rows
	Directory

	// Details fetches a single location with its notes and price trend
	Details

	// Submissions sends reports and deletion requests
	Submissions

	// Persistence exports the loaded rows as a fixture
	Persistence

	// AutoRefresher provides access to automatic refresh controls
	AutoRefresher

	// Hooks provides access to event callback registration
	Hooks

	// Close stops background work and releases the backend
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {

	// options are the configured options for the client
	options *options

	// backend owns every entity; dir holds the loaded copy
	backend   backend.Backend
	dir       *directory.Directory
	submitter *reports.Submitter

	// previous rows, used to diff refreshes for the hooks
	mu         sync.Mutex
	prev       []locations.Location
	prevLoaded bool

	// auto refresh state
	autoMu        sync.Mutex
	refreshCancel context.CancelFunc // cancels the refresh goroutine
	refreshDone   chan struct{}      // closed when the refresh goroutine exits
	hooks         *hooks             // event hooks for directory changes

	closeOnce sync.Once
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	b, err := o.openBackend(context.Background())
	if err != nil {
		return nil, err
	}

	rec, err := reconciler.New(o.reconcilerOptions...)
	if err != nil {
		_ = closeBackend(b)
		return nil, errors.NewConfigError("reconciler", "invalid reconciler options", err)
	}

	c := &client{
		options:   o,
		backend:   b,
		submitter: reports.NewSubmitter(b),
		hooks:     newHooks(),
	}
	c.dir = directory.New(b,
		directory.WithReconciler(rec),
		directory.WithTimeout(o.refreshTimeout),
		directory.WithLogger(o.logger),
		directory.WithOnRefresh(c.onRefresh),
	)

	o.logger.Debug().
		Str("backend", string(o.kind)).
		Bool("auto_refresh", o.autoRefreshEnabled).
		Dur("interval", o.autoRefreshInterval).
		Msg("Client created")

	if o.autoRefreshEnabled {
		if err := c.AutoRefreshOn(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	return c, nil
}

// Refresh reloads the directory from the backend.
func (c *client) Refresh(ctx context.Context) (directory.Snapshot, error) {
	return c.dir.Refresh(ctx)
}

// Snapshot returns a copy of the loaded rows.
func (c *client) Snapshot() directory.Snapshot {
	return c.dir.Snapshot()
}

// Ready reports whether the directory has been loaded.
func (c *client) Ready() bool {
	return c.dir.Ready()
}

// View reconciles the loaded rows for q.
func (c *client) View(q reconciler.Query) (reconciler.Result, error) {
	return c.dir.View(q)
}

// Cities returns the city options of the loaded rows.
func (c *client) Cities() []string {
	return c.dir.Cities()
}

// onRefresh diffs the new snapshot against the previous one and fires hooks.
func (c *client) onRefresh(snap directory.Snapshot) {
	c.mu.Lock()
	prev, loaded := c.prev, c.prevLoaded
	c.prev, c.prevLoaded = snap.Locations, true
	c.mu.Unlock()

	if loaded {
		c.hooks.triggerRefresh(prev, snap.Locations)
	}
	c.hooks.triggerRefreshed(snap)
}

// Close stops automatic refreshes and closes the backend if it holds resources.
func (c *client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.AutoRefreshOff()
		c.dir.Abandon()
		err = closeBackend(c.backend)
		c.options.logger.Debug().Msg("Client closed")
	})
	return err
}

// closeBackend releases backends that hold resources, such as a *sql.DB.
func closeBackend(b any) error {
	if closer, ok := b.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

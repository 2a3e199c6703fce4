package pricemap

import (
	"reflect"
	"sync"

	"github.com/pricemap-tw/pricemap/pkg/directory"
	"github.com/pricemap-tw/pricemap/pkg/locations"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hook function types for directory events
type (
	// LocationAddedHook is called when a refresh brings in a new location
	LocationAddedHook func(loc locations.Location)

	// LocationUpdatedHook is called when a location's row changed
	LocationUpdatedHook func(old, new locations.Location)

	// LocationRemovedHook is called when a location disappeared
	LocationRemovedHook func(loc locations.Location)

	// RefreshedHook is called after every successful refresh
	RefreshedHook func(snap directory.Snapshot)
)

// Hooks registers callbacks for directory changes.
type Hooks interface {
	OnLocationAdded(fn LocationAddedHook)
	OnLocationUpdated(fn LocationUpdatedHook)
	OnLocationRemoved(fn LocationRemovedHook)
	OnRefreshed(fn RefreshedHook)
}

// hooks manages event callbacks for directory changes
type hooks struct {
	mu                sync.RWMutex
	onLocationAdded   []LocationAddedHook
	onLocationUpdated []LocationUpdatedHook
	onLocationRemoved []LocationRemovedHook
	onRefreshed       []RefreshedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnLocationAdded registers a callback for added locations.
func (c *client) OnLocationAdded(fn LocationAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onLocationAdded = append(c.hooks.onLocationAdded, fn)
}

// OnLocationUpdated registers a callback for updated locations.
func (c *client) OnLocationUpdated(fn LocationUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onLocationUpdated = append(c.hooks.onLocationUpdated, fn)
}

// OnLocationRemoved registers a callback for removed locations.
func (c *client) OnLocationRemoved(fn LocationRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onLocationRemoved = append(c.hooks.onLocationRemoved, fn)
}

// OnRefreshed registers a callback run after every successful refresh.
func (c *client) OnRefreshed(fn RefreshedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onRefreshed = append(c.hooks.onRefreshed, fn)
}

// triggerRefreshed runs the refresh callbacks.
func (h *hooks) triggerRefreshed(snap directory.Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onRefreshed {
		hook(snap)
	}
}

// triggerRefresh compares two loads by Key and fires the matching hooks.
func (h *hooks) triggerRefresh(oldRows, newRows []locations.Location) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	oldByKey := make(map[string]locations.Location, len(oldRows))
	for _, loc := range oldRows {
		oldByKey[loc.Key()] = loc
	}
	newByKey := make(map[string]struct{}, len(newRows))

	for _, loc := range newRows {
		key := loc.Key()
		newByKey[key] = struct{}{}
		if old, ok := oldByKey[key]; ok {
			if !reflect.DeepEqual(old, loc) {
				for _, hook := range h.onLocationUpdated {
					hook(old, loc)
				}
			}
			continue
		}
		for _, hook := range h.onLocationAdded {
			hook(loc)
		}
	}

	for _, loc := range oldRows {
		if _, ok := newByKey[loc.Key()]; !ok {
			for _, hook := range h.onLocationRemoved {
				hook(loc)
			}
		}
	}
}

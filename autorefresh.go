package pricemap

import (
	"context"

	"github.com/pricemap-tw/pricemap/pkg/errors"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoRefresher = (*client)(nil)

// AutoRefresher provides controls for automatic directory refreshes.
type AutoRefresher interface {
	// AutoRefreshOn begins periodic refreshes
	AutoRefreshOn() error

	// AutoRefreshOff stops periodic refreshes
	AutoRefreshOff() error
}

// AutoRefreshOn begins periodic refreshes. The first refresh runs
// immediately.
func (c *client) AutoRefreshOn() error {
	if c.options.autoRefreshInterval <= 0 {
		return &errors.ValidationError{
			Field:   "autoRefreshInterval",
			Value:   c.options.autoRefreshInterval,
			Message: "refresh interval must be positive",
		}
	}

	// Stop any existing loop to prevent leaks
	if err := c.AutoRefreshOff(); err != nil {
		return err
	}

	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.refreshCancel = cancel
	c.refreshDone = done

	go func() {
		defer close(done)
		_ = c.dir.Run(ctx, c.options.autoRefreshInterval)
	}()

	return nil
}

// AutoRefreshOff stops periodic refreshes and waits for the loop to exit.
func (c *client) AutoRefreshOff() error {
	c.autoMu.Lock()
	cancel, done := c.refreshCancel, c.refreshDone
	c.refreshCancel, c.refreshDone = nil, nil
	c.autoMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return nil
}

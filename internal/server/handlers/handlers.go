// Package handlers provides HTTP request handlers for the pricemap API.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/pricemap-tw/pricemap"
	"github.com/pricemap-tw/pricemap/internal/server/cache"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	client    pricemap.Client
	cache     *cache.Cache
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance.
func New(
	client pricemap.Client,
	cache *cache.Cache,
	logger *zerolog.Logger,
	startTime time.Time,
) *Handlers {
	return &Handlers{
		client:    client,
		cache:     cache,
		logger:    logger,
		startTime: startTime,
	}
}

// Package constants provides shared constants used throughout the pricemap codebase.
// This includes timeouts, limits, backend table names, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the backend
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// RefreshTimeout bounds a single bulk directory read
	RefreshTimeout = 1 * time.Minute

	// DefaultRefreshInterval is how often the server reloads the directory
	DefaultRefreshInterval = 15 * time.Minute

	// ShutdownTimeout is how long the server waits for in-flight requests on shutdown
	ShutdownTimeout = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// PriceHistoryLimit caps the price-history rows shown for one location
	PriceHistoryLimit = 10

	// MinTrendPoints is the number of valid points needed to draw a trend
	MinTrendPoints = 2

	// DefaultPageSize is the default number of items per page for paginated results
	DefaultPageSize = 100

	// MaxPageSize is the maximum allowed page size for paginated results
	MaxPageSize = 1000

	// MaxRequestBodyBytes caps submitted report bodies
	MaxRequestBodyBytes = 64 * 1024
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached API responses
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute
)

// Backend tables exposed through PostgREST.
const (
	TableLocations        = "mounjaro_data"
	TableReports          = "mounjaro_reports"
	TableDeletionQueue    = "mounjaro_data_deletion_queue"
	TableNotes            = "mounjaro_notes"
	TablePriceHistory     = "clinic_drug_prices"
	DeletionQueueUniqueIx = "mounjaro_data_deletion_queue_unique"

	// RESTPath is the PostgREST mount point under the backend URL
	RESTPath = "/rest/v1"

	// UniqueViolation is the Postgres SQLSTATE for unique_violation
	UniqueViolation = "23505"

	// StatusPending is the moderation status of new reports and deletion requests
	StatusPending = "pending"
)

// Format constants
const (
	// DateFormat is the layout of last_updated columns
	DateFormat = "2006-01-02"
)

// Default values
const (
	// DefaultBackendURL is the hosted PostgREST backend
	DefaultBackendURL = "https://example.supabase.co"

	// DefaultListenPort is the HTTP API port
	DefaultListenPort = 8080

	// DefaultPathPrefix is the HTTP API prefix
	DefaultPathPrefix = "/api/v1"

	// ServiceName identifies the service in logs and health output
	ServiceName = "pricemap-api"
)

package reconciler

import "github.com/pricemap-tw/pricemap/pkg/locations"

// Result is the reconciled view of the directory.
type Result struct {
	Query         Query                `json:"query" yaml:"query"`
	Locations     []locations.Location `json:"locations" yaml:"locations"`
	DistinctCount int                  `json:"distinct_count" yaml:"distinct_count"` // locations in the selected city, deduplicated
	Total         int                  `json:"total" yaml:"total"`                   // rows before filtering
}

// Len returns the number of locations shown.
func (r *Result) Len() int {
	return len(r.Locations)
}

// Page returns at most limit locations starting at offset. A non-positive
// limit means no limit.
func (r *Result) Page(offset, limit int) []locations.Location {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(r.Locations) {
		return []locations.Location{}
	}
	end := len(r.Locations)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return r.Locations[offset:end]
}

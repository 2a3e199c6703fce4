// Package reconciler turns the raw directory rows and the visitor's view
// state into the list actually shown: filter by city, category and
// keyword, order by a price key, and count the distinct locations in the
// selected city.
//
// Ordering rules are fixed: rows with a defined sort value precede rows
// without one in either direction, and equal values fall back to the
// location name under Traditional Chinese collation.
package reconciler

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pricemap-tw/pricemap/pkg/locations"
)

// Reconciler produces directory views. Implementations are safe for
// concurrent use and never modify their input.
type Reconciler interface {
	// Reconcile filters, sorts and counts records for q.
	Reconcile(records []locations.Location, q Query) Result

	// DistinctCount counts records in city, deduplicated by id or by the
	// normalized (city, category, name) tuple.
	DistinctCount(records []locations.Location, city string) int

	// Cities returns the distinct cities in selector order.
	Cities(records []locations.Location) []string
}

type reconciler struct {
	locale        language.Tag
	searchAddress bool
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		locale:        options.locale,
		searchAddress: options.searchAddress,
	}, nil
}

var defaultReconciler = newDefault()

func newDefault() *reconciler {
	o := defaultOptions()
	return &reconciler{locale: o.locale, searchAddress: o.searchAddress}
}

// Reconcile runs the default reconciler.
func Reconcile(records []locations.Location, q Query) Result {
	return defaultReconciler.Reconcile(records, q)
}

// DistinctCount runs the default reconciler.
func DistinctCount(records []locations.Location, city string) int {
	return defaultReconciler.DistinctCount(records, city)
}

// Cities runs the default reconciler.
func Cities(records []locations.Location) []string {
	return defaultReconciler.Cities(records)
}

// collator returns a fresh collator; collate.Collator is not safe for
// concurrent use.
func (r *reconciler) collator() *collate.Collator {
	return collate.New(r.locale)
}

func (r *reconciler) Reconcile(records []locations.Location, q Query) Result {
	q = q.Normalized()
	f := newFilter(q, r.searchAddress)

	out := make([]locations.Location, 0, len(records))
	for i := range records {
		if f.matches(&records[i]) {
			out = append(out, records[i])
		}
	}
	sortLocations(out, q.SortKey, q.Direction, r.collator())

	return Result{
		Query:         q,
		Locations:     out,
		DistinctCount: r.DistinctCount(records, q.City),
		Total:         len(records),
	}
}

func (r *reconciler) DistinctCount(records []locations.Location, city string) int {
	f := newFilter(Query{City: city}.Normalized(), false)
	seen := make(map[string]struct{})
	for i := range records {
		if !f.matchesCity(&records[i]) {
			continue
		}
		seen[records[i].Key()] = struct{}{}
	}
	return len(seen)
}

func (r *reconciler) Cities(records []locations.Location) []string {
	cities := distinctCities(records)
	sortCities(cities, r.collator())
	return cities
}

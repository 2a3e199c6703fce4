package reconciler

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/pricemap-tw/pricemap/pkg/locations"
)

// filter holds the per-call matching state. cases.Caser is stateful, so a
// filter must not be shared between goroutines.
type filter struct {
	query         Query
	fold          cases.Caser
	keyword       string
	searchAddress bool
}

func newFilter(q Query, searchAddress bool) *filter {
	f := &filter{
		query:         q,
		fold:          cases.Fold(),
		searchAddress: searchAddress,
	}
	if q.Keyword != "" {
		f.keyword = f.fold.String(q.Keyword)
	}
	return f
}

func (f *filter) matchesCity(loc *locations.Location) bool {
	return f.query.City == All || strings.TrimSpace(loc.City) == f.query.City
}

func (f *filter) matchesCategory(loc *locations.Location) bool {
	return f.query.Category == All || string(loc.Category.Normalized()) == f.query.Category
}

func (f *filter) matchesKeyword(loc *locations.Location) bool {
	if f.keyword == "" {
		return true
	}
	fields := []string{loc.District, loc.Name}
	if f.searchAddress {
		fields = append(fields, loc.Address)
	}
	// Newline-joined so a match cannot straddle two fields.
	return strings.Contains(f.fold.String(strings.Join(fields, "\n")), f.keyword)
}

func (f *filter) matches(loc *locations.Location) bool {
	return f.matchesCity(loc) && f.matchesCategory(loc) && f.matchesKeyword(loc)
}

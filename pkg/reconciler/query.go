package reconciler

import (
	"strings"

	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
)

// All is the sentinel filter value that matches every city or category.
const All = "all"

// SortKey selects the value a location is ordered by.
type SortKey string

// Sort keys.
const (
	SortMin       SortKey = "min"       // lowest offered price across all doses
	SortPrice5mg  SortKey = "price5mg"  // 5 mg price
	SortPrice10mg SortKey = "price10mg" // 10 mg price
)

// Direction is the sort direction.
type Direction string

// Directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Query is the serializable view state of the directory page.
type Query struct {
	City      string    `json:"city" yaml:"city"`         // exact city or All
	Category  string    `json:"category" yaml:"category"` // category or All
	Keyword   string    `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	SortKey   SortKey   `json:"sort" yaml:"sort"`
	Direction Direction `json:"order" yaml:"order"`
}

// DefaultQuery shows everything, cheapest first.
func DefaultQuery() Query {
	return Query{City: All, Category: All, SortKey: SortMin, Direction: Asc}
}

// Normalized fills blanks with defaults and canonicalizes the filters.
func (q Query) Normalized() Query {
	q.City = strings.TrimSpace(q.City)
	if q.City == "" || strings.EqualFold(q.City, All) {
		q.City = All
	}
	q.Category = strings.TrimSpace(q.Category)
	if q.Category == "" || strings.EqualFold(q.Category, All) {
		q.Category = All
	} else {
		q.Category = string(locations.NormalizeCategory(q.Category))
	}
	q.Keyword = strings.TrimSpace(q.Keyword)
	if q.SortKey == "" {
		q.SortKey = SortMin
	}
	if q.Direction == "" {
		q.Direction = Asc
	}
	return q
}

// AllCities reports whether the city filter is the All sentinel.
func (q Query) AllCities() bool {
	return q.Normalized().City == All
}

// ParseSortKey parses "min", "price5mg" or "price10mg". Blank means min.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortMin:
		return SortMin, nil
	case SortPrice5mg:
		return SortPrice5mg, nil
	case SortPrice10mg:
		return SortPrice10mg, nil
	}
	return "", errors.NewValidationError("sort", s, errors.MsgInvalidParameter)
}

// ParseDirection parses "asc" or "desc". Blank means asc.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", errors.NewValidationError("order", s, errors.MsgInvalidParameter)
}

// ParseCategory parses a category filter. Blank and "all" mean All;
// otherwise the value must be one of the known categories.
func ParseCategory(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" || strings.EqualFold(t, All) {
		return All, nil
	}
	c := locations.NormalizeCategory(t)
	if !c.Known() {
		return "", errors.NewValidationError("category", s, errors.MsgInvalidParameter)
	}
	return string(c), nil
}

// Package locations defines the rows of the medication price directory and
// the drafts visitors send back: reports, deletion requests, notes and
// price-history points. Every entity is owned by the backend; values here
// are request-scoped copies.
package locations

import (
	"strconv"
	"strings"
	"time"
)

// Location is one place selling the product.
type Location struct {
	ID          int64    `json:"id,omitempty" yaml:"id,omitempty"`                     // Backend row id; zero when absent
	City        string   `json:"city" yaml:"city"`                                     // City key, e.g. 台北
	District    string   `json:"district" yaml:"district"`                             // District within the city
	Name        string   `json:"clinic" yaml:"clinic"`                                 // Display name
	Category    Category `json:"type" yaml:"type"`                                     // clinic, hospital, pharmacy, medical_aesthetic
	Address     string   `json:"address" yaml:"address"`                               // Street address
	Price2_5mg  Price    `json:"price2_5mg" yaml:"price2_5mg"`                         // NT$ for 2.5 mg
	Price5mg    Price    `json:"price5mg" yaml:"price5mg"`                             // NT$ for 5 mg
	Price7_5mg  Price    `json:"price7_5mg" yaml:"price7_5mg"`                         // NT$ for 7.5 mg
	Price10mg   Price    `json:"price10mg" yaml:"price10mg"`                           // NT$ for 10 mg
	Price12_5mg Price    `json:"price12_5mg" yaml:"price12_5mg"`                       // NT$ for 12.5 mg
	Price15mg   Price    `json:"price15mg" yaml:"price15mg"`                           // NT$ for 15 mg
	Note        string   `json:"note,omitempty" yaml:"note,omitempty"`                 // Free-text note
	LastUpdated string   `json:"last_updated,omitempty" yaml:"last_updated,omitempty"` // YYYY-MM-DD
	IsCosmetic  bool     `json:"is_cosmetic,omitempty" yaml:"is_cosmetic,omitempty"`
}

// HasID reports whether the row carries a backend identifier.
func (l *Location) HasID() bool {
	return l.ID != 0
}

// IDString returns the id as decimal text, or "" when absent.
func (l *Location) IDString() string {
	if !l.HasID() {
		return ""
	}
	return strconv.FormatInt(l.ID, 10)
}

// Price returns the price for dose d.
func (l *Location) Price(d Dose) Price {
	switch d {
	case Dose2_5:
		return l.Price2_5mg
	case Dose5:
		return l.Price5mg
	case Dose7_5:
		return l.Price7_5mg
	case Dose10:
		return l.Price10mg
	case Dose12_5:
		return l.Price12_5mg
	case Dose15:
		return l.Price15mg
	}
	return 0
}

// SetPrice sets the price for dose d. Unknown doses are ignored.
func (l *Location) SetPrice(d Dose, p Price) {
	switch d {
	case Dose2_5:
		l.Price2_5mg = p
	case Dose5:
		l.Price5mg = p
	case Dose7_5:
		l.Price7_5mg = p
	case Dose10:
		l.Price10mg = p
	case Dose12_5:
		l.Price12_5mg = p
	case Dose15:
		l.Price15mg = p
	}
}

// MinPrice returns the lowest offered price across all doses.
func (l *Location) MinPrice() (float64, bool) {
	var (
		lowest float64
		found  bool
	)
	for _, d := range Doses {
		v, ok := l.Price(d).Amount()
		if !ok {
			continue
		}
		if !found || v < lowest {
			lowest, found = v, true
		}
	}
	return lowest, found
}

// OffersAny reports whether at least one dose is offered.
func (l *Location) OffersAny() bool {
	_, ok := l.MinPrice()
	return ok
}

// Key identifies the location for de-duplication: the id when present,
// otherwise the (city, category, name) tuple with case and whitespace
// normalized.
func (l *Location) Key() string {
	if l.HasID() {
		return "id:" + l.IDString()
	}
	return "key:" + squash(l.City) + "|" +
		string(l.Category.Normalized()) + "|" +
		squash(l.Name)
}

func squash(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Updated parses LastUpdated. Timestamps with a time part are accepted too.
func (l *Location) Updated() (time.Time, bool) {
	s := strings.TrimSpace(l.LastUpdated)
	if s == "" {
		return time.Time{}, false
	}
	if len(s) > 10 {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, true
		}
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

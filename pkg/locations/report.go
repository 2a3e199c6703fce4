package locations

import (
	"strings"
	"time"
)

// Moderation statuses.
const (
	StatusPending = "pending"
)

// Report is a visitor-submitted correction held pending until a moderator
// applies it. District, Address and Note are pointers so that blank values
// go over the wire as null or, for Note, are left out entirely.
type Report struct {
	ID          int64      `json:"id,omitempty" yaml:"id,omitempty"`
	LocationID  int64      `json:"mounjaro_data_id" yaml:"mounjaro_data_id"`
	City        string     `json:"city" yaml:"city"`
	District    *string    `json:"district" yaml:"district"`
	Name        string     `json:"clinic" yaml:"clinic"`
	Address     *string    `json:"address" yaml:"address"`
	Category    Category   `json:"type" yaml:"type"`
	IsCosmetic  bool       `json:"is_cosmetic" yaml:"is_cosmetic"`
	Price2_5mg  Price      `json:"price2_5mg" yaml:"price2_5mg"`
	Price5mg    Price      `json:"price5mg" yaml:"price5mg"`
	Price7_5mg  Price      `json:"price7_5mg" yaml:"price7_5mg"`
	Price10mg   Price      `json:"price10mg" yaml:"price10mg"`
	Price12_5mg Price      `json:"price12_5mg" yaml:"price12_5mg"`
	Price15mg   Price      `json:"price15mg" yaml:"price15mg"`
	Note        *string    `json:"note,omitempty" yaml:"note,omitempty"`
	Status      string     `json:"status,omitempty" yaml:"status,omitempty"`
	LastUpdated string     `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
	CreatedAt   *Timestamp `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Prices returns the report's prices keyed by dose.
func (r *Report) Prices() map[Dose]Price {
	return map[Dose]Price{
		Dose2_5:  r.Price2_5mg,
		Dose5:    r.Price5mg,
		Dose7_5:  r.Price7_5mg,
		Dose10:   r.Price10mg,
		Dose12_5: r.Price12_5mg,
		Dose15:   r.Price15mg,
	}
}

// SetPrice sets the price for dose d. Unknown doses are ignored.
func (r *Report) SetPrice(d Dose, p Price) {
	switch d {
	case Dose2_5:
		r.Price2_5mg = p
	case Dose5:
		r.Price5mg = p
	case Dose7_5:
		r.Price7_5mg = p
	case Dose10:
		r.Price10mg = p
	case Dose12_5:
		r.Price12_5mg = p
	case Dose15:
		r.Price15mg = p
	}
}

// NoteText returns the note or "".
func (r *Report) NoteText() string {
	if r.Note == nil {
		return ""
	}
	return *r.Note
}

// DeletionRequest flags a location for removal. At most one pending
// request may exist per location.
type DeletionRequest struct {
	ID         int64      `json:"id,omitempty" yaml:"id,omitempty"`
	LocationID int64      `json:"mounjaro_data_id" yaml:"mounjaro_data_id"`
	Reason     string     `json:"reason" yaml:"reason"`
	Snapshot   Location   `json:"snapshot" yaml:"snapshot"` // The row as the visitor saw it
	Status     string     `json:"status,omitempty" yaml:"status,omitempty"`
	CreatedAt  *Timestamp `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Note is a community note attached to a location.
type Note struct {
	ID         int64     `json:"id" yaml:"id"`
	LocationID int64     `json:"mounjaro_data_id,omitempty" yaml:"mounjaro_data_id,omitempty"`
	Text       string    `json:"note" yaml:"note"`
	CreatedAt  Timestamp `json:"created_at" yaml:"created_at"`
}

// PricePoint is one row of a location's price history.
// CreatedAt is kept as text since rows with a malformed timestamp are
// skipped rather than rejected.
type PricePoint struct {
	Price5mg  Price  `json:"price5mg" yaml:"price5mg"`
	Price10mg Price  `json:"price10mg" yaml:"price10mg"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

// Time parses CreatedAt.
func (p *PricePoint) Time() (time.Time, bool) {
	return ParseTimestamp(p.CreatedAt)
}

// Price returns the price for dose d. Only 5 mg and 10 mg are tracked.
func (p *PricePoint) Price(d Dose) Price {
	switch d {
	case Dose5:
		return p.Price5mg
	case Dose10:
		return p.Price10mg
	}
	return 0
}

// StringPtr returns nil for blank s, otherwise a pointer to the trimmed text.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

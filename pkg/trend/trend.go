// Package trend builds the per-dose price series shown on a location's
// detail view.
package trend

import (
	"slices"
	"time"

	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/locations"
)

// Point is one evenly spaced point of a series.
type Point struct {
	Label string    `json:"label" yaml:"label"` // YYYY/MM/DD
	At    time.Time `json:"at" yaml:"at"`
	Price float64   `json:"price" yaml:"price"`
}

// Series is the price history of one dose, oldest first.
type Series struct {
	Dose   locations.Dose `json:"dose" yaml:"dose"`
	Points []Point        `json:"points" yaml:"points"`
}

// HasTrend reports whether the series has enough points to draw.
func (s Series) HasTrend() bool {
	return len(s.Points) >= constants.MinTrendPoints
}

// Latest returns the most recent point.
func (s Series) Latest() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Change returns latest minus earliest, and false without a trend.
func (s Series) Change() (float64, bool) {
	if !s.HasTrend() {
		return 0, false
	}
	return s.Points[len(s.Points)-1].Price - s.Points[0].Price, true
}

// Build keeps the history rows with a parseable timestamp and an offered
// price for dose, ordered oldest first.
func Build(history []locations.PricePoint, dose locations.Dose) Series {
	points := make([]Point, 0, len(history))
	for i := range history {
		at, ok := history[i].Time()
		if !ok {
			continue
		}
		price, ok := history[i].Price(dose).Amount()
		if !ok {
			continue
		}
		points = append(points, Point{
			Label: at.Format("2006/01/02"),
			At:    at,
			Price: price,
		})
	}

	slices.SortStableFunc(points, func(a, b Point) int {
		return a.At.Compare(b.At)
	})

	return Series{Dose: dose, Points: points}
}

// Detail builds the 5 mg and 10 mg series of the detail view.
func Detail(history []locations.PricePoint) []Series {
	return []Series{
		Build(history, locations.Dose5),
		Build(history, locations.Dose10),
	}
}

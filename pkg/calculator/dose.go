// Package calculator holds the unit calculators of the site: pen clicks
// per dose, doses per pen, and BMR/BMI.
package calculator

import (
	"math"

	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
)

const (
	// ClicksPerDose is the dial count of one full labelled dose.
	ClicksPerDose = 60
	// DosesPerPen is the number of labelled doses in a pen.
	DosesPerPen = 4
	// residualDoses assumes the residual left after the labelled doses
	// holds about one more full dose. It is an estimate.
	residualDoses = 1
)

// DoseResult is the outcome of the dose calculator.
type DoseResult struct {
	Pen  locations.Dose `json:"pen_mg" yaml:"pen_mg"`
	Dose float64        `json:"dose_mg" yaml:"dose_mg"`

	// Clicks is the dial count for Dose on a Pen pen.
	Clicks float64 `json:"clicks" yaml:"clicks"`
	// FractionalClicks is the fractional part of Clicks rounded to two
	// decimals, or zero when Clicks is a whole number.
	FractionalClicks float64 `json:"fractional_clicks,omitempty" yaml:"fractional_clicks,omitempty"`

	// Uses is how many doses a new pen gives, excluding residual.
	Uses float64 `json:"uses" yaml:"uses"`
	// UsesWithResidual assumes the residual is about one full dose.
	UsesWithResidual float64 `json:"uses_with_residual" yaml:"uses_with_residual"`
}

// Fractional reports whether the click count cannot be dialled exactly.
func (r DoseResult) Fractional() bool {
	return r.FractionalClicks > 0
}

// Dose computes clicks and uses for a dose on a pen of the given strength.
func Dose(pen locations.Dose, doseMg float64) (DoseResult, error) {
	if !pen.Valid() {
		return DoseResult{}, errors.NewValidationError("pen", pen, errors.MsgInvalidParameter)
	}
	if math.IsNaN(doseMg) || math.IsInf(doseMg, 0) || doseMg <= 0 {
		return DoseResult{}, errors.NewValidationError("dose", doseMg, errors.MsgInvalidParameter)
	}

	p := float64(pen)
	clicks := doseMg * ClicksPerDose / p
	return DoseResult{
		Pen:              pen,
		Dose:             doseMg,
		Clicks:           clicks,
		FractionalClicks: fraction(clicks),
		Uses:             p * DosesPerPen / doseMg,
		UsesWithResidual: p * (DosesPerPen + residualDoses) / doseMg,
	}, nil
}

func fraction(v float64) float64 {
	f := Round(v-math.Floor(v), 2)
	if f <= 0 || f >= 1 {
		return 0
	}
	return f
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

package calculator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricemap-tw/pricemap/pkg/calculator"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
)

func TestDose(t *testing.T) {
	tests := []struct {
		name       string
		pen        locations.Dose
		dose       float64
		clicks     float64
		fractional float64
		uses       float64
		residual   float64
	}{
		{"full dose", locations.Dose10, 10, 60, 0, 4, 5},
		{"half dose", locations.Dose10, 5, 30, 0, 8, 10},
		{"small dose", locations.Dose15, 2.5, 10, 0, 24, 30},
		{"third", locations.Dose7_5, 2, 16, 0, 15, 18.75},
		{"non integer", locations.Dose12_5, 3, 14.4, 0.4, 16.666666666666668, 20.833333333333332},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calculator.Dose(tt.pen, tt.dose)
			require.NoError(t, err)
			assert.InDelta(t, tt.clicks, got.Clicks, 1e-9)
			assert.InDelta(t, tt.fractional, got.FractionalClicks, 1e-9)
			assert.Equal(t, tt.fractional > 0, got.Fractional())
			assert.InDelta(t, tt.uses, got.Uses, 1e-9)
			assert.InDelta(t, tt.residual, got.UsesWithResidual, 1e-9)
		})
	}
}

func TestDoseRejectsInvalidInput(t *testing.T) {
	_, err := calculator.Dose(3, 5)
	assert.True(t, errors.IsValidationError(err))

	for _, dose := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := calculator.Dose(locations.Dose5, dose)
		assert.True(t, errors.IsValidationError(err))
	}
}

func TestBMR(t *testing.T) {
	got, err := calculator.BMR(calculator.Male, 30, 175, 70)
	require.NoError(t, err)
	// 700 + 1093.75 - 150 + 5
	assert.Equal(t, 1649, got.BMR)
	assert.Equal(t, 22.9, got.BMI)

	got, err = calculator.BMR(calculator.Female, 40, 160, 60)
	require.NoError(t, err)
	// 600 + 1000 - 200 - 161
	assert.Equal(t, 1239, got.BMR)
	assert.Equal(t, 23.4, got.BMI)
}

func TestBMRRejectsInvalidInput(t *testing.T) {
	_, err := calculator.BMR("other", 30, 170, 60)
	assert.Error(t, err)
	_, err = calculator.BMR(calculator.Male, 30, 0, 60)
	assert.True(t, errors.IsValidationError(err))
}

func TestParseSex(t *testing.T) {
	s, err := calculator.ParseSex("女")
	require.NoError(t, err)
	assert.Equal(t, calculator.Female, s)
	s, err = calculator.ParseSex("M")
	require.NoError(t, err)
	assert.Equal(t, calculator.Male, s)
	_, err = calculator.ParseSex("x")
	assert.Error(t, err)
}

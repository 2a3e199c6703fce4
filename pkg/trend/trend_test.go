package trend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/trend"
)

func TestBuild(t *testing.T) {
	history := []locations.PricePoint{
		{Price5mg: 4200, Price10mg: 0, CreatedAt: "2025-03-01T10:00:00Z"},
		{Price5mg: 4000, Price10mg: 7000, CreatedAt: "2025-01-01T10:00:00Z"},
		{Price5mg: 3900, CreatedAt: "not a time"},
		{Price5mg: 0, CreatedAt: "2025-02-01T10:00:00Z"},
	}

	s := trend.Build(history, locations.Dose5)
	require.Len(t, s.Points, 2)
	assert.Equal(t, 4000.0, s.Points[0].Price)
	assert.Equal(t, "2025/01/01", s.Points[0].Label)
	assert.Equal(t, 4200.0, s.Points[1].Price)
	assert.True(t, s.HasTrend())

	change, ok := s.Change()
	require.True(t, ok)
	assert.Equal(t, 200.0, change)

	latest, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, 4200.0, latest.Price)
}

func TestSinglePointHasNoTrend(t *testing.T) {
	history := []locations.PricePoint{
		{Price10mg: 7000, CreatedAt: "2025-01-01T10:00:00Z"},
	}
	s := trend.Build(history, locations.Dose10)
	assert.Len(t, s.Points, 1)
	assert.False(t, s.HasTrend())
	_, ok := s.Change()
	assert.False(t, ok)
}

func TestDetail(t *testing.T) {
	series := trend.Detail(nil)
	require.Len(t, series, 2)
	assert.Equal(t, locations.Dose5, series[0].Dose)
	assert.Equal(t, locations.Dose10, series[1].Dose)
	assert.Empty(t, series[0].Points)
	_, ok := series[1].Latest()
	assert.False(t, ok)
}

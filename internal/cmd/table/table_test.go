package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricemap-tw/pricemap"
	"github.com/pricemap-tw/pricemap/pkg/calculator"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/reconciler"
	"github.com/pricemap-tw/pricemap/pkg/trend"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "NT$4,000", FormatPrice(4000))
	assert.Equal(t, "NT$12,500.5", FormatPrice(12500.5))
	assert.Equal(t, "-", FormatPrice(0))
}

func TestLocationsToTableData(t *testing.T) {
	data := LocationsToTableData([]locations.Location{
		{ID: 3, City: "高雄", Name: "B", Category: locations.CategoryPharmacy, Price10mg: 800},
	})

	require.Len(t, data.Rows, 1)
	assert.Len(t, data.Headers, 5+len(locations.Doses)+1)
	assert.Len(t, data.ColumnAlignment, len(data.Headers))

	row := data.Rows[0]
	assert.Equal(t, "3", row[0])
	assert.Equal(t, "-", row[2], "blank district")
	assert.Equal(t, "-", row[5], "2.5mg not offered")
	assert.Equal(t, "NT$800", row[5+3])
	assert.Equal(t, "-", row[len(row)-1])
}

func TestResultSummary(t *testing.T) {
	res := reconciler.Result{
		Query:         reconciler.Query{City: reconciler.All},
		Locations:     make([]locations.Location, 3),
		DistinctCount: 2,
	}
	assert.Equal(t, "全國: 2 間 (3 筆)", ResultSummary(res))
}

func TestDetailToTableData(t *testing.T) {
	d := &pricemap.Detail{
		Location: locations.Location{ID: 1, Name: "A", Price5mg: 4000},
		Notes:    []locations.Note{{Text: "需預約"}},
		Trends: []trend.Series{
			{Dose: locations.Dose5, Points: []trend.Point{{Price: 4200}, {Price: 4000}}},
			{Dose: locations.Dose10},
		},
	}
	data := DetailToTableData(d)

	values := map[string]string{}
	for _, r := range data.Rows {
		values[r[0]] = r[1]
	}
	assert.Equal(t, "需預約", values["Note"])
	assert.Equal(t, "NT$4,000 (-200, 2 points)", values["Trend 5mg"])
	assert.Equal(t, "-", values["Trend 10mg"])
}

func TestDoseToTableData(t *testing.T) {
	tests := []struct {
		pen  locations.Dose
		dose float64
		want string
	}{
		{locations.Dose5, 2.5, "30"},
		{locations.Dose12_5, 5, "24"},
		{locations.Dose12_5, 2, "9.60"},
	}
	for _, tt := range tests {
		r, err := calculator.Dose(tt.pen, tt.dose)
		require.NoError(t, err)
		assert.Equal(t, tt.want, DoseToTableData(r).Rows[0][2], "pen %v dose %v", tt.pen, tt.dose)
	}
}

func TestBMRToTableData(t *testing.T) {
	data := BMRToTableData(calculator.BMRResult{BMR: 1649, BMI: 22.9})
	assert.Equal(t, []string{"1,649", "22.9"}, data.Rows[0])
}

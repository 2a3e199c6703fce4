// Package table converts directory data into rows for CLI tables.
package table

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pricemap-tw/pricemap"
	"github.com/pricemap-tw/pricemap/pkg/calculator"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/reconciler"
	"github.com/pricemap-tw/pricemap/pkg/reports"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data is a rendered table.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

var printer = message.NewPrinter(language.TraditionalChinese)

// FormatPrice renders a price as "NT$4,000", or "-" when not offered.
func FormatPrice(p locations.Price) string {
	v, ok := p.Amount()
	if !ok {
		return "-"
	}
	if v == float64(int64(v)) {
		return printer.Sprintf("NT$%d", int64(v))
	}
	return printer.Sprintf("NT$%.1f", v)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// LocationsToTableData renders one page of the directory, one row per
// location with every dose column.
func LocationsToTableData(locs []locations.Location) Data {
	headers := []string{"ID", "City", "District", "Name", "Type"}
	align := []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignLeft}
	for _, d := range locations.Doses {
		headers = append(headers, d.Label())
		align = append(align, AlignRight)
	}
	headers = append(headers, "Updated")
	align = append(align, AlignLeft)

	rows := make([][]string, 0, len(locs))
	for _, l := range locs {
		row := []string{
			strconv.FormatInt(l.ID, 10),
			orDash(l.City),
			orDash(l.District),
			orDash(l.Name),
			l.Category.Label(),
		}
		for _, d := range locations.Doses {
			row = append(row, FormatPrice(l.Price(d)))
		}
		row = append(row, orDash(l.LastUpdated))
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// ResultSummary is the banner line above a listing, e.g. "天龍國: 12 間".
func ResultSummary(res reconciler.Result) string {
	return printer.Sprintf("%s: %d 間 (%d 筆)", reconciler.CityAlias(res.Query.City), res.DistinctCount, res.Len())
}

// CitiesToTableData renders the city selector options.
func CitiesToTableData(cities []string) Data {
	rows := make([][]string, 0, len(cities))
	for _, c := range cities {
		rows = append(rows, []string{c, reconciler.CityAlias(c)})
	}
	return Data{Headers: []string{"City", "Alias"}, Rows: rows}
}

// DetailToTableData renders a location as property/value rows followed by
// its notes and trend summaries.
func DetailToTableData(d *pricemap.Detail) Data {
	l := d.Location
	rows := [][]string{
		{"ID", strconv.FormatInt(l.ID, 10)},
		{"Name", orDash(l.Name)},
		{"Type", l.Category.Label()},
		{"City", orDash(l.City)},
		{"District", orDash(l.District)},
		{"Address", orDash(l.Address)},
		{"Updated", orDash(l.LastUpdated)},
	}
	for _, dose := range locations.Doses {
		rows = append(rows, []string{dose.Label(), FormatPrice(l.Price(dose))})
	}
	for _, n := range d.Notes {
		rows = append(rows, []string{"Note", n.Text})
	}
	for _, s := range d.Trends {
		label := "Trend " + s.Dose.Label()
		change, ok := s.Change()
		if !ok {
			rows = append(rows, []string{label, "-"})
			continue
		}
		latest, _ := s.Latest()
		rows = append(rows, []string{label, printer.Sprintf("%s (%+.0f, %d points)",
			FormatPrice(locations.Price(latest.Price)), change, len(s.Points))})
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// OutcomeToTableData renders a stored report.
func OutcomeToTableData(o *reports.Outcome) Data {
	status := "created"
	if o.Amended {
		status = "amended"
	}
	rows := [][]string{
		{"Status", status},
		{"Report", strconv.FormatInt(o.Report.ID, 10)},
		{"Location", strconv.FormatInt(o.Report.LocationID, 10)},
		{"Name", o.Report.Name},
		{"Identity changed", strconv.FormatBool(o.IdentityChanged)},
	}
	prices := o.Report.Prices()
	for _, dose := range locations.Doses {
		if p := prices[dose]; p.Offered() {
			rows = append(rows, []string{dose.Label(), FormatPrice(p)})
		}
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// DeletionToTableData renders a queued deletion request.
func DeletionToTableData(req *locations.DeletionRequest) Data {
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Status", "queued"},
			{"Location", strconv.FormatInt(req.LocationID, 10)},
			{"Reason", req.Reason},
		},
	}
}

// DoseToTableData renders the pen calculator result.
func DoseToTableData(r calculator.DoseResult) Data {
	clicks := printer.Sprintf("%.0f", r.Clicks)
	if r.Fractional() {
		clicks = printer.Sprintf("%.2f", r.Clicks)
	}
	return Data{
		Headers: []string{"Pen", "Dose", "Clicks", "Uses", "Uses (with residual)"},
		Rows: [][]string{{
			r.Pen.Label(),
			strconv.FormatFloat(r.Dose, 'f', -1, 64) + "mg",
			clicks,
			printer.Sprintf("%.2f", r.Uses),
			printer.Sprintf("%.2f", r.UsesWithResidual),
		}},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight},
	}
}

// BMRToTableData renders the metabolic calculator result.
func BMRToTableData(r calculator.BMRResult) Data {
	return Data{
		Headers: []string{"BMR (kcal/day)", "BMI"},
		Rows:    [][]string{{printer.Sprintf("%d", r.BMR), printer.Sprintf("%.1f", r.BMI)}},
	}
}

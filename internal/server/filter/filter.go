// Package filter provides query parameter parsing for API endpoints.
package filter

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/pricemap-tw/pricemap/pkg/calculator"
	"github.com/pricemap-tw/pricemap/pkg/constants"
	"github.com/pricemap-tw/pricemap/pkg/errors"
	"github.com/pricemap-tw/pricemap/pkg/locations"
	"github.com/pricemap-tw/pricemap/pkg/reconciler"
)

// Page is a pagination window.
type Page struct {
	Limit  int
	Offset int
}

// LocationFilter contains the listing parameters.
type LocationFilter struct {
	Query reconciler.Query
	Page  Page
}

// ParseLocationFilter extracts listing parameters from the request:
// city, category, q, sort, order, limit and offset. Unknown sort keys,
// directions or categories are rejected.
func ParseLocationFilter(r *http.Request) (LocationFilter, error) {
	q := r.URL.Query()

	query := reconciler.DefaultQuery()
	if city := strings.TrimSpace(q.Get("city")); city != "" {
		query.City = city
	}
	query.Keyword = q.Get("q")

	var err error
	if query.Category, err = reconciler.ParseCategory(q.Get("category")); err != nil {
		return LocationFilter{}, err
	}
	if s := q.Get("sort"); s != "" {
		if query.SortKey, err = reconciler.ParseSortKey(s); err != nil {
			return LocationFilter{}, err
		}
	}
	if o := q.Get("order"); o != "" {
		if query.Direction, err = reconciler.ParseDirection(o); err != nil {
			return LocationFilter{}, err
		}
	}

	page, err := ParsePage(r)
	if err != nil {
		return LocationFilter{}, err
	}

	return LocationFilter{Query: query, Page: page}, nil
}

// ParsePage reads limit and offset, clamping limit to MaxPageSize.
func ParsePage(r *http.Request) (Page, error) {
	q := r.URL.Query()
	limit, err := parseIntOrDefault("limit", q.Get("limit"), constants.DefaultPageSize)
	if err != nil {
		return Page{}, err
	}
	offset, err := parseIntOrDefault("offset", q.Get("offset"), 0)
	if err != nil {
		return Page{}, err
	}
	if limit <= 0 || offset < 0 {
		return Page{}, errors.NewValidationError("limit", limit, errors.MsgInvalidParameter)
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	return Page{Limit: limit, Offset: offset}, nil
}

// ParseID parses a location id path segment.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("id", s, errors.MsgTargetRequired)
	}
	return id, nil
}

// DoseParams are the pen calculator inputs.
type DoseParams struct {
	Pen  locations.Dose
	Dose float64
}

// ParseDoseParams reads pen and dose.
func ParseDoseParams(r *http.Request) (DoseParams, error) {
	q := r.URL.Query()
	pen, err := locations.ParseDose(q.Get("pen"))
	if err != nil {
		return DoseParams{}, errors.NewValidationError("pen", q.Get("pen"), errors.MsgInvalidParameter)
	}
	dose, err := parseFloat("dose", q.Get("dose"))
	if err != nil {
		return DoseParams{}, err
	}
	return DoseParams{Pen: pen, Dose: dose}, nil
}

// BMRParams are the metabolic calculator inputs.
type BMRParams struct {
	Sex    calculator.Sex
	Age    float64
	Height float64
	Weight float64
}

// ParseBMRParams reads sex, age, height and weight.
func ParseBMRParams(r *http.Request) (BMRParams, error) {
	q := r.URL.Query()
	sex, err := calculator.ParseSex(q.Get("sex"))
	if err != nil {
		return BMRParams{}, err
	}
	p := BMRParams{Sex: sex}
	if p.Age, err = parseFloat("age", q.Get("age")); err != nil {
		return BMRParams{}, err
	}
	if p.Height, err = parseFloat("height", q.Get("height")); err != nil {
		return BMRParams{}, err
	}
	if p.Weight, err = parseFloat("weight", q.Get("weight")); err != nil {
		return BMRParams{}, err
	}
	return p, nil
}

// parseIntOrDefault parses s, returning def when s is empty.
func parseIntOrDefault(field, s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewValidationError(field, s, errors.MsgInvalidParameter)
	}
	return i, nil
}

func parseFloat(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.NewValidationError(field, s, errors.MsgInvalidParameter)
	}
	return f, nil
}

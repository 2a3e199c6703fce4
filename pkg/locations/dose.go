package locations

import (
	"fmt"
	"strconv"
	"strings"
)

// Dose is a dose strength in milligrams.
type Dose float64

// The six marketed strengths.
const (
	Dose2_5  Dose = 2.5
	Dose5    Dose = 5
	Dose7_5  Dose = 7.5
	Dose10   Dose = 10
	Dose12_5 Dose = 12.5
	Dose15   Dose = 15
)

// Doses lists every strength in ascending order.
var Doses = []Dose{Dose2_5, Dose5, Dose7_5, Dose10, Dose12_5, Dose15}

// ParseDose accepts "5", "5mg", "7.5 mg" and the column form "price7_5mg".
func ParseDose(s string) (Dose, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	t = strings.TrimPrefix(t, "price")
	t = strings.TrimSuffix(t, "mg")
	t = strings.ReplaceAll(strings.TrimSpace(t), "_", ".")
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid dose %q", s)
	}
	d := Dose(f)
	if !d.Valid() {
		return 0, fmt.Errorf("unsupported dose %q", s)
	}
	return d, nil
}

// Valid reports whether d is one of the six strengths.
func (d Dose) Valid() bool {
	for _, known := range Doses {
		if d == known {
			return true
		}
	}
	return false
}

// Column returns the backend column holding the price for d, e.g. price7_5mg.
func (d Dose) Column() string {
	return "price" + strings.ReplaceAll(d.String(), ".", "_") + "mg"
}

// String returns "2.5", "5", ...
func (d Dose) String() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

// Label returns "2.5mg", "5mg", ...
func (d Dose) Label() string {
	return d.String() + "mg"
}

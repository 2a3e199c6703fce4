package locations

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is a price in NT$ for one dose strength. Zero means not offered.
//
// Decoding is tolerant: numbers, numeric strings, blank strings and null
// are all accepted, and anything that is not a finite positive number
// decodes to zero instead of failing the whole row.
type Price float64

// ParsePrice converts free text (a form field, a CLI flag) to a Price.
func ParsePrice(s string) Price {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return normalize(f)
}

func normalize(f float64) Price {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return Price(f)
}

// Offered reports whether the price is a positive finite number.
func (p Price) Offered() bool {
	f := float64(p)
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Amount returns the price and whether it is offered.
func (p Price) Amount() (float64, bool) {
	if !p.Offered() {
		return 0, false
	}
	return float64(p), true
}

// String renders the price the way the directory table shows it.
func (p Price) String() string {
	if !p.Offered() {
		return "-"
	}
	return strconv.FormatFloat(float64(p), 'f', -1, 64)
}

// MarshalJSON writes null for a price that is not offered.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Offered() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(p), 'f', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*p = 0
			return nil //nolint:nilerr // malformed prices are not offered
		}
		*p = ParsePrice(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*p = 0
		return nil //nolint:nilerr // malformed prices are not offered
	}
	*p = normalize(f)
	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (p Price) MarshalYAML() (any, error) {
	if v, ok := p.Amount(); ok {
		return v, nil
	}
	return nil, nil
}

// Scan implements sql.Scanner.
func (p *Price) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = 0
	case float64:
		*p = normalize(v)
	case float32:
		*p = normalize(float64(v))
	case int64:
		*p = normalize(float64(v))
	case []byte:
		*p = ParsePrice(string(v))
	case string:
		*p = ParsePrice(v)
	default:
		return fmt.Errorf("cannot scan %T into Price", src)
	}
	return nil
}

// Value implements driver.Valuer, writing NULL when the price is not offered.
func (p Price) Value() (driver.Value, error) {
	if v, ok := p.Amount(); ok {
		return v, nil
	}
	return nil, nil
}

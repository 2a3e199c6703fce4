package locations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are the shapes PostgREST and fixtures use for
// created_at: with or without a zone, or a bare date.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

// ParseTimestamp parses s with every known layout.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Timestamp is a created_at column. Decoding never fails: a value no
// layout accepts leaves the zero time, so one bad row cannot sink a list.
type Timestamp struct {
	t time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t}
}

// Time returns the wrapped time, zero when unknown.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// IsZero reports whether the timestamp is unknown.
func (ts Timestamp) IsZero() bool {
	return ts.t.IsZero()
}

// Compare compares two timestamps like time.Time.Compare.
func (ts Timestamp) Compare(other Timestamp) int {
	return ts.t.Compare(other.t)
}

// String formats the timestamp as RFC 3339, or "" when unknown.
func (ts Timestamp) String() string {
	if ts.t.IsZero() {
		return ""
	}
	return ts.t.Format(time.RFC3339Nano)
}

// MarshalJSON writes null for an unknown timestamp.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil //nolint:nilerr // malformed timestamps are unknown
	}
	ts.t, _ = ParseTimestamp(s)
	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (ts Timestamp) MarshalYAML() (any, error) {
	if ts.t.IsZero() {
		return nil, nil
	}
	return ts.String(), nil
}

// UnmarshalYAML implements yaml.InterfaceUnmarshaler.
func (ts *Timestamp) UnmarshalYAML(unmarshal func(any) error) error {
	*ts = Timestamp{}
	var v any
	if err := unmarshal(&v); err != nil {
		return nil //nolint:nilerr // malformed timestamps are unknown
	}
	switch x := v.(type) {
	case time.Time:
		ts.t = x
	case string:
		ts.t, _ = ParseTimestamp(x)
	}
	return nil
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(src any) error {
	*ts = Timestamp{}
	switch v := src.(type) {
	case nil:
	case time.Time:
		ts.t = v
	case string:
		ts.t, _ = ParseTimestamp(v)
	case []byte:
		ts.t, _ = ParseTimestamp(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
	return nil
}

package models

import (
	"fmt"
	"time"
)

// dateKeyLayout is the wire format for a selected day ("2006-01-02", UTC).
const dateKeyLayout = "2006-01-02"

// DateKey identifies a single calendar day in UTC.
type DateKey struct {
	t time.Time
}

// ParseDateKey validates and parses a YYYY-MM-DD day string
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.ParseInLocation(dateKeyLayout, s, time.UTC)
	if err != nil {
		return DateKey{}, fmt.Errorf("invalid day %q (expected YYYY-MM-DD): %w", s, err)
	}
	return DateKey{t: t}, nil
}

// DateKeyOf truncates a timestamp to its UTC calendar day
func DateKeyOf(t time.Time) DateKey {
	u := t.UTC()
	return DateKey{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// Start returns midnight UTC at the beginning of the day
func (d DateKey) Start() time.Time {
	return d.t
}

// End returns midnight UTC at the beginning of the following day
func (d DateKey) End() time.Time {
	return d.t.Add(24 * time.Hour)
}

// IsZero reports whether the key was never set
func (d DateKey) IsZero() bool {
	return d.t.IsZero()
}

// String returns the YYYY-MM-DD form
func (d DateKey) String() string {
	return d.t.Format(dateKeyLayout)
}

// MarshalJSON encodes the key as a YYYY-MM-DD string
func (d DateKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string
func (d *DateKey) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid day JSON: %s", s)
	}
	parsed, err := ParseDateKey(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

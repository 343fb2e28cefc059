package models

import (
	"fmt"
	"time"
)

// DateLayout is the canonical wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	t time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// DateFromWire parses an optional wire date. nil stays nil.
func DateFromWire(s *string) (*Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DateToWire serializes an optional date. nil stays nil.
func DateToWire(d *Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

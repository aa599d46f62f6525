// Package date handles calendar days, as used by quote series and the
// balance chart.
package date

import (
	"fmt"
	"time"
)

// Format is the layout of a Date as a string.
const Format = "2006-01-02"

// lenient layout accepted on read, e.g. "2025-7-1".
const readFormat = "2006-1-2"

// Date is a calendar day. Dates are comparable with ==.
type Date struct {
	y int
	m time.Month
	d int
}

// midnight UTC of d.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns the normalized Date for year, month and day: New(2025, 2, 30)
// is March 2nd.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Of returns the day of t, in t's location.
func Of(t time.Time) Date { return New(t.Date()) }

// Add returns d moved by days, which may be negative.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// After reports whether d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

func (d Date) String() string { return d.time().Format(Format) }

// Parse parses a day. A trailing time of day, as found in intraday quote
// series, is ignored.
func Parse(s string) (Date, error) {
	if len(s) > len(Format) && s[len(Format)] == ' ' {
		s = s[:len(Format)]
	}
	t, err := time.Parse(readFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return Of(t), nil
}

package checkin

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a civil calendar date with no time-of-day, the unit of
// "one check-in per day". All streak arithmetic happens on Dates produced by a
// single Clock so that "yesterday" means the previous calendar day in the
// reference zone, not "24 hours ago".
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf extracts the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{d.t.AddDate(0, 0, n)}
}

// String formats the date as ISO YYYY-MM-DD. ISO strings compare
// lexicographically in date order, which the stores rely on.
func (d Date) String() string {
	return d.t.Format(dateLayout)
}

// Equal reports whether both values name the same calendar day.
func (d Date) Equal(o Date) bool {
	return d.t.Equal(o.t)
}

// Before reports whether d is an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return NewDate(d.t.Year(), d.t.Month(), 1)
}

// Clock supplies "now" and "today" in the reference time zone. It is injected
// into the service so tests can pin the calendar.
type Clock interface {
	Now() time.Time
	Today() Date
}

type zoneClock struct {
	loc *time.Location
}

// NewClock returns a Clock anchored to loc; nil falls back to the server zone.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return zoneClock{loc: loc}
}

func (c zoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c zoneClock) Today() Date {
	return DateOf(c.Now())
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// CanonicalDate is a validated (year, month, day) triple. A zero value is
// not a valid date; construct through NewCanonicalDate or FromTime so the
// calendar rules hold. Per prd102-normalization R1.2: no component is ever
// out of range and no rollover into a neighboring month is possible.
type CanonicalDate struct {
	// Year is the full four-digit year.
	Year int `json:"year" yaml:"year"`

	// Month is the calendar month, 1 through 12.
	Month int `json:"month" yaml:"month"`

	// Day is the day of month, valid for the given month and year.
	Day int `json:"day" yaml:"day"`
}

// NewCanonicalDate validates the triple against calendar rules and returns
// the date. Months outside 1-12 and days that do not exist in the given
// month (including Feb 29 in non-leap years) are rejected rather than
// rolled over.
func NewCanonicalDate(year, month, day int) (CanonicalDate, error) {
	if month < 1 || month > 12 {
		return CanonicalDate{}, fmt.Errorf("month %d out of range 1-12", month)
	}
	if day < 1 || day > daysInMonth(year, month) {
		return CanonicalDate{}, fmt.Errorf("day %d out of range for %04d-%02d", day, year, month)
	}
	return CanonicalDate{Year: year, Month: month, Day: day}, nil
}

// FromTime truncates a time.Time to its calendar date.
func FromTime(t time.Time) CanonicalDate {
	return CanonicalDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// daysInMonth returns the number of days in the given month, accounting
// for leap years. time.Date normalizes day 0 of the next month to the
// last day of this one.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsZero reports whether the date is the zero value.
func (d CanonicalDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats the date as YYYY-MM-DD.
func (d CanonicalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns the date at midnight UTC.
func (d CanonicalDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the whole calendar days from today to the date.
// Both sides are normalized to midnight, so time-of-day never shifts the
// result. Negative means the date has passed.
func (d CanonicalDate) DaysUntil(today time.Time) int {
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Time().Sub(midnight) / (24 * time.Hour))
}

// Before reports whether d falls earlier than other.
func (d CanonicalDate) Before(other CanonicalDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

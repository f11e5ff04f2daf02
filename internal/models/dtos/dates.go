package dtos

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used everywhere a report date
// crosses a boundary: REST paths, draft store keys, database columns.
const DateLayout = "2006-01-02"

// ParseReportDate parses an ISO calendar date. Time-of-day is never
// significant for report dates.
func ParseReportDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid report date %q: %w", s, err)
	}
	return t, nil
}

// Today returns the current calendar date.
func Today() string {
	return time.Now().Format(DateLayout)
}

// PrevDay returns the calendar date one day before d.
func PrevDay(d string) (string, error) {
	t, err := ParseReportDate(d)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(DateLayout), nil
}

// NextDay returns the calendar date one day after d.
func NextDay(d string) (string, error) {
	t, err := ParseReportDate(d)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 1).Format(DateLayout), nil
}

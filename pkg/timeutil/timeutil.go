// Package timeutil holds the calendar helpers shared by progress tracking
// and daily statistics. All day keys are UTC calendar dates in
// "YYYY-MM-DD" form.
package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the layout of a day key.
const DateLayout = "2006-01-02"

// Clock returns the current time. Handlers take a Clock so tests can pin it.
type Clock func() time.Time

// SystemClock returns time.Now in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// DateKey returns the UTC calendar date of t as "YYYY-MM-DD".
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDateKey parses a "YYYY-MM-DD" key into midnight UTC.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// IsDateKey reports whether s is a well-formed day key.
func IsDateKey(s string) bool {
	_, err := ParseDateKey(s)
	return err == nil
}

// DaysSince returns the number of whole 24-hour periods between last and now.
// This counts elapsed time, not calendar boundaries: 23h across midnight is 0.
// A negative interval (clock skew) yields 0.
func DaysSince(last, now time.Time) int {
	elapsed := now.Sub(last)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / (24 * time.Hour))
}

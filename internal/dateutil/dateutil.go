package dateutil

import (
	"fmt"
	"time"
)

// ISOLayout is the wire format for dates: zero-padded "YYYY-MM-DD".
const ISOLayout = "2006-01-02"

// DaysInMonth returns the number of days in the given month (1-based).
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekdayOfFirst returns the weekday of the first day of the month,
// 0=Sunday..6=Saturday.
func WeekdayOfFirst(year, month int) int {
	return int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// FormatISODate renders a time as "YYYY-MM-DD".
func FormatISODate(t time.Time) string {
	return t.Format(ISOLayout)
}

// FormatDay renders a (year, month, day) triple as "YYYY-MM-DD" without going
// through time.Time, so out-of-range days are the caller's problem.
func FormatDay(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// ParseISODate parses a strict "YYYY-MM-DD" string. Anything else is an error;
// callers use this to reject malformed deep-link dates.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Package dateutils provides the calendar and epoch helpers used to window API requests.
package dateutils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthLayout is the human format accepted for --date.
const MonthLayout = "YYYY.MM"

// ParseMonth parses a "YYYY.MM" string into its year and month.
func ParseMonth(value string) (int, time.Month, error) {
	parts := strings.Split(strings.TrimSpace(value), ".")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%q is not in valid format (%s)", value, MonthLayout)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1970 || year > 9999 {
		return 0, 0, fmt.Errorf("%q is not in valid format (%s)", value, MonthLayout)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%q is not in valid format (%s)", value, MonthLayout)
	}
	return year, time.Month(month), nil
}

// StartOfMonth returns midnight of the first day of the month in loc.
func StartOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// EndOfMonth returns 23:59:59 of the last day of the month in loc.
func EndOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 23, 59, 59, 0, loc)
}

// MonthEndCutoff returns the epoch in milliseconds of the last second of the month.
func MonthEndCutoff(year int, month time.Month, loc *time.Location) int64 {
	return EndOfMonth(year, month, loc).Unix() * 1000
}

// MonthToEpoch turns a "YYYY.MM" string into the month-end cutoff epoch and the month.
func MonthToEpoch(value string, loc *time.Location) (int64, time.Month, error) {
	year, month, err := ParseMonth(value)
	if err != nil {
		return 0, 0, err
	}
	return MonthEndCutoff(year, month, loc), month, nil
}

// LookbackCutoffs returns one month-end cutoff per bucket, oldest first.
// Buckets start at the month lookbackYears before now and stop before the current
// calendar month, which is never included.
func LookbackCutoffs(now time.Time, lookbackYears int, loc *time.Location) []int64 {
	now = now.In(loc)
	current := StartOfMonth(now.Year(), now.Month(), loc)
	start := current.AddDate(-lookbackYears, 0, 0)

	var cutoffs []int64
	for m := start; m.Before(current); m = m.AddDate(0, 1, 0) {
		cutoffs = append(cutoffs, MonthEndCutoff(m.Year(), m.Month(), loc))
	}
	return cutoffs
}

// FromEpochMillis converts an epoch in milliseconds to a time in loc.
func FromEpochMillis(ms int64, loc *time.Location) time.Time {
	return time.UnixMilli(ms).In(loc)
}

// Package dates converts between calendar-date strings (YYYY-MM-DD) and local times.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the calendar-date layout used for tree and timeline keys.
const Layout = "2006-01-02"

// Format returns the local calendar date of t.
func Format(t time.Time) string {
	return t.In(time.Local).Format(Layout)
}

// Parse parses a calendar date as local midnight.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// MustParse is Parse for trusted input; it panics on error.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Today returns today's date string for now.
func Today(now time.Time) string {
	return Format(now)
}

// AddDays shifts a calendar date by n days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the whole number of calendar days from a to b.
// It counts calendar dates, so DST transitions do not shift the result.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// IsWeekend reports whether t is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Resolve turns a user-supplied date into a date string relative to now. It
// accepts YYYY-MM-DD, "today", "tomorrow", "yesterday" and day offsets such
// as "+3" or "-1". An empty string means today.
func Resolve(s string, now time.Time) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := StartOfDay(now)
	switch s {
	case "", "today":
		return Format(today), nil
	case "tomorrow":
		return Format(AddDays(today, 1)), nil
	case "yesterday":
		return Format(AddDays(today, -1)), nil
	}
	if s[0] == '+' || s[0] == '-' {
		n, err := strconv.Atoi(s)
		if err != nil {
			return "", fmt.Errorf("invalid day offset %q", s)
		}
		return Format(AddDays(today, n)), nil
	}
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(t), nil
}

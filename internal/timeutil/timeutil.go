// Package timeutil handles the timezone-naive dates and clock values
// used by work items and calendar slots.
package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the ISO date form used across storage and the API.
const DateLayout = "2006-01-02"

// Accepted clock layouts, tried in order.
var clockLayouts = []string{"15:04:05", "15:04"}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
	}
	return d, nil
}

// ParseClock parses a HH:MM or HH:MM:SS clock value. The result carries
// the zero date so clock values compare directly.
func ParseClock(value string) (time.Time, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", value)
}

// Combine composes a timezone-naive timestamp from a date string and a
// clock string.
func Combine(date, clock string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// ClockOf projects a timestamp's time-of-day onto the zero date, so it
// can be compared against ParseClock results.
func ClockOf(ts time.Time) time.Time {
	return time.Date(0, time.January, 1, ts.Hour(), ts.Minute(), ts.Second(), 0, time.UTC)
}

// WithinWindow reports whether a timestamp's time-of-day falls inside
// the inclusive [from, to] clock window.
func WithinWindow(from, to string, ts time.Time) (bool, error) {
	start, err := ParseClock(from)
	if err != nil {
		return false, err
	}
	end, err := ParseClock(to)
	if err != nil {
		return false, err
	}
	t := ClockOf(ts)
	return !t.Before(start) && !t.After(end), nil
}

// WindowHours returns the duration of a clock window in hours.
func WindowHours(from, to string) (float64, error) {
	start, err := ParseClock(from)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(to)
	if err != nil {
		return 0, err
	}
	return end.Sub(start).Hours(), nil
}

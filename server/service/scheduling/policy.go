package scheduling

import (
	"time"
)

// Package-level constants for the clinic calendar policy.

const (
	// SlotDurationMinutes is the fixed length of every appointment.
	SlotDurationMinutes = 30

	// OpeningMinute is the first valid slot start, in minutes from midnight (08:00).
	OpeningMinute = 8 * 60
	// ClosingMinute is the exclusive upper bound for slot starts, in minutes
	// from midnight (18:00). A slot starting exactly at closing is invalid;
	// 17:59 is the last valid start.
	ClosingMinute = 18 * 60

	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for slot start times.
	TimeLayout = "15:04"
)

// IsBusinessDay returns true iff the date falls on Monday through Friday.
func IsBusinessDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// IsWithinBusinessHours returns true iff the slot start satisfies
// 08:00 <= t < 18:00. The input must already be a valid HH:MM string.
func IsWithinBusinessHours(hhmm string) bool {
	m, err := minuteOfDay(hhmm)
	if err != nil {
		return false
	}
	return m >= OpeningMinute && m < ClosingMinute
}

// minuteOfDay converts an HH:MM string to minutes from midnight.
func minuteOfDay(hhmm string) (int, error) {
	t, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

package scheduling

import (
	"github.com/saudeviva/agenda/store"
)

// HasConflict reports whether the candidate slot [start, start+30m) on the
// given date overlaps any active appointment. Cancelled appointments never
// conflict, and appointments on other dates are ignored.
//
// Interval convention: [start, end) half-open on both sides. Two slots
// conflict iff the candidate start falls inside an existing slot, or an
// existing start falls inside the candidate slot:
//
//	(cStart <= start < cFinish) || (start <= cStart < finish)
//
// A candidate starting exactly when another slot ends does not conflict, so
// back-to-back bookings are allowed.
func HasConflict(date, hhmm string, existing []*store.Appointment) bool {
	start, err := minuteOfDay(hhmm)
	if err != nil {
		return false
	}
	finish := start + SlotDurationMinutes

	for _, appointment := range existing {
		if appointment.Status != store.Scheduled {
			continue
		}
		if appointment.Date != date {
			continue
		}

		cStart, err := minuteOfDay(appointment.Time)
		if err != nil {
			// A malformed stored time cannot be compared; skip it.
			continue
		}
		cFinish := cStart + SlotDurationMinutes

		if (cStart <= start && start < cFinish) || (start <= cStart && cStart < finish) {
			return true
		}
	}

	return false
}

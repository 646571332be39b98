package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saudeviva/agenda/store"
)

func scheduled(id int32, date, hhmm string) *store.Appointment {
	return &store.Appointment{
		ID:              id,
		PatientName:     "Patient",
		Date:            date,
		Time:            hhmm,
		DurationMinutes: SlotDurationMinutes,
		Status:          store.Scheduled,
	}
}

// TestHasConflict_IntervalConvention tests the [start, start+30m) half-open
// interval convention against a single existing appointment at 09:00.
func TestHasConflict_IntervalConvention(t *testing.T) {
	existing := []*store.Appointment{scheduled(1, "2025-06-02", "09:00")}

	tests := []struct {
		name           string
		candidateTime  string
		expectConflict bool
	}{
		{"exact overlap", "09:00", true},
		{"candidate starts inside existing", "09:15", true},
		{"candidate start one minute before existing end", "09:29", true},
		{"existing starts inside candidate", "08:45", true},
		{"candidate ends exactly when existing starts", "08:30", false},
		{"candidate starts exactly when existing ends", "09:30", false},
		{"well before", "08:00", false},
		{"well after", "10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HasConflict("2025-06-02", tt.candidateTime, existing)
			assert.Equal(t, tt.expectConflict, got)
		})
	}
}

func TestHasConflict_OtherDatesIgnored(t *testing.T) {
	existing := []*store.Appointment{scheduled(1, "2025-06-02", "09:00")}

	assert.False(t, HasConflict("2025-06-03", "09:00", existing),
		"same time on a different date must not conflict")
}

func TestHasConflict_CancelledAppointmentsIgnored(t *testing.T) {
	cancelled := scheduled(1, "2025-06-02", "09:00")
	cancelled.Status = store.Cancelled

	assert.False(t, HasConflict("2025-06-02", "09:00", []*store.Appointment{cancelled}),
		"cancelled appointments must not block the slot")
}

func TestHasConflict_BackToBackBookings(t *testing.T) {
	// A fully booked morning of adjacent slots: any slot boundary is free to
	// reuse, but every interior minute conflicts.
	existing := []*store.Appointment{
		scheduled(1, "2025-06-02", "09:00"),
		scheduled(2, "2025-06-02", "09:30"),
		scheduled(3, "2025-06-02", "10:00"),
	}

	assert.False(t, HasConflict("2025-06-02", "08:30", existing))
	assert.False(t, HasConflict("2025-06-02", "10:30", existing))
	assert.True(t, HasConflict("2025-06-02", "09:45", existing))
	assert.True(t, HasConflict("2025-06-02", "08:31", existing))
}

func TestHasConflict_EmptyCollection(t *testing.T) {
	assert.False(t, HasConflict("2025-06-02", "09:00", nil))
	assert.False(t, HasConflict("2025-06-02", "09:00", []*store.Appointment{}))
}

func TestHasConflict_MalformedStoredTimeSkipped(t *testing.T) {
	broken := scheduled(1, "2025-06-02", "not-a-time")

	assert.False(t, HasConflict("2025-06-02", "09:00", []*store.Appointment{broken}))
}

package store

import (
	"context"
	"time"
)

// Status is the lifecycle status of an appointment.
type Status string

const (
	// Scheduled is the status of an active appointment.
	Scheduled Status = "SCHEDULED"
	// Cancelled is the status of a cancelled appointment. Cancelled rows are
	// kept in the store (soft delete) and only the status field ever changes.
	Cancelled Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

// Appointment is the object representing a booked consultation slot.
// Date is the calendar date in YYYY-MM-DD form with no timezone attached;
// Time is the slot start in HH:MM form at minute granularity. The ID is
// assigned by the scheduling service and is never reused, even after
// cancellation.
type Appointment struct {
	ID              int32
	PatientName     string
	Date            string
	Time            string
	DurationMinutes int32
	Status          Status
	Practitioner    string
	CreatedTs       int64
}

// FindAppointment is the find condition for appointments.
type FindAppointment struct {
	ID     *int32
	Date   *string
	Status *Status

	// Pagination
	Limit  *int
	Offset *int
}

// UpdateAppointmentStatus is the status update request for an appointment.
// Status is the only mutable field of an appointment.
type UpdateAppointmentStatus struct {
	ID     int32
	Status Status
}

// CreateAppointment creates a new appointment record.
func (s *Store) CreateAppointment(ctx context.Context, create *Appointment) (*Appointment, error) {
	return s.driver.CreateAppointment(ctx, create)
}

// ListAppointments lists appointments with filter, ordered by id ascending
// (insertion order).
func (s *Store) ListAppointments(ctx context.Context, find *FindAppointment) ([]*Appointment, error) {
	return s.driver.ListAppointments(ctx, find)
}

// GetAppointment gets a single appointment matching the find condition.
func (s *Store) GetAppointment(ctx context.Context, find *FindAppointment) (*Appointment, error) {
	list, err := s.driver.ListAppointments(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateAppointmentStatus updates the status of an appointment.
func (s *Store) UpdateAppointmentStatus(ctx context.Context, update *UpdateAppointmentStatus) (*Appointment, error) {
	return s.driver.UpdateAppointmentStatus(ctx, update)
}

// CountAppointments returns the total number of appointment records,
// cancelled ones included.
func (s *Store) CountAppointments(ctx context.Context) (int32, error) {
	return s.driver.CountAppointments(ctx)
}

// StartTime parses the appointment date and time into a time.Time in the
// given location.
func (a *Appointment) StartTime(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, loc)
}

// IsActive returns true if the appointment still occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status == Scheduled
}

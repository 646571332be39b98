// Package scheduling provides appointment management for the clinic:
// candidate validation, calendar policy, slot conflict detection, and
// id assignment.
//
// Key rules:
//   - Fixed 30-minute slots, single practitioner
//   - Business days Monday-Friday, business hours [08:00, 18:00)
//   - Half-open interval conflict detection (back-to-back allowed)
//   - Ids counted over all historical records, never reused
//
// The service layer abstracts business logic from the store layer and provides
// a clean interface for upper layers.
package scheduling

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/saudeviva/agenda/store"
)

// Candidate is a requested appointment slot, usually produced by the intent
// extractor. Its fields are untrusted and fully re-validated here.
type Candidate struct {
	PatientName string
	Date        string
	Time        string
}

// Service defines the core business logic interface for appointment management.
type Service interface {
	// Schedule validates the candidate against the calendar policy and the
	// active appointments, assigns an id, and persists the new appointment.
	// Rejections are returned as *RejectionError.
	Schedule(ctx context.Context, candidate Candidate) (*store.Appointment, error)

	// Cancel flips an appointment to Cancelled. Cancelling an already
	// cancelled appointment succeeds and rewrites the same terminal state.
	Cancel(ctx context.Context, id int32) (*store.Appointment, error)

	// List returns all appointments in insertion order, cancelled ones included.
	List(ctx context.Context) ([]*store.Appointment, error)
}

// Store is the interface for store operations needed by the scheduling service.
type Store interface {
	CreateAppointment(ctx context.Context, create *store.Appointment) (*store.Appointment, error)
	ListAppointments(ctx context.Context, find *store.FindAppointment) ([]*store.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, update *store.UpdateAppointmentStatus) (*store.Appointment, error)
}

type service struct {
	store        Store
	practitioner string

	// mu serializes the load-check-persist cycle. Conflict detection and id
	// assignment both depend on a consistent snapshot at decision time, so
	// two concurrent Schedule calls must not interleave.
	mu sync.Mutex

	// now is injectable for tests.
	now func() time.Time
}

// NewService creates a new scheduling service. The practitioner label is
// attached to every created appointment.
func NewService(store Store, practitioner string) Service {
	return &service{
		store:        store,
		practitioner: practitioner,
		now:          time.Now,
	}
}

// Schedule implements the validation pipeline:
// candidate well-formedness, business day, business hours, slot conflict,
// id assignment, persist.
func (s *service) Schedule(ctx context.Context, candidate Candidate) (*store.Appointment, error) {
	start := time.Now()
	defer func() {
		slog.Debug("appointment schedule operation",
			"date", candidate.Date,
			"time", candidate.Time,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}()

	date, err := s.validateCandidate(&candidate)
	if err != nil {
		return nil, err
	}

	if !IsBusinessDay(date) {
		return nil, NonBusinessDay(candidate.Date)
	}
	if !IsWithinBusinessHours(candidate.Time) {
		return nil, OutsideBusinessHours(candidate.Time)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Load the full collection: conflict checks run over the active subset,
	// while id assignment counts every historical record, cancelled ones
	// included. Cancellation never frees an id.
	all, err := s.store.ListAppointments(ctx, &store.FindAppointment{})
	if err != nil {
		return nil, StorageUnavailable(err)
	}

	if HasConflict(candidate.Date, candidate.Time, all) {
		return nil, SlotConflict(candidate.Date, candidate.Time)
	}

	appointment := &store.Appointment{
		ID:              int32(len(all)) + 1,
		PatientName:     candidate.PatientName,
		Date:            candidate.Date,
		Time:            candidate.Time,
		DurationMinutes: SlotDurationMinutes,
		Status:          store.Scheduled,
		Practitioner:    s.practitioner,
		CreatedTs:       s.now().Unix(),
	}

	created, err := s.store.CreateAppointment(ctx, appointment)
	if err != nil {
		return nil, StorageUnavailable(err)
	}

	slog.Info("appointment scheduled",
		"id", created.ID,
		"date", created.Date,
		"time", created.Time,
	)
	return created, nil
}

// Cancel implements the one-way Scheduled -> Cancelled transition. The record
// stays in the store and keeps its id.
func (s *service) Cancel(ctx context.Context, id int32) (*store.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.ListAppointments(ctx, &store.FindAppointment{ID: &id})
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	if len(existing) == 0 {
		return nil, NotFound(id)
	}

	// Re-cancelling is idempotent: the update still runs and rewrites the
	// same terminal state.
	updated, err := s.store.UpdateAppointmentStatus(ctx, &store.UpdateAppointmentStatus{
		ID:     id,
		Status: store.Cancelled,
	})
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	if updated == nil {
		return nil, NotFound(id)
	}

	slog.Info("appointment cancelled", "id", updated.ID)
	return updated, nil
}

// List returns the stored order (insertion order), unfiltered.
func (s *service) List(ctx context.Context) ([]*store.Appointment, error) {
	list, err := s.store.ListAppointments(ctx, &store.FindAppointment{})
	if err != nil {
		return nil, StorageUnavailable(err)
	}
	return list, nil
}

// validateCandidate checks the candidate for well-formedness and returns the
// parsed calendar date. Extractor output is untrusted, so parsing is strict:
// exactly YYYY-MM-DD and HH:MM.
func (s *service) validateCandidate(candidate *Candidate) (time.Time, error) {
	candidate.PatientName = strings.TrimSpace(candidate.PatientName)
	if candidate.PatientName == "" {
		return time.Time{}, MalformedCandidate("patient name is required")
	}

	date, err := time.Parse(DateLayout, candidate.Date)
	if err != nil {
		return time.Time{}, MalformedCandidate("date must be a valid YYYY-MM-DD calendar date")
	}
	if _, err := time.Parse(TimeLayout, candidate.Time); err != nil {
		return time.Time{}, MalformedCandidate("time must be a valid HH:MM time of day")
	}

	return date, nil
}

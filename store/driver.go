package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Appointment model related methods.
	CreateAppointment(ctx context.Context, create *Appointment) (*Appointment, error)
	ListAppointments(ctx context.Context, find *FindAppointment) ([]*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, update *UpdateAppointmentStatus) (*Appointment, error)
	CountAppointments(ctx context.Context) (int32, error)
}

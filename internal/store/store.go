package store

import (
	"context"
	"errors"

	"github.com/linarifux/dentista-api/internal/models"
)

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrSlotTaken means a non-cancelled appointment already occupies the
	// (date, time, doctor) slot. The Mongo implementation maps the partial
	// unique index violation to this error, which makes the availability
	// check atomic with the insert.
	ErrSlotTaken = errors.New("slot already taken")
	// ErrDuplicateEmail means a user with that email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// AppointmentFilter narrows admin appointment listings. Zero values match
// everything. Query matches name, email and phone case-insensitively.
type AppointmentFilter struct {
	Status models.Status
	Date   string
	Query  string
}

type AppointmentStore interface {
	// InsertAppointment persists a new appointment. Returns ErrSlotTaken
	// when the slot is occupied by a non-cancelled appointment.
	InsertAppointment(ctx context.Context, a *models.Appointment) error
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	// UpdateAppointment replaces the stored record. Returns ErrNotFound or
	// ErrSlotTaken under the same uniqueness rule as InsertAppointment.
	UpdateAppointment(ctx context.Context, a *models.Appointment) error
	ListAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	// BookedTimes returns the "HH:MM" starts of non-cancelled appointments
	// on date for doctor, skipping the appointment with exemptID (used by
	// the edit flow so a booking keeps seeing its own slot as free).
	BookedTimes(ctx context.Context, date, doctor, exemptID string) ([]string, error)
	// AggregatePatients groups appointments by email into the derived
	// patient view, most recent visit first.
	AggregatePatients(ctx context.Context) ([]models.Patient, error)
}

type ServiceStore interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	InsertService(ctx context.Context, s *models.Service) error
	DeleteService(ctx context.Context, id string) error
}

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Store is the persistence surface the API is built against.
type Store interface {
	AppointmentStore
	ServiceStore
	UserStore
	Ping(ctx context.Context) error
}

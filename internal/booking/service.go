package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/linarifux/dentista-api/internal/metrics"
	"github.com/linarifux/dentista-api/internal/models"
	"github.com/linarifux/dentista-api/internal/store"
)

// Service is the booking core: it validates input, re-checks slot
// availability at write time and delegates the final uniqueness guarantee to
// the store, which keeps the check atomic with the insert.
type Service struct {
	store    store.Store
	slots    *SlotCalculator
	workflow *Workflow
}

func NewService(st store.Store, slots *SlotCalculator, workflow *Workflow) *Service {
	return &Service{store: st, slots: slots, workflow: workflow}
}

// AvailableSlots exposes the calculator to the transport layer.
func (s *Service) AvailableSlots(ctx context.Context, date, doctor, exemptID string) ([]string, error) {
	return s.slots.Available(ctx, date, doctor, exemptID)
}

type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Service string
	Doctor  string
	Date    string
	Time    string
	Message string
}

// Create books a new appointment with status Pending. The requested slot is
// re-checked against current availability rather than trusting the client,
// and the store's uniqueness constraint closes the remaining race window.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Appointment, error) {
	if err := validateContact(in.Name, in.Email, in.Phone); err != nil {
		return nil, err
	}
	if err := validateSchedule(in.Date, in.Time); err != nil {
		return nil, err
	}

	title, err := s.resolveService(ctx, in.Service)
	if err != nil {
		return nil, err
	}

	if err := s.checkSlotFree(ctx, in.Date, in.Time, in.Doctor, ""); err != nil {
		return nil, err
	}

	apt := &models.Appointment{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Service: title,
		Doctor:  strings.TrimSpace(in.Doctor),
		Date:    in.Date,
		Time:    in.Time,
		Message: in.Message,
		Status:  models.StatusPending,
	}

	if err := s.store.InsertAppointment(ctx, apt); err != nil {
		if errors.Is(err, store.ErrSlotTaken) {
			metrics.IncSlotConflict()
			return nil, &SlotConflictError{Date: in.Date, Time: in.Time, Doctor: apt.Doctor}
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	return apt, nil
}

// UpdateInput patches an appointment. Nil fields are left unchanged. Status
// is deliberately absent: status changes go through UpdateStatus so the
// workflow table is always enforced.
type UpdateInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Service *string
	Doctor  *string
	Date    *string
	Time    *string
	Message *string
}

// Update edits an appointment. When the patch moves it to another slot the
// new slot is re-validated, with the appointment itself exempt so keeping the
// original time never conflicts.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Appointment, error) {
	apt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		apt.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		apt.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		apt.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Message != nil {
		apt.Message = *in.Message
	}
	if in.Doctor != nil {
		apt.Doctor = strings.TrimSpace(*in.Doctor)
	}
	if in.Date != nil {
		apt.Date = *in.Date
	}
	if in.Time != nil {
		apt.Time = *in.Time
	}
	if in.Service != nil {
		title, err := s.resolveService(ctx, *in.Service)
		if err != nil {
			return nil, err
		}
		apt.Service = title
	}

	if err := validateContact(apt.Name, apt.Email, apt.Phone); err != nil {
		return nil, err
	}
	if err := validateSchedule(apt.Date, apt.Time); err != nil {
		return nil, err
	}

	slotChanged := in.Date != nil || in.Time != nil || in.Doctor != nil
	if slotChanged {
		if err := s.checkSlotFree(ctx, apt.Date, apt.Time, apt.Doctor, id); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

// UpdateStatus moves an appointment through the workflow table. A transition
// not in the table leaves the record untouched.
func (s *Service) UpdateStatus(ctx context.Context, id string, to models.Status) (*models.Appointment, error) {
	if !to.IsValid() {
		return nil, &ValidationError{Field: "status", Reason: "unknown status"}
	}

	apt, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.workflow.Transition(apt.Status, to); err != nil {
		metrics.IncTransitionRejected()
		return nil, err
	}

	apt.Status = to
	if err := s.save(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

// Get fetches one appointment by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Appointment, error) {
	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id string) (*models.Appointment, error) {
	apt, err := s.store.GetAppointment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return apt, nil
}

func (s *Service) save(ctx context.Context, apt *models.Appointment) error {
	err := s.store.UpdateAppointment(ctx, apt)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return &NotFoundError{ID: apt.ID.Hex()}
	case errors.Is(err, store.ErrSlotTaken):
		metrics.IncSlotConflict()
		return &SlotConflictError{Date: apt.Date, Time: apt.Time, Doctor: apt.Doctor}
	}
	return err
}

// checkSlotFree verifies the requested time is in the currently available
// slot set. The store constraint still backs this up at write time.
func (s *Service) checkSlotFree(ctx context.Context, date, tm, doctor, exemptID string) error {
	available, err := s.slots.Available(ctx, date, normalizeDoctor(doctor), exemptID)
	if err != nil {
		return err
	}
	for _, slot := range available {
		if slot == tm {
			return nil
		}
	}
	metrics.IncSlotConflict()
	return &SlotConflictError{Date: date, Time: tm, Doctor: doctor}
}

// resolveService normalizes a treatment name (accepting legacy aliases) and
// checks it against the catalog.
func (s *Service) resolveService(ctx context.Context, title string) (string, error) {
	title = models.NormalizeServiceTitle(strings.TrimSpace(title))
	if title == "" {
		return "", &ValidationError{Field: "service", Reason: "is required"}
	}

	catalog, err := s.store.ListServices(ctx)
	if err != nil {
		return "", err
	}
	for _, svc := range catalog {
		if models.NormalizeServiceTitle(svc.Title) == title {
			return title, nil
		}
	}
	return "", &ValidationError{Field: "service", Reason: "is not an offered treatment"}
}

func validateContact(name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if strings.TrimSpace(phone) == "" {
		return &ValidationError{Field: "phone", Reason: "is required"}
	}
	return nil
}

func validateSchedule(date, tm string) error {
	if date == "" {
		return &ValidationError{Field: "date", Reason: "is required"}
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be a YYYY-MM-DD calendar date"}
	}
	if tm == "" {
		return &ValidationError{Field: "time", Reason: "is required"}
	}
	if _, err := time.Parse(timeLayout, tm); err != nil {
		return &ValidationError{Field: "time", Reason: "must be HH:MM"}
	}
	return nil
}

// normalizeDoctor keeps the doctor key consistent with what gets stored.
func normalizeDoctor(doctor string) string {
	return strings.TrimSpace(doctor)
}

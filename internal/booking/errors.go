package booking

import (
	"fmt"

	"github.com/linarifux/dentista-api/internal/models"
)

// ValidationError reports a missing or malformed field, or a service title
// that is not in the catalog. Field names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SlotConflictError means the requested (date, time, doctor) slot is no
// longer free. The caller should re-query availability and pick another time.
type SlotConflictError struct {
	Date   string
	Time   string
	Doctor string
}

func (e *SlotConflictError) Error() string {
	if e.Doctor != "" {
		return fmt.Sprintf("slot %s %s with %s is no longer available, please pick another time", e.Date, e.Time, e.Doctor)
	}
	return fmt.Sprintf("slot %s %s is no longer available, please pick another time", e.Date, e.Time)
}

// InvalidTransitionError means the requested status change is not allowed by
// the workflow table. The appointment is left unchanged.
type InvalidTransitionError struct {
	From models.Status
	To   models.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move appointment from %s to %s", e.From, e.To)
}

// NotFoundError means no appointment exists with the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("appointment %s not found", e.ID)
}

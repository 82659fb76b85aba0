package booking

import "github.com/linarifux/dentista-api/internal/models"

// Workflow is the status transition policy. The default table is the clinic's
// current lifecycle; a different table can be injected without touching the
// service.
type Workflow struct {
	transitions map[models.Status][]models.Status
}

// DefaultWorkflow returns the standard lifecycle: Pending can be confirmed or
// cancelled, Confirmed can be completed or cancelled, Completed and Cancelled
// are terminal.
func DefaultWorkflow() *Workflow {
	return NewWorkflow(map[models.Status][]models.Status{
		models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
		models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled},
	})
}

func NewWorkflow(transitions map[models.Status][]models.Status) *Workflow {
	return &Workflow{transitions: transitions}
}

// CanTransition reports whether from -> to is in the table.
func (w *Workflow) CanTransition(from, to models.Status) bool {
	for _, allowed := range w.transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates the change and returns the error the caller should
// surface when the table forbids it.
func (w *Workflow) Transition(from, to models.Status) error {
	if !w.CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Statuses lists every valid appointment status.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is one booking. Date carries the calendar day ("2006-01-02"),
// Time the slot start ("15:04"). Doctor is empty when the patient did not
// pick a practitioner.
type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Service   string             `bson:"service" json:"service"`
	Doctor    string             `bson:"doctor,omitempty" json:"doctor,omitempty"`
	Date      string             `bson:"date" json:"date"`
	Time      string             `bson:"time" json:"time"`
	Message   string             `bson:"message,omitempty" json:"message,omitempty"`
	Status    Status             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SlotKey identifies the slot an appointment occupies. Two non-cancelled
// appointments may never share a key.
func (a *Appointment) SlotKey() string {
	return a.Date + "|" + a.Time + "|" + a.Doctor
}

// Occupied reports whether the appointment still holds its slot.
func (a *Appointment) Occupied() bool {
	return a.Status != StatusCancelled
}

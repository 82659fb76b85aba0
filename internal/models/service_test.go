package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeServiceTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Igiene Dentale", "Igiene Dentale"},
		{"Dental Hygiene", "Igiene Dentale"},
		{"Teeth Whitening", "Sbiancamento"},
		{"Checkup", "Visita di Controllo"},
		{"Root Canal", "Devitalizzazione"},
		{"NotARealService", "NotARealService"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeServiceTitle(tc.in), "input %q", tc.in)
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Status("Scheduled").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestAppointmentSlotKey(t *testing.T) {
	a := Appointment{Date: "2025-06-10", Time: "09:00", Doctor: "Dr. Geri"}
	b := Appointment{Date: "2025-06-10", Time: "09:00"}
	assert.NotEqual(t, a.SlotKey(), b.SlotKey())

	a.Status = StatusCancelled
	assert.False(t, a.Occupied())
	a.Status = StatusPending
	assert.True(t, a.Occupied())
}

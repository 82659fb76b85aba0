package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linarifux/dentista-api/internal/config"
	"github.com/linarifux/dentista-api/internal/models"
	"github.com/linarifux/dentista-api/internal/store"
)

func testClinic() *config.ClinicConfig {
	return &config.ClinicConfig{
		SlotMinutes: 30,
		Hours: map[string]config.DayWindow{
			"monday":    {Open: "09:00", Close: "19:00"},
			"tuesday":   {Open: "09:00", Close: "19:00"},
			"wednesday": {Open: "09:00", Close: "19:00"},
			"thursday":  {Open: "09:00", Close: "19:00"},
			"friday":    {Open: "09:00", Close: "19:00"},
		},
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAvailableFullOpenDay(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	// 2025-06-10 is a Tuesday; clock is well before that day.
	cal := NewSlotCalculator(testClinic(), mem).
		WithClock(fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	slots, err := cal.Available(ctx, "2025-06-10", "", "")
	require.NoError(t, err)
	require.Len(t, slots, 20)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "09:30", slots[1])
	assert.Equal(t, "18:30", slots[19])

	// Strictly ascending, no duplicates.
	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1], slots[i])
	}

	// Idempotent with no intervening bookings.
	again, err := cal.Available(ctx, "2025-06-10", "", "")
	require.NoError(t, err)
	assert.Equal(t, slots, again)
}

func TestAvailableExcludesBookedSlot(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	cal := NewSlotCalculator(testClinic(), mem).
		WithClock(fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	require.NoError(t, mem.InsertAppointment(ctx, &models.Appointment{
		Name: "Mario Rossi", Email: "mario@example.com", Phone: "333",
		Service: "Igiene Dentale", Date: "2025-06-10", Time: "09:00",
		Status: models.StatusPending,
	}))

	slots, err := cal.Available(ctx, "2025-06-10", "", "")
	require.NoError(t, err)
	assert.Len(t, slots, 19)
	assert.NotContains(t, slots, "09:00")
	assert.Equal(t, "09:30", slots[0])
}

func TestAvailableClosedDayIsEmpty(t *testing.T) {
	ctx := context.Background()
	cal := NewSlotCalculator(testClinic(), store.NewMemory()).
		WithClock(fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	// 2025-06-08 is a Sunday with no configured window.
	slots, err := cal.Available(ctx, "2025-06-08", "", "")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSkipsPastTimesToday(t *testing.T) {
	ctx := context.Background()
	cal := NewSlotCalculator(testClinic(), store.NewMemory()).
		WithClock(fixedClock(time.Date(2025, 6, 10, 12, 7, 0, 0, time.UTC)))

	slots, err := cal.Available(ctx, "2025-06-10", "", "")
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "12:30", slots[0], "everything before the clock is gone")
	assert.Equal(t, "18:30", slots[len(slots)-1])
}

func TestAvailablePastDateIsEmpty(t *testing.T) {
	ctx := context.Background()
	cal := NewSlotCalculator(testClinic(), store.NewMemory()).
		WithClock(fixedClock(time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)))

	slots, err := cal.Available(ctx, "2025-06-10", "", "")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableExemptKeepsOwnSlot(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	cal := NewSlotCalculator(testClinic(), mem).
		WithClock(fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	apt := &models.Appointment{
		Name: "Mario Rossi", Email: "mario@example.com", Phone: "333",
		Service: "Igiene Dentale", Date: "2025-06-10", Time: "10:00",
		Status: models.StatusPending,
	}
	require.NoError(t, mem.InsertAppointment(ctx, apt))

	withoutExempt, err := cal.Available(ctx, "2025-06-10", "", "")
	require.NoError(t, err)
	assert.NotContains(t, withoutExempt, "10:00")

	withExempt, err := cal.Available(ctx, "2025-06-10", "", apt.ID.Hex())
	require.NoError(t, err)
	assert.Contains(t, withExempt, "10:00")
}

func TestAvailablePerDoctorScheduling(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	cal := NewSlotCalculator(testClinic(), mem).
		WithClock(fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	require.NoError(t, mem.InsertAppointment(ctx, &models.Appointment{
		Name: "Mario Rossi", Email: "mario@example.com", Phone: "333",
		Service: "Igiene Dentale", Doctor: "Dr. Geri",
		Date: "2025-06-10", Time: "09:00", Status: models.StatusPending,
	}))

	geri, err := cal.Available(ctx, "2025-06-10", "Dr. Geri", "")
	require.NoError(t, err)
	assert.NotContains(t, geri, "09:00")

	anyDoctor, err := cal.Available(ctx, "2025-06-10", "", "")
	require.NoError(t, err)
	assert.Contains(t, anyDoctor, "09:00", "another doctor's booking does not block the shared pool")
}

func TestAvailableInvalidDate(t *testing.T) {
	cal := NewSlotCalculator(testClinic(), store.NewMemory())

	_, err := cal.Available(context.Background(), "10/06/2025", "", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
}

package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linarifux/dentista-api/internal/models"
	"github.com/linarifux/dentista-api/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	for _, title := range []string{"Igiene Dentale", "Sbiancamento", "Ortodonzia", "Visita di Controllo"} {
		require.NoError(t, mem.InsertService(ctx, &models.Service{Title: title, BasePrice: 60, Duration: 30}))
	}

	cal := NewSlotCalculator(testClinic(), mem).
		WithClock(fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))
	return NewService(mem, cal, DefaultWorkflow()), mem
}

func validInput() CreateInput {
	return CreateInput{
		Name:    "Mario Rossi",
		Email:   "mario@example.com",
		Phone:   "+39 333 1234567",
		Service: "Igiene Dentale",
		Date:    "2025-06-10",
		Time:    "09:00",
		Message: "prima visita",
	}
}

func TestCreateAppointment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	apt, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.False(t, apt.ID.IsZero())
	assert.Equal(t, models.StatusPending, apt.Status)
	assert.False(t, apt.CreatedAt.IsZero())

	// Round-trip: fetch by id returns the submitted fields unchanged.
	got, err := svc.Get(ctx, apt.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Mario Rossi", got.Name)
	assert.Equal(t, "mario@example.com", got.Email)
	assert.Equal(t, "+39 333 1234567", got.Phone)
	assert.Equal(t, "Igiene Dentale", got.Service)
	assert.Equal(t, "2025-06-10", got.Date)
	assert.Equal(t, "09:00", got.Time)
	assert.Equal(t, "prima visita", got.Message)

	// The booked slot disappears from availability.
	slots, err := svc.AvailableSlots(ctx, "2025-06-10", "", "")
	require.NoError(t, err)
	assert.NotContains(t, slots, "09:00")
	assert.Len(t, slots, 19)
}

func TestCreateNormalizesLegacyServiceName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	in := validInput()
	in.Service = "Teeth Whitening"
	apt, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Sbiancamento", apt.Service)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	cases := []struct {
		name   string
		mutate func(*CreateInput)
		field  string
	}{
		{"missing name", func(in *CreateInput) { in.Name = "  " }, "name"},
		{"missing email", func(in *CreateInput) { in.Email = "" }, "email"},
		{"missing phone", func(in *CreateInput) { in.Phone = "" }, "phone"},
		{"missing service", func(in *CreateInput) { in.Service = "" }, "service"},
		{"unknown service", func(in *CreateInput) { in.Service = "NotARealService" }, "service"},
		{"bad date", func(in *CreateInput) { in.Date = "10-06-2025" }, "date"},
		{"missing date", func(in *CreateInput) { in.Date = "" }, "date"},
		{"bad time", func(in *CreateInput) { in.Time = "9am" }, "time"},
		{"missing time", func(in *CreateInput) { in.Time = "" }, "time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(ctx, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestCreateSlotConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Lucia Bianchi"
	in.Email = "lucia@example.com"
	_, err = svc.Create(ctx, in)
	var cerr *SlotConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "09:00", cerr.Time)
}

func TestCreateOutsideClinicHoursConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	in := validInput()
	in.Time = "20:00"
	_, err := svc.Create(ctx, in)
	var cerr *SlotConflictError
	assert.ErrorAs(t, err, &cerr)
}

func TestCreateRace(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	const attempts = 10
	var wg sync.WaitGroup
	wg.Add(attempts)
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, validInput())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var cerr *SlotConflictError
		require.ErrorAs(t, err, &cerr)
		conflicts++
	}
	assert.Equal(t, 1, successes, "exactly one booking wins the slot")
	assert.Equal(t, attempts-1, conflicts)
}

func TestUpdateKeepsOwnSlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	apt, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	// Editing while keeping date and time must not conflict with itself.
	sameTime := apt.Time
	msg := "arriverò in ritardo"
	updated, err := svc.Update(ctx, apt.ID.Hex(), UpdateInput{Time: &sameTime, Message: &msg})
	require.NoError(t, err)
	assert.Equal(t, "09:00", updated.Time)
	assert.Equal(t, msg, updated.Message)
}

func TestUpdateMovesToFreeSlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	apt, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	newTime := "10:00"
	updated, err := svc.Update(ctx, apt.ID.Hex(), UpdateInput{Time: &newTime})
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.Time)

	slots, err := svc.AvailableSlots(ctx, "2025-06-10", "", "")
	require.NoError(t, err)
	assert.Contains(t, slots, "09:00", "old slot is free again")
	assert.NotContains(t, slots, "10:00")
}

func TestUpdateConflictsOnOccupiedSlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Email = "lucia@example.com"
	in.Time = "09:30"
	second, err := svc.Create(ctx, in)
	require.NoError(t, err)

	target := first.Time
	_, err = svc.Update(ctx, second.ID.Hex(), UpdateInput{Time: &target})
	var cerr *SlotConflictError
	assert.ErrorAs(t, err, &cerr)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	msg := "x"
	_, err := svc.Update(context.Background(), "64b000000000000000000000", UpdateInput{Message: &msg})
	var nerr *NotFoundError
	assert.ErrorAs(t, err, &nerr)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	apt, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	confirmed, err := svc.UpdateStatus(ctx, apt.ID.Hex(), models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)

	completed, err := svc.UpdateStatus(ctx, apt.ID.Hex(), models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	// Completed is terminal.
	_, err = svc.UpdateStatus(ctx, apt.ID.Hex(), models.StatusPending)
	var terr *InvalidTransitionError
	require.ErrorAs(t, err, &terr)

	// Record untouched by the rejected transition.
	got, err := svc.Get(ctx, apt.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), "whatever", models.Status("Scheduled"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestCancellationFreesSlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	apt, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, apt.ID.Hex(), models.StatusCancelled)
	require.NoError(t, err)

	slots, err := svc.AvailableSlots(ctx, "2025-06-10", "", "")
	require.NoError(t, err)
	assert.Contains(t, slots, "09:00")

	// And the slot can be booked again.
	in := validInput()
	in.Email = "lucia@example.com"
	_, err = svc.Create(ctx, in)
	assert.NoError(t, err)
}

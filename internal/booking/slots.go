package booking

import (
	"context"
	"time"

	"github.com/linarifux/dentista-api/internal/config"
	"github.com/linarifux/dentista-api/internal/store"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// SlotCalculator computes the bookable "HH:MM" starts for a day. The result
// depends on the wall clock for the current day, so it is recomputed on
// every call rather than cached.
type SlotCalculator struct {
	clinic *config.ClinicConfig
	store  store.AppointmentStore
	now    func() time.Time
}

func NewSlotCalculator(clinic *config.ClinicConfig, st store.AppointmentStore) *SlotCalculator {
	return &SlotCalculator{clinic: clinic, store: st, now: time.Now}
}

// WithClock overrides the wall clock, for tests.
func (c *SlotCalculator) WithClock(now func() time.Time) *SlotCalculator {
	c.now = now
	return c
}

// Available returns the open slot starts for date and doctor, ascending.
// Slots held by non-cancelled appointments are excluded, except the one held
// by exemptID so an edit can keep its original time. Past times on the
// current day never appear; a closed day returns an empty list.
func (c *SlotCalculator) Available(ctx context.Context, date, doctor, exemptID string) ([]string, error) {
	loc := c.clinic.Location()

	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: "must be a YYYY-MM-DD calendar date"}
	}

	window, open := c.clinic.Window(day.Weekday())
	if !open {
		return []string{}, nil
	}

	windowStart := atTime(day, window.Open, loc)
	windowEnd := atTime(day, window.Close, loc)
	step := time.Duration(c.clinic.SlotMinutes) * time.Minute

	bookedTimes, err := c.store.BookedTimes(ctx, date, doctor, exemptID)
	if err != nil {
		return nil, err
	}
	booked := make(map[string]bool, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t] = true
	}

	now := c.now().In(loc)
	slots := make([]string, 0)
	for t := windowStart; !t.Add(step).After(windowEnd); t = t.Add(step) {
		if t.Before(now) {
			continue
		}
		hm := t.Format(timeLayout)
		if booked[hm] {
			continue
		}
		slots = append(slots, hm)
	}
	return slots, nil
}

// atTime places an "HH:MM" string on the given day in loc.
func atTime(day time.Time, hm string, loc *time.Location) time.Time {
	t, _ := time.Parse(timeLayout, hm)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

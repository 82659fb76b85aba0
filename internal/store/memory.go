package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linarifux/dentista-api/internal/models"
)

// Memory is an in-process Store with the same uniqueness semantics as the
// Mongo implementation. Used by tests and local development without a
// database.
type Memory struct {
	mu           sync.Mutex
	appointments map[string]models.Appointment
	services     map[string]models.Service
	users        map[string]models.User
}

func NewMemory() *Memory {
	return &Memory{
		appointments: make(map[string]models.Appointment),
		services:     make(map[string]models.Service),
		users:        make(map[string]models.User),
	}
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

// slotHeld reports whether a non-cancelled appointment other than exemptID
// occupies the slot. Caller must hold m.mu.
func (m *Memory) slotHeld(key, exemptID string) bool {
	for id, a := range m.appointments {
		if id == exemptID {
			continue
		}
		if a.Occupied() && a.SlotKey() == key {
			return true
		}
	}
	return false
}

func (m *Memory) InsertAppointment(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.Occupied() && m.slotHeld(a.SlotKey(), "") {
		return ErrSlotTaken
	}

	now := time.Now().UTC()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	m.appointments[a.ID.Hex()] = *a
	return nil
}

func (m *Memory) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.Service = models.NormalizeServiceTitle(a.Service)
	return &a, nil
}

func (m *Memory) UpdateAppointment(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := a.ID.Hex()
	if _, ok := m.appointments[id]; !ok {
		return ErrNotFound
	}
	if a.Occupied() && m.slotHeld(a.SlotKey(), id) {
		return ErrSlotTaken
	}
	a.UpdatedAt = time.Now().UTC()
	m.appointments[id] = *a
	return nil
}

func (m *Memory) ListAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := strings.ToLower(f.Query)
	out := make([]models.Appointment, 0)
	for _, a := range m.appointments {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Date != "" && a.Date != f.Date {
			continue
		}
		if q != "" {
			haystack := strings.ToLower(a.Name + " " + a.Email + " " + a.Phone)
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		a.Service = models.NormalizeServiceTitle(a.Service)
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (m *Memory) BookedTimes(ctx context.Context, date, doctor, exemptID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	times := make([]string, 0)
	for id, a := range m.appointments {
		if id == exemptID {
			continue
		}
		if a.Occupied() && a.Date == date && a.Doctor == doctor {
			times = append(times, a.Time)
		}
	}
	sort.Strings(times)
	return times, nil
}

func (m *Memory) AggregatePatients(ctx context.Context) ([]models.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ordered := make([]models.Appointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		ordered = append(ordered, a)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	grouped := make(map[string]*models.Patient)
	for _, a := range ordered {
		key := strings.ToLower(a.Email)
		p, ok := grouped[key]
		if !ok {
			p = &models.Patient{Email: key, Name: a.Name, Phone: a.Phone}
			grouped[key] = p
		}
		if a.Date > p.LastVisit {
			p.LastVisit = a.Date
		}
		p.Visits++
	}

	patients := make([]models.Patient, 0, len(grouped))
	for _, p := range grouped {
		patients = append(patients, *p)
	}
	sort.Slice(patients, func(i, j int) bool {
		return patients[i].LastVisit > patients[j].LastVisit
	})
	return patients, nil
}

func (m *Memory) ListServices(ctx context.Context) ([]models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	services := make([]models.Service, 0, len(m.services))
	for _, s := range m.services {
		services = append(services, s)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Title < services[j].Title })
	return services, nil
}

func (m *Memory) InsertService(ctx context.Context, s *models.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	m.services[s.ID.Hex()] = *s
	return nil
}

func (m *Memory) DeleteService(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.services[id]; !ok {
		return ErrNotFound
	}
	delete(m.services, id)
	return nil
}

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) InsertUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID.Hex()] = *u
	return nil
}

func (m *Memory) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName < users[j].FullName })
	return users, nil
}

func (m *Memory) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

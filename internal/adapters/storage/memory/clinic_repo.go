package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-adoption-network/internal/domain/clinic"
)

type clinicRepo struct {
	mu            sync.RWMutex
	appointments  map[string]clinic.Appointment
	practitioners map[string]clinic.Practitioner
}

func NewClinicRepo() clinic.Repository {
	return &clinicRepo{
		appointments:  make(map[string]clinic.Appointment),
		practitioners: make(map[string]clinic.Practitioner),
	}
}

// CreateAppointment verifica el no-solapamiento y escribe bajo el mismo
// lock: este es el punto de serialización del invariante.
func (r *clinicRepo) CreateAppointment(ctx context.Context, a clinic.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("appointment id required")
	}
	if _, exists := r.appointments[a.ID]; exists {
		return errors.New("appointment already exists")
	}
	for _, existing := range r.appointments {
		if clinic.ConflictsWith(existing, a) {
			return clinic.ErrConflict
		}
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *clinicRepo) GetAppointment(ctx context.Context, id string) (clinic.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return clinic.Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *clinicRepo) GetByIdempotencyKey(ctx context.Context, key string) (clinic.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if key == "" {
		return clinic.Appointment{}, ErrNotFound
	}
	for _, a := range r.appointments {
		if a.IdempotencyKey == key {
			return a, nil
		}
	}
	return clinic.Appointment{}, ErrNotFound
}

func (r *clinicRepo) UpdateAppointment(ctx context.Context, a clinic.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.appointments[a.ID]; !exists {
		return ErrNotFound
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *clinicRepo) ListByPractitionerAndDay(ctx context.Context, practitionerID string, day time.Time) ([]clinic.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	y, m, d := day.Date()
	out := make([]clinic.Appointment, 0)
	for _, a := range r.appointments {
		if a.PractitionerID != practitionerID {
			continue
		}
		ay, am, ad := a.Start.Date()
		if ay == y && am == m && ad == d {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

func (r *clinicRepo) CountBlocking(ctx context.Context, practitionerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, a := range r.appointments {
		if a.PractitionerID == practitionerID && a.Status.Blocks() {
			count++
		}
	}
	return count, nil
}

func (r *clinicRepo) UpsertPractitioner(ctx context.Context, p clinic.Practitioner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("practitioner id required")
	}
	r.practitioners[p.ID] = p
	return nil
}

func (r *clinicRepo) GetPractitioner(ctx context.Context, id string) (clinic.Practitioner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.practitioners[id]
	if !ok {
		return clinic.Practitioner{}, ErrNotFound
	}
	return p, nil
}

func (r *clinicRepo) ListActivePractitioners(ctx context.Context) ([]clinic.Practitioner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]clinic.Practitioner, 0)
	for _, p := range r.practitioners {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

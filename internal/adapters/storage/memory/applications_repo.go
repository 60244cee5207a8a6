package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-adoption-network/internal/domain/applications"
)

type applicationsRepo struct {
	mu   sync.RWMutex
	byID map[string]applications.Application
}

func NewApplicationsRepo() applications.Repository {
	return &applicationsRepo{
		byID: make(map[string]applications.Application),
	}
}

func (r *applicationsRepo) Create(ctx context.Context, app applications.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(app.ID) == "" {
		return errors.New("application id required")
	}
	if _, exists := r.byID[app.ID]; exists {
		return errors.New("application already exists")
	}
	r.byID[app.ID] = app
	return nil
}

func (r *applicationsRepo) GetByID(ctx context.Context, id string) (applications.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.byID[id]
	if !ok {
		return applications.Application{}, ErrNotFound
	}
	return app, nil
}

func (r *applicationsRepo) List(ctx context.Context, f applications.Filter) ([]applications.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]applications.Application, 0)
	for _, app := range r.byID {
		if f.Status != "" && app.Status != f.Status {
			continue
		}
		if f.ApplicantID != "" && app.Applicant.UserID != f.ApplicantID {
			continue
		}
		if f.AnimalID != "" && app.Animal.AnimalID != f.AnimalID {
			continue
		}
		out = append(out, app)
	}

	// Más recientes primero.
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})

	return out, nil
}

func (r *applicationsRepo) UpdateStatus(ctx context.Context, id string, from, to applications.Status) (applications.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.byID[id]
	if !ok {
		return applications.Application{}, ErrNotFound
	}
	// Compare-and-swap: la transición solo vale desde el estado esperado.
	if app.Status != from {
		return applications.Application{}, errors.New("application status changed")
	}
	app.Status = to
	app.UpdatedAt = time.Now().UTC()
	r.byID[id] = app
	return app, nil
}

package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-adoption-network/internal/domain/checkups"
)

type checkupsRepo struct {
	mu   sync.RWMutex
	byID map[string]checkups.Checkup
}

func NewCheckupsRepo() checkups.Repository {
	return &checkupsRepo{
		byID: make(map[string]checkups.Checkup),
	}
}

func (r *checkupsRepo) Create(ctx context.Context, c checkups.Checkup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("checkup id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("checkup already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *checkupsRepo) GetByID(ctx context.Context, id string) (checkups.Checkup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return checkups.Checkup{}, ErrNotFound
	}
	return c, nil
}

func (r *checkupsRepo) GetByApplicationID(ctx context.Context, applicationID string) (checkups.Checkup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if c.ApplicationID == applicationID {
			return c, nil
		}
	}
	return checkups.Checkup{}, ErrNotFound
}

func (r *checkupsRepo) List(ctx context.Context) ([]checkups.Checkup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]checkups.Checkup, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r *checkupsRepo) UpdateStatus(ctx context.Context, id string, status checkups.Status) (checkups.Checkup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return checkups.Checkup{}, ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	r.byID[id] = c
	return c, nil
}

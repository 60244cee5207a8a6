package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-adoption-network/internal/domain/inventory"
)

var (
	ErrNotFound = errors.New("not found")
)

type inventoryRepo struct {
	mu       sync.RWMutex
	byID     map[string]inventory.Animal
	images   map[string][]inventory.AnimalImage
	activity []inventory.ActivityLogEntry
}

func NewInventoryRepo() inventory.Repository {
	return &inventoryRepo{
		byID:   make(map[string]inventory.Animal),
		images: make(map[string][]inventory.AnimalImage),
	}
}

func (r *inventoryRepo) CreateAnimal(ctx context.Context, a inventory.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *inventoryRepo) GetAnimal(ctx context.Context, id string) (inventory.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return inventory.Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *inventoryRepo) ListAnimals(ctx context.Context, f inventory.Filter) ([]inventory.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inventory.Animal, 0)
	for _, a := range r.byID {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Species != "" && a.Species != f.Species {
			continue
		}
		if f.Breed != "" && !strings.EqualFold(a.Breed, f.Breed) {
			continue
		}
		out = append(out, a)
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *inventoryRepo) SearchByName(ctx context.Context, name string) ([]inventory.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(name))
	out := make([]inventory.Animal, 0)
	for _, a := range r.byID {
		if strings.Contains(strings.ToLower(a.Name), needle) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// UpdateStatus hace el read-check-write bajo el lock de escritura: es el
// punto de serialización del invariante de transiciones.
func (r *inventoryRepo) UpdateStatus(ctx context.Context, id string, status inventory.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	r.byID[id] = a
	return nil
}

func (r *inventoryRepo) AddImage(ctx context.Context, img inventory.AnimalImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[img.AnimalID]; !ok {
		return ErrNotFound
	}
	// Una sola imagen primaria por animal.
	if img.IsPrimary {
		imgs := r.images[img.AnimalID]
		for i := range imgs {
			imgs[i].IsPrimary = false
		}
		r.images[img.AnimalID] = imgs
	}
	r.images[img.AnimalID] = append(r.images[img.AnimalID], img)
	return nil
}

func (r *inventoryRepo) ListImages(ctx context.Context, animalID string) ([]inventory.AnimalImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	imgs := r.images[animalID]
	out := make([]inventory.AnimalImage, len(imgs))
	copy(out, imgs)
	return out, nil
}

func (r *inventoryRepo) AppendActivity(ctx context.Context, e inventory.ActivityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activity = append(r.activity, e)
	return nil
}

func (r *inventoryRepo) ListActivity(ctx context.Context, animalID string) ([]inventory.ActivityLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inventory.ActivityLogEntry, 0)
	for _, e := range r.activity {
		if e.AnimalID == animalID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (r *inventoryRepo) ListRecentActivity(ctx context.Context, limit int) ([]inventory.ActivityLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inventory.ActivityLogEntry, len(r.activity))
	copy(out, r.activity)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *inventoryRepo) Stats(ctx context.Context) (inventory.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var st inventory.Stats
	for _, a := range r.byID {
		st.Total++
		switch a.Status {
		case inventory.StatusAvailable:
			st.Available++
		case inventory.StatusPending:
			st.Pending++
		case inventory.StatusAdopted:
			st.Adopted++
		}
		switch a.Species {
		case inventory.SpeciesDog:
			st.Dogs++
		case inventory.SpeciesCat:
			st.Cats++
		}
	}
	return st, nil
}

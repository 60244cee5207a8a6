package inventory

import "context"

// Filter acota listados de animales. Campos vacíos no filtran.
type Filter struct {
	Status  Status
	Species Species
	Breed   string
}

type Repository interface {
	CreateAnimal(ctx context.Context, a Animal) error
	GetAnimal(ctx context.Context, id string) (Animal, error)
	ListAnimals(ctx context.Context, f Filter) ([]Animal, error)
	SearchByName(ctx context.Context, name string) ([]Animal, error)

	// UpdateStatus debe ser atómico a nivel registro: es el único punto de
	// serialización entre el workflow remoto y lecturas concurrentes.
	UpdateStatus(ctx context.Context, id string, status Status) error

	AddImage(ctx context.Context, img AnimalImage) error
	ListImages(ctx context.Context, animalID string) ([]AnimalImage, error)

	AppendActivity(ctx context.Context, e ActivityLogEntry) error
	ListActivity(ctx context.Context, animalID string) ([]ActivityLogEntry, error)
	ListRecentActivity(ctx context.Context, limit int) ([]ActivityLogEntry, error)

	Stats(ctx context.Context) (Stats, error)
}

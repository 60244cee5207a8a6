package applications

import "context"

// Filter acota los listados de solicitudes.
type Filter struct {
	Status      Status
	ApplicantID string
	AnimalID    string
}

// Repository define el acceso a datos de solicitudes de adopción.
type Repository interface {
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	List(ctx context.Context, f Filter) ([]Application, error)
	// UpdateStatus persiste la transición from→to en un solo paso. Falla
	// si la solicitud no existe o si su estado actual ya no es from.
	UpdateStatus(ctx context.Context, id string, from, to Status) (Application, error)
}

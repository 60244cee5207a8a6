package checkups

import "context"

// Repository define el acceso a datos del espejo de turnos.
type Repository interface {
	Create(ctx context.Context, c Checkup) error
	GetByID(ctx context.Context, id string) (Checkup, error)
	GetByApplicationID(ctx context.Context, applicationID string) (Checkup, error)
	List(ctx context.Context) ([]Checkup, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Checkup, error)
}

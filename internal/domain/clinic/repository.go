package clinic

import (
	"context"
	"time"
)

type Repository interface {
	// CreateAppointment debe evaluar el no-solapamiento atómicamente con el
	// insert (read-check-write bajo el punto de serialización del store) y
	// devolver ErrConflict si el horario del practitioner ya está tomado.
	CreateAppointment(ctx context.Context, a Appointment) error

	GetAppointment(ctx context.Context, id string) (Appointment, error)
	GetByIdempotencyKey(ctx context.Context, key string) (Appointment, error)
	UpdateAppointment(ctx context.Context, a Appointment) error
	ListByPractitionerAndDay(ctx context.Context, practitionerID string, day time.Time) ([]Appointment, error)

	// CountBlocking cuenta turnos scheduled/confirmed por practitioner,
	// para la política de asignación least-loaded.
	CountBlocking(ctx context.Context, practitionerID string) (int, error)

	UpsertPractitioner(ctx context.Context, p Practitioner) error
	GetPractitioner(ctx context.Context, id string) (Practitioner, error)
	ListActivePractitioners(ctx context.Context) ([]Practitioner, error)
}

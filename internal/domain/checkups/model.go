package checkups

import "time"

// Status del espejo local. "scheduled" y "cancelled" son los únicos estados
// que el portal gestiona; la clínica es la fuente de verdad del resto.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

// Checkup es el registro local del turno de control post-adopción. Es un
// espejo, no el turno en sí: el turno vive en la clínica y puede divergir
// de este registro si la clínica no está alcanzable al cancelar.
type Checkup struct {
	ID                  string
	ApplicationID       string
	RemoteAppointmentID string

	Date   time.Time
	Pet    string
	Vet    string
	Reason string

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

package clinic

import "time"

// AppointmentStatus define el ciclo de vida de un turno.
// @Enum scheduled, confirmed, in_progress, completed, cancelled, no_show
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// Blocks indica si el status reserva el horario del profesional.
// Solo scheduled y confirmed cuentan para el invariante de no-solapamiento.
func (s AppointmentStatus) Blocks() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// Practitioner es un profesional veterinario. El roster se siembra desde
// configuración explícita, no hay bootstrap implícito.
type Practitioner struct {
	ID             string
	Name           string
	Email          string
	Specialization string
	Active         bool

	// Horario laboral en horas locales [start, end).
	WorkingHoursStart int
	WorkingHoursEnd   int
}

// Appointment referencia al animal por nombre/especie denormalizados, sin FK:
// puede crearse para un animal que no existe en ningún inventario.
type Appointment struct {
	ID             string
	PetName        string
	Species        string
	Breed          string
	OwnerName      string
	OwnerEmail     string
	OwnerPhone     string
	PractitionerID string

	Start           time.Time
	DurationMinutes int
	Reason          string
	Status          AppointmentStatus
	Notes           string

	// Handle opcional de calendario externo; vacío si no se sincronizó.
	CalendarEventID string

	// Clave de deduplicación provista por el caller; vacía si no vino.
	IdempotencyKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// End es el fin del intervalo [Start, Start+Duration).
func (a Appointment) End() time.Time {
	return a.Start.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

package gateway

import (
	"context"
	"time"
)

// AppointmentRequest es el cuerpo que entiende la clínica veterinaria.
// IdempotencyKey permite reintentar sin crear turnos duplicados; la clínica
// deduplica sobre esa clave.
type AppointmentRequest struct {
	PetName         string    `json:"pet_name"`
	OwnerName       string    `json:"owner_name"`
	OwnerEmail      string    `json:"owner_email"`
	OwnerPhone      string    `json:"owner_phone"`
	Reason          string    `json:"reason"`
	PreferredDate   time.Time `json:"preferred_date"`
	Species         string    `json:"species"`
	Breed           string    `json:"breed"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes,omitempty"`
	IdempotencyKey  string    `json:"idempotency_key,omitempty"`
}

type AppointmentDetails struct {
	Date   time.Time `json:"date"`
	Pet    string    `json:"pet"`
	Vet    string    `json:"vet"`
	Reason string    `json:"reason"`
	Status string    `json:"status"`
}

type AppointmentConfirmation struct {
	Success       bool               `json:"success"`
	AppointmentID string             `json:"appointment_id"`
	Message       string             `json:"message"`
	Details       AppointmentDetails `json:"appointment_details"`
}

// SchedulingGateway es el contrato del portal hacia la clínica.
type SchedulingGateway interface {
	CreateAppointment(ctx context.Context, req AppointmentRequest) (AppointmentConfirmation, error)
	CancelAppointment(ctx context.Context, appointmentID string) error
}

package checkups

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pet-adoption-network/internal/platform/logger"
	"pet-adoption-network/internal/ports/gateway"
)

var (
	ErrNotFound     = errors.New("checkup not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Service gestiona el espejo local de turnos post-adopción.
// Regla de cancelación: el registro local pasa a cancelled SIEMPRE; la
// cancelación remota es mejor esfuerzo y su falla se reporta como warning,
// nunca como error.
type Service struct {
	repo   Repository
	clinic gateway.SchedulingGateway
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, clinic gateway.SchedulingGateway, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, clinic: clinic, log: log, now: time.Now}
}

// RecordScheduled implementa applications.CheckupRecorder.
func (s *Service) RecordScheduled(ctx context.Context, applicationID, remoteAppointmentID string, details gateway.AppointmentDetails) error {
	now := s.now().UTC()
	c := Checkup{
		ID:                  uuid.NewString(),
		ApplicationID:       applicationID,
		RemoteAppointmentID: remoteAppointmentID,
		Date:                details.Date,
		Pet:                 details.Pet,
		Vet:                 details.Vet,
		Reason:              details.Reason,
		Status:              StatusScheduled,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("recording checkup: %w", err)
	}
	return nil
}

// ScheduleInput es el pedido manual de un turno (fuera del flujo de
// aprobación). El dueño sale de la identidad del request.
type ScheduleInput struct {
	Pet     string
	Species string
	Breed   string

	OwnerName  string
	OwnerEmail string
	OwnerPhone string

	Reason          string
	PreferredDate   time.Time
	DurationMinutes int
	Notes           string
}

// Schedule pide el turno a la clínica y, si lo confirma, crea el espejo.
// A diferencia del flujo de aprobación acá no hay commit local sin turno
// remoto: si la clínica falla, la operación falla con el error del gateway.
func (s *Service) Schedule(ctx context.Context, in ScheduleInput) (Checkup, error) {
	switch {
	case in.Pet == "":
		return Checkup{}, fmt.Errorf("%w: pet_name is required", ErrInvalidInput)
	case in.OwnerName == "":
		return Checkup{}, fmt.Errorf("%w: owner_name is required", ErrInvalidInput)
	case in.Reason == "":
		return Checkup{}, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	case in.PreferredDate.IsZero():
		return Checkup{}, fmt.Errorf("%w: preferred_date is required", ErrInvalidInput)
	}

	conf, err := s.clinic.CreateAppointment(ctx, gateway.AppointmentRequest{
		PetName:         in.Pet,
		Species:         in.Species,
		Breed:           in.Breed,
		OwnerName:       in.OwnerName,
		OwnerEmail:      in.OwnerEmail,
		OwnerPhone:      in.OwnerPhone,
		Reason:          in.Reason,
		PreferredDate:   in.PreferredDate,
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
	})
	if err != nil {
		s.log.Warn("manual scheduling failed", map[string]any{
			"pet":     in.Pet,
			"outcome": gateway.Outcome(err),
		})
		return Checkup{}, err
	}

	now := s.now().UTC()
	c := Checkup{
		ID:                  uuid.NewString(),
		RemoteAppointmentID: conf.AppointmentID,
		Date:                conf.Details.Date,
		Pet:                 conf.Details.Pet,
		Vet:                 conf.Details.Vet,
		Reason:              conf.Details.Reason,
		Status:              StatusScheduled,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Checkup{}, fmt.Errorf("recording checkup: %w", err)
	}
	return c, nil
}

// Cancel cancela el espejo local y avisa a la clínica. Si la clínica falla,
// el registro local queda cancelled igual y se devuelve el warning.
func (s *Service) Cancel(ctx context.Context, id string) (Checkup, []string, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Checkup{}, nil, ErrNotFound
	}
	if c.Status == StatusCancelled {
		// Cancelar dos veces es un no-op.
		return c, nil, nil
	}

	c, err = s.repo.UpdateStatus(ctx, id, StatusCancelled)
	if err != nil {
		return Checkup{}, nil, fmt.Errorf("cancelling checkup: %w", err)
	}

	var warnings []string
	if err := s.clinic.CancelAppointment(ctx, c.RemoteAppointmentID); err != nil {
		warnings = append(warnings, "the clinic could not be reached; the appointment may still be active there")
		s.log.Warn("remote cancel failed", map[string]any{
			"checkup_id":     c.ID,
			"appointment_id": c.RemoteAppointmentID,
			"outcome":        gateway.Outcome(err),
		})
	}
	return c, warnings, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Checkup, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Checkup{}, ErrNotFound
	}
	return c, nil
}

func (s *Service) GetByApplication(ctx context.Context, applicationID string) (Checkup, error) {
	c, err := s.repo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return Checkup{}, ErrNotFound
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Checkup, error) {
	return s.repo.List(ctx)
}

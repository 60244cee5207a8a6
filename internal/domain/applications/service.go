package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-network/internal/platform/logger"
	"pet-adoption-network/internal/ports/gateway"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("application not found")
	// ErrInvalidState: la solicitud ya no está pending; las decisiones sobre
	// estados terminales son no-ops rechazados, nunca re-ejecuciones.
	ErrInvalidState = errors.New("application is not pending")
	// ErrDuplicate: ya existe una solicitud pendiente del mismo aplicante
	// por el mismo animal.
	ErrDuplicate = errors.New("pending application already exists for this animal")
	// ErrUnknownDecision cubre cualquier valor fuera de {approved, rejected}.
	ErrUnknownDecision = errors.New("unknown decision")
	// ErrAnimalNotFound: el shelter respondió que el animal no existe.
	// Es error de validación del submit, no una falla de red.
	ErrAnimalNotFound = errors.New("animal not found in shelter")
	// ErrAnimalUnavailable: el animal existe pero ya no está adoptable.
	ErrAnimalUnavailable = errors.New("animal is not available for adoption")
)

// CheckupRecorder registra el espejo local del turno de control post-adopción.
// Lo implementa el módulo de checkups; la interface vive acá para que la
// dependencia apunte hacia el workflow y no al revés.
type CheckupRecorder interface {
	RecordScheduled(ctx context.Context, applicationID, remoteAppointmentID string, details gateway.AppointmentDetails) error
}

// SubmitInput agrupa lo que llega del formulario de adopción.
type SubmitInput struct {
	Applicant     Applicant
	AnimalID      string
	AnimalName    string
	AnimalSpecies string
	AnimalBreed   string
	Questionnaire Questionnaire
}

// DecideInput es la orden del revisor.
type DecideInput struct {
	ApplicationID string
	Decision      string
	ReviewerID    string
}

// DecideResult reporta el contrato de éxito parcial: la decisión local
// siempre comprometida, más el destino de cada efecto remoto. Warnings
// acumula lo que falló río abajo sin revertir nada.
type DecideResult struct {
	Application    Application
	RemoteNotified bool
	AppointmentID  string
	Warnings       []string
}

// Service es el motor del workflow de adopción. La regla central: el estado
// local se compromete ANTES de cualquier llamada remota, incondicionalmente.
// No hay retries, no hay rollback; la compensación es avisar, no deshacer.
type Service struct {
	repo      Repository
	inventory gateway.InventoryGateway
	clinic    gateway.SchedulingGateway
	checkups  CheckupRecorder
	log       logger.Logger
	now       func() time.Time
}

// NewService arma el servicio. checkups puede ser nil si el portal corre
// sin espejo local de turnos.
func NewService(repo Repository, inv gateway.InventoryGateway, clinic gateway.SchedulingGateway, checkups CheckupRecorder, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		inventory: inv,
		clinic:    clinic,
		checkups:  checkups,
		log:       log,
		now:       time.Now,
	}
}

// Submit valida, deduplica y crea la solicitud en pending. El lookup al
// shelter resuelve el snapshot; si el shelter está caído se usa lo que vino
// en el formulario y se sigue (la adopción no depende de que el shelter
// esté arriba en ese instante). Un 404 del shelter sí aborta: no se aceptan
// solicitudes por animales que no existen.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Application, []string, error) {
	if strings.TrimSpace(in.AnimalID) == "" {
		return Application{}, nil, fmt.Errorf("%w: animal_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Applicant.UserID) == "" {
		return Application{}, nil, fmt.Errorf("%w: applicant is required", ErrInvalidInput)
	}
	for field, value := range in.Questionnaire.requiredFields() {
		if strings.TrimSpace(value) == "" {
			return Application{}, nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
	}

	// Unicidad: una solicitud pending por par (applicant, animal). Las
	// rechazadas o completadas no bloquean un nuevo intento.
	pending, err := s.repo.List(ctx, Filter{
		Status:      StatusPending,
		ApplicantID: in.Applicant.UserID,
		AnimalID:    in.AnimalID,
	})
	if err != nil {
		return Application{}, nil, fmt.Errorf("checking for pending applications: %w", err)
	}
	if len(pending) > 0 {
		return Application{}, nil, ErrDuplicate
	}

	var warnings []string
	snapshot := AnimalSnapshot{
		AnimalID: in.AnimalID,
		Name:     in.AnimalName,
		Species:  in.AnimalSpecies,
		Breed:    in.AnimalBreed,
	}
	remote, err := s.inventory.GetAnimal(ctx, in.AnimalID)
	switch {
	case err == nil:
		if remote.Status != "available" {
			return Application{}, nil, ErrAnimalUnavailable
		}
		snapshot.Name = remote.Name
		snapshot.Species = remote.Species
		snapshot.Breed = remote.Breed
	default:
		if re, ok := gateway.AsRemoteError(err); ok && re.StatusCode == 404 {
			return Application{}, nil, ErrAnimalNotFound
		}
		// Shelter inalcanzable: se acepta el submit con el snapshot del
		// formulario y se deja constancia.
		warnings = append(warnings, "shelter lookup failed; animal snapshot taken from form data")
		s.log.Warn("shelter lookup failed on submit", map[string]any{
			"animal_id": in.AnimalID,
			"outcome":   gateway.Outcome(err),
			"error":     err.Error(),
		})
	}

	now := s.now().UTC()
	app := Application{
		ID:            uuid.NewString(),
		Applicant:     in.Applicant,
		Animal:        snapshot,
		Questionnaire: in.Questionnaire,
		Status:        StatusPending,
		SubmittedAt:   now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return Application{}, nil, fmt.Errorf("creating application: %w", err)
	}

	// Aviso informativo al shelter; su falla no afecta la solicitud.
	if err := s.inventory.NotifyApplicationReceived(ctx, gateway.ApplicationNotice{
		AnimalID:       app.Animal.AnimalID,
		PetName:        app.Animal.Name,
		ApplicantName:  app.Applicant.Name,
		ApplicantEmail: app.Applicant.Email,
	}); err != nil {
		warnings = append(warnings, "shelter was not notified of the new application")
		s.log.Warn("application notice failed", map[string]any{
			"application_id": app.ID,
			"outcome":        gateway.Outcome(err),
		})
	}

	s.log.Info("application submitted", map[string]any{
		"application_id": app.ID,
		"animal_id":      app.Animal.AnimalID,
		"applicant_id":   app.Applicant.UserID,
	})
	return app, warnings, nil
}

// Decide ejecuta la decisión del revisor. Orden estricto:
//
//  1. commit local del nuevo estado (incondicional),
//  2. notificación al shelter (mejor esfuerzo),
//  3. si aprobada, alta del turno de control en la clínica (mejor esfuerzo).
//
// Una falla remota NUNCA revierte el paso 1 ni corta los pasos siguientes.
func (s *Service) Decide(ctx context.Context, in DecideInput) (DecideResult, error) {
	app, err := s.repo.GetByID(ctx, in.ApplicationID)
	if err != nil {
		return DecideResult{}, ErrNotFound
	}
	if app.Status != StatusPending {
		return DecideResult{}, fmt.Errorf("%w: current status is %q", ErrInvalidState, app.Status)
	}

	var target Status
	switch in.Decision {
	case "approved":
		target = StatusApproved
	case "rejected":
		target = StatusRejected
	default:
		return DecideResult{}, fmt.Errorf("%w: %q", ErrUnknownDecision, in.Decision)
	}

	app, err = s.repo.UpdateStatus(ctx, app.ID, StatusPending, target)
	if err != nil {
		// Otra decisión pudo ganar la carrera entre la lectura y el commit.
		if cur, gerr := s.repo.GetByID(ctx, in.ApplicationID); gerr == nil && cur.Status != StatusPending {
			return DecideResult{}, fmt.Errorf("%w: current status is %q", ErrInvalidState, cur.Status)
		}
		return DecideResult{}, fmt.Errorf("updating application status: %w", err)
	}
	result := DecideResult{Application: app}

	ack, err := s.inventory.NotifyDecision(ctx, gateway.DecisionNotice{
		AnimalID:      app.Animal.AnimalID,
		Decision:      in.Decision,
		ApplicationID: app.ID,
		ApplicantName: app.Applicant.Name,
		PetName:       app.Animal.Name,
	})
	if err != nil {
		result.Warnings = append(result.Warnings, "shelter was not notified of the decision; animal status may be out of date")
		s.log.Warn("decision notice failed", map[string]any{
			"application_id": app.ID,
			"decision":       in.Decision,
			"outcome":        gateway.Outcome(err),
			"error":          err.Error(),
		})
	} else {
		result.RemoteNotified = true
		s.log.Info("shelter acknowledged decision", map[string]any{
			"application_id": app.ID,
			"message":        ack.Message,
		})
	}

	if target == StatusApproved {
		s.provisionCheckup(ctx, app, &result)
	}

	s.log.Info("application decided", map[string]any{
		"application_id":  app.ID,
		"decision":        in.Decision,
		"reviewer_id":     in.ReviewerID,
		"remote_notified": result.RemoteNotified,
		"warnings":        len(result.Warnings),
	})
	return result, nil
}

// provisionCheckup agenda el control post-adopción: tres días después de la
// decisión, a las 10:00, 30 minutos. La clave de idempotencia ata el turno a
// la solicitud, así un reintento manual no duplica el turno.
func (s *Service) provisionCheckup(ctx context.Context, app Application, result *DecideResult) {
	day := s.now().UTC().AddDate(0, 0, 3)
	preferred := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)

	conf, err := s.clinic.CreateAppointment(ctx, gateway.AppointmentRequest{
		PetName:         app.Animal.Name,
		OwnerName:       app.Applicant.Name,
		OwnerEmail:      app.Applicant.Email,
		OwnerPhone:      app.Applicant.Phone,
		Reason:          "Post-adoption health checkup",
		PreferredDate:   preferred,
		Species:         app.Animal.Species,
		Breed:           app.Animal.Breed,
		DurationMinutes: 30,
		Notes:           fmt.Sprintf("Scheduled automatically after adoption approval (application %s)", app.ID),
		IdempotencyKey:  "adoption-" + app.ID,
	})
	if err != nil {
		result.Warnings = append(result.Warnings, "post-adoption checkup could not be scheduled; schedule it manually")
		s.log.Warn("checkup scheduling failed", map[string]any{
			"application_id": app.ID,
			"outcome":        gateway.Outcome(err),
			"error":          err.Error(),
		})
		return
	}

	result.AppointmentID = conf.AppointmentID
	if s.checkups != nil {
		if err := s.checkups.RecordScheduled(ctx, app.ID, conf.AppointmentID, conf.Details); err != nil {
			result.Warnings = append(result.Warnings, "checkup was scheduled but the local record could not be saved")
			s.log.Warn("checkup mirror write failed", map[string]any{
				"application_id": app.ID,
				"appointment_id": conf.AppointmentID,
				"error":          err.Error(),
			})
		}
	}
	s.log.Info("post-adoption checkup scheduled", map[string]any{
		"application_id": app.ID,
		"appointment_id": conf.AppointmentID,
	})
}

// GetByID devuelve una solicitud puntual.
func (s *Service) GetByID(ctx context.Context, id string) (Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Application{}, ErrNotFound
	}
	return app, nil
}

// List lista solicitudes según filtro.
func (s *Service) List(ctx context.Context, f Filter) ([]Application, error) {
	return s.repo.List(ctx, f)
}

// Complete marca una solicitud aprobada como completada (entrega física
// realizada). Solo approved puede completarse.
func (s *Service) Complete(ctx context.Context, id string) (Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Application{}, ErrNotFound
	}
	if app.Status != StatusApproved {
		return Application{}, fmt.Errorf("%w: current status is %q", ErrInvalidState, app.Status)
	}
	updated, err := s.repo.UpdateStatus(ctx, id, StatusApproved, StatusCompleted)
	if err != nil {
		if cur, gerr := s.repo.GetByID(ctx, id); gerr == nil && cur.Status != StatusApproved {
			return Application{}, fmt.Errorf("%w: current status is %q", ErrInvalidState, cur.Status)
		}
		return Application{}, fmt.Errorf("updating application status: %w", err)
	}
	return updated, nil
}

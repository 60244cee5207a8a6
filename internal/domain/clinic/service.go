package clinic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-network/internal/platform/logger"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("appointment not found")
	ErrConflict       = errors.New("practitioner already has an appointment at the selected time")
	ErrNoPractitioner = errors.New("no active practitioners available")
	ErrOutsideHours   = errors.New("appointment time outside practitioner working hours")
)

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// SeedRoster siembra el roster de profesionales desde configuración.
// Idempotente: upsert por id.
func (s *Service) SeedRoster(ctx context.Context, roster []Practitioner) error {
	for _, p := range roster {
		if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: practitioner requires id and name", ErrInvalidInput)
		}
		if p.WorkingHoursStart == 0 && p.WorkingHoursEnd == 0 {
			p.WorkingHoursStart = 8
			p.WorkingHoursEnd = 20
		}
		if err := s.repo.UpsertPractitioner(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

type ScheduleInput struct {
	PetName    string
	Species    string
	Breed      string
	OwnerName  string
	OwnerEmail string
	OwnerPhone string

	Start           time.Time
	DurationMinutes int
	Reason          string
	Notes           string

	// Opcional: deduplica reintentos del mismo pedido.
	IdempotencyKey string
}

// Schedule crea un turno asignándolo al profesional activo menos cargado
// (conteo de scheduled+confirmed, empate por nombre). Si viene una
// idempotency key ya vista, devuelve el turno original sin crear otro.
func (s *Service) Schedule(ctx context.Context, in ScheduleInput) (Appointment, Practitioner, error) {
	if strings.TrimSpace(in.PetName) == "" ||
		strings.TrimSpace(in.OwnerName) == "" ||
		strings.TrimSpace(in.OwnerEmail) == "" ||
		strings.TrimSpace(in.Reason) == "" {
		return Appointment{}, Practitioner{}, ErrInvalidInput
	}
	if in.Start.IsZero() {
		return Appointment{}, Practitioner{}, ErrInvalidInput
	}
	if in.DurationMinutes <= 0 {
		in.DurationMinutes = 30
	}

	if key := strings.TrimSpace(in.IdempotencyKey); key != "" {
		if existing, err := s.repo.GetByIdempotencyKey(ctx, key); err == nil {
			p, perr := s.repo.GetPractitioner(ctx, existing.PractitionerID)
			if perr != nil {
				p = Practitioner{ID: existing.PractitionerID}
			}
			s.log.Info("appointment replay deduplicated", map[string]any{
				"appointment_id":  existing.ID,
				"idempotency_key": key,
			})
			return existing, p, nil
		}
	}

	practitioner, err := s.pickPractitioner(ctx)
	if err != nil {
		return Appointment{}, Practitioner{}, err
	}

	hour := in.Start.Hour()
	if hour < practitioner.WorkingHoursStart || hour >= practitioner.WorkingHoursEnd {
		return Appointment{}, Practitioner{}, ErrOutsideHours
	}

	now := s.now()
	a := Appointment{
		ID:              uuid.NewString(),
		PetName:         strings.TrimSpace(in.PetName),
		Species:         strings.TrimSpace(in.Species),
		Breed:           strings.TrimSpace(in.Breed),
		OwnerName:       strings.TrimSpace(in.OwnerName),
		OwnerEmail:      strings.TrimSpace(in.OwnerEmail),
		OwnerPhone:      strings.TrimSpace(in.OwnerPhone),
		PractitionerID:  practitioner.ID,
		Start:           in.Start,
		DurationMinutes: in.DurationMinutes,
		Reason:          strings.TrimSpace(in.Reason),
		Status:          StatusScheduled,
		Notes:           strings.TrimSpace(in.Notes),
		IdempotencyKey:  strings.TrimSpace(in.IdempotencyKey),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// El repo evalúa el conflicto junto con el insert, bajo su punto de
	// serialización. Acá no se reintenta con otro horario.
	if err := s.repo.CreateAppointment(ctx, a); err != nil {
		return Appointment{}, Practitioner{}, err
	}

	s.log.Info("appointment scheduled", map[string]any{
		"appointment_id": a.ID,
		"practitioner":   practitioner.Name,
		"start":          a.Start.Format(time.RFC3339),
	})
	return a, practitioner, nil
}

// pickPractitioner: least-loaded entre los activos, empate por nombre.
func (s *Service) pickPractitioner(ctx context.Context) (Practitioner, error) {
	active, err := s.repo.ListActivePractitioners(ctx)
	if err != nil {
		return Practitioner{}, err
	}
	if len(active) == 0 {
		return Practitioner{}, ErrNoPractitioner
	}

	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })

	best := active[0]
	bestLoad := -1
	for _, p := range active {
		load, err := s.repo.CountBlocking(ctx, p.ID)
		if err != nil {
			return Practitioner{}, err
		}
		if bestLoad == -1 || load < bestLoad {
			best = p
			bestLoad = load
		}
	}
	return best, nil
}

// Cancel marca el turno como cancelled. Cancelar un turno ya cancelado es
// idempotente; un turno completado no se puede cancelar.
func (s *Service) Cancel(ctx context.Context, id string) (Appointment, error) {
	a, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status == StatusCancelled {
		return a, nil
	}
	if a.Status == StatusCompleted {
		return Appointment{}, fmt.Errorf("%w: appointment already completed", ErrInvalidInput)
	}
	a.Status = StatusCancelled
	a.UpdatedAt = s.now()
	if err := s.repo.UpdateAppointment(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrNotFound
	}
	return s.repo.GetAppointment(ctx, id)
}

// DaySchedule lista los turnos de un profesional para un día calendario.
func (s *Service) DaySchedule(ctx context.Context, practitionerID string, day time.Time) ([]Appointment, error) {
	if strings.TrimSpace(practitionerID) == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByPractitionerAndDay(ctx, practitionerID, day)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Start.Before(items[j].Start) })
	return items, nil
}

func (s *Service) Practitioners(ctx context.Context) ([]Practitioner, error) {
	return s.repo.ListActivePractitioners(ctx)
}

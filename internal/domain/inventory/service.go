package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-network/internal/platform/logger"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("animal not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownDecision   = errors.New("unknown decision value")
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

type AddAnimalInput struct {
	Name        string
	Species     string
	Breed       string
	Age         int
	Gender      string
	Description string
	EnergyLevel string

	Traits         Traits
	Vaccinated     bool
	SpayedNeutered bool
	Microchipped   bool

	ImageURL     string
	ImageCaption string
}

func (s *Service) AddAnimal(ctx context.Context, actorID string, in AddAnimalInput) (Animal, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Species) == "" {
		return Animal{}, ErrInvalidInput
	}
	if in.Age < 0 {
		return Animal{}, ErrInvalidInput
	}

	now := s.now()
	a := Animal{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(in.Name),
		Species:        Species(strings.TrimSpace(in.Species)),
		Breed:          strings.TrimSpace(in.Breed),
		Age:            in.Age,
		Gender:         strings.TrimSpace(in.Gender),
		Status:         StatusAvailable,
		Description:    strings.TrimSpace(in.Description),
		EnergyLevel:    strings.TrimSpace(in.EnergyLevel),
		Traits:         in.Traits,
		Vaccinated:     in.Vaccinated,
		SpayedNeutered: in.SpayedNeutered,
		Microchipped:   in.Microchipped,
		CreatedBy:      actorID,
		CreatedAt:      now,
	}

	if err := s.repo.CreateAnimal(ctx, a); err != nil {
		return Animal{}, err
	}

	if strings.TrimSpace(in.ImageURL) != "" {
		_ = s.repo.AddImage(ctx, AnimalImage{
			ID:        uuid.NewString(),
			AnimalID:  a.ID,
			URL:       strings.TrimSpace(in.ImageURL),
			Caption:   strings.TrimSpace(in.ImageCaption),
			IsPrimary: true,
			CreatedAt: now,
		})
	}

	s.appendActivity(ctx, ActivityLogEntry{
		ID:          uuid.NewString(),
		AnimalID:    a.ID,
		ActorID:     actorID,
		Action:      ActionAdded,
		Description: "Added new animal to inventory",
		Timestamp:   now,
	})

	return a, nil
}

func (s *Service) GetAnimal(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrNotFound
	}
	return s.repo.GetAnimal(ctx, id)
}

// UpdateStatus valida el invariante de transiciones y deja auditoría.
// Un animal adoptado es inmutable respecto de status.
func (s *Service) UpdateStatus(ctx context.Context, id, actorID string, to Status, note string) (Animal, error) {
	a, err := s.repo.GetAnimal(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if a.Status == to {
		return a, nil
	}
	if !CanTransition(a.Status, to) {
		return Animal{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return Animal{}, err
	}
	a.Status = to

	desc := note
	if desc == "" {
		desc = fmt.Sprintf("Status changed to %s", to)
	}
	s.appendActivity(ctx, ActivityLogEntry{
		ID:          uuid.NewString(),
		AnimalID:    id,
		ActorID:     actorID,
		Action:      ActionStatusUpdate,
		Description: desc,
		Timestamp:   s.now(),
	})

	return a, nil
}

// DecisionInput llega desde el portal cuando un revisor decide una solicitud.
type DecisionInput struct {
	AnimalID      string
	Decision      string
	ApplicationID string
	ApplicantName string
	PetName       string
}

// ApplyDecision es el punto de entrada del workflow cross-service:
// approved => el animal pasa a adopted; rejected => queda como está.
// En ambos casos queda entrada en el activity log.
func (s *Service) ApplyDecision(ctx context.Context, in DecisionInput) (string, error) {
	if strings.TrimSpace(in.AnimalID) == "" || strings.TrimSpace(in.ApplicationID) == "" {
		return "", ErrInvalidInput
	}

	switch in.Decision {
	case "approved":
		a, err := s.repo.GetAnimal(ctx, in.AnimalID)
		if err != nil {
			return "", err
		}
		if a.Status != StatusAdopted {
			if !CanTransition(a.Status, StatusAdopted) {
				return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, StatusAdopted)
			}
			if err := s.repo.UpdateStatus(ctx, in.AnimalID, StatusAdopted); err != nil {
				return "", err
			}
		}
		s.appendActivity(ctx, ActivityLogEntry{
			ID:       uuid.NewString(),
			AnimalID: in.AnimalID,
			ActorID:  "portal",
			Action:   ActionAdopted,
			Description: fmt.Sprintf("Pet %s adopted by %s via application %s",
				in.PetName, in.ApplicantName, in.ApplicationID),
			Timestamp: s.now(),
		})
		s.log.Info("animal marked adopted", map[string]any{
			"animal_id":      in.AnimalID,
			"application_id": in.ApplicationID,
		})
		return fmt.Sprintf("Pet %s marked as adopted successfully", in.PetName), nil

	case "rejected":
		// El animal queda disponible; solo auditoría.
		s.appendActivity(ctx, ActivityLogEntry{
			ID:       uuid.NewString(),
			AnimalID: in.AnimalID,
			ActorID:  "portal",
			Action:   ActionRejection,
			Description: fmt.Sprintf("Adoption application %s for %s from %s rejected",
				in.ApplicationID, in.PetName, in.ApplicantName),
			Timestamp: s.now(),
		})
		return fmt.Sprintf("Adoption application %s rejected", in.ApplicationID), nil

	default:
		return "", ErrUnknownDecision
	}
}

// RecordApplicationReceived deja constancia de una solicitud entrante.
// Best-effort desde el portal: no afecta el status del animal.
func (s *Service) RecordApplicationReceived(ctx context.Context, animalID, petName, applicantName, applicantEmail string) error {
	if strings.TrimSpace(animalID) == "" {
		return ErrInvalidInput
	}
	return s.repo.AppendActivity(ctx, ActivityLogEntry{
		ID:       uuid.NewString(),
		AnimalID: animalID,
		ActorID:  "portal",
		Action:   ActionApplication,
		Description: fmt.Sprintf("Adoption application received for %s from %s (%s)",
			petName, applicantName, applicantEmail),
		Timestamp: s.now(),
	})
}

// ListProjections arma la vista de lectura: animales filtrados + imagen
// primaria por animal (fallback: cualquier imagen, si no hay primaria).
func (s *Service) ListProjections(ctx context.Context, f Filter) ([]Projection, error) {
	animals, err := s.repo.ListAnimals(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]Projection, 0, len(animals))
	for _, a := range animals {
		p := s.toProjection(ctx, a)
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) GetProjection(ctx context.Context, id string) (Projection, error) {
	a, err := s.GetAnimal(ctx, id)
	if err != nil {
		return Projection{}, err
	}
	return s.toProjection(ctx, a), nil
}

func (s *Service) toProjection(ctx context.Context, a Animal) Projection {
	p := Projection{
		ID:           a.ID,
		Name:         a.Name,
		Species:      string(a.Species),
		Breed:        a.Breed,
		Age:          a.Age,
		Gender:       a.Gender,
		Status:       string(a.Status),
		Description:  a.Description,
		EnergyLevel:  a.EnergyLevel,
		GoodWithKids: a.Traits.GoodWithKids,
		GoodWithDogs: a.Traits.GoodWithDogs,
		GoodWithCats: a.Traits.GoodWithCats,
		GoodWithPets: a.Traits.GoodWithPets,
		Vaccinated:   a.Vaccinated,
	}

	imgs, err := s.repo.ListImages(ctx, a.ID)
	if err != nil || len(imgs) == 0 {
		return p
	}
	for _, img := range imgs {
		if img.IsPrimary {
			url := img.URL
			p.PrimaryImage = &url
			return p
		}
	}
	url := imgs[0].URL
	p.PrimaryImage = &url
	return p
}

func (s *Service) AddImage(ctx context.Context, animalID, url, caption string, isPrimary bool) (AnimalImage, error) {
	if strings.TrimSpace(animalID) == "" || strings.TrimSpace(url) == "" {
		return AnimalImage{}, ErrInvalidInput
	}
	if _, err := s.repo.GetAnimal(ctx, animalID); err != nil {
		return AnimalImage{}, err
	}
	img := AnimalImage{
		ID:        uuid.NewString(),
		AnimalID:  animalID,
		URL:       strings.TrimSpace(url),
		Caption:   strings.TrimSpace(caption),
		IsPrimary: isPrimary,
		CreatedAt: s.now(),
	}
	if err := s.repo.AddImage(ctx, img); err != nil {
		return AnimalImage{}, err
	}
	return img, nil
}

func (s *Service) Activity(ctx context.Context, animalID string) ([]ActivityLogEntry, error) {
	return s.repo.ListActivity(ctx, animalID)
}

func (s *Service) RecentActivity(ctx context.Context, limit int) ([]ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListRecentActivity(ctx, limit)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) SearchByName(ctx context.Context, name string) ([]Animal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.SearchByName(ctx, name)
}

// appendActivity escribe la entrada de auditoría. Su falla no corta la
// operación principal, pero queda registrada: el activity log es el rastro
// del workflow y un hueco silencioso es peor que uno avisado.
func (s *Service) appendActivity(ctx context.Context, e ActivityLogEntry) {
	if err := s.repo.AppendActivity(ctx, e); err != nil {
		s.log.Warn("activity append failed", map[string]any{
			"animal_id": e.AnimalID,
			"action":    e.Action,
			"error":     err.Error(),
		})
	}
}

package gateway

import "context"

// AnimalProjection es la vista de lectura que expone el shelter:
// estado más reciente comprometido + imagen primaria (si existe) + flags
// normalizados a boolean. El registro remoto NO es propiedad del portal.
type AnimalProjection struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Species      string `json:"species"`
	Breed        string `json:"breed"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	Status       string `json:"status"`
	Description  string `json:"description"`
	EnergyLevel  string `json:"energy_level"`
	GoodWithKids bool   `json:"good_with_kids"`
	GoodWithDogs bool   `json:"good_with_dogs"`
	GoodWithCats bool   `json:"good_with_cats"`
	GoodWithPets bool   `json:"good_with_pets"`
	Vaccinated   bool   `json:"vaccinated"`
	PrimaryImage string `json:"primary_image,omitempty"`
}

// DecisionNotice viaja del portal al shelter cuando un revisor decide.
type DecisionNotice struct {
	AnimalID      string `json:"animal_id"`
	Decision      string `json:"decision"`
	ApplicationID string `json:"application_id"`
	ApplicantName string `json:"applicant_name"`
	PetName       string `json:"pet_name"`
}

type DecisionAck struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ApplicationID string `json:"application_id"`
	AnimalID      string `json:"animal_id"`
}

// ApplicationNotice avisa al shelter que llegó una solicitud (solo auditoría).
type ApplicationNotice struct {
	AnimalID       string `json:"animal_id"`
	PetName        string `json:"pet_name"`
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email"`
}

// InventoryGateway es el contrato del portal hacia el shelter.
// Implementaciones: adapters/remote/shelter (HTTP) y fakes en tests.
type InventoryGateway interface {
	ListAvailable(ctx context.Context) ([]AnimalProjection, error)
	GetAnimal(ctx context.Context, animalID string) (AnimalProjection, error)
	NotifyDecision(ctx context.Context, n DecisionNotice) (DecisionAck, error)
	NotifyApplicationReceived(ctx context.Context, n ApplicationNotice) error
}

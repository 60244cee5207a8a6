package inventory

import "time"

// Status define la disponibilidad de un animal.
// @Enum available, pending, adopted
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusAdopted   Status = "adopted"
)

// CanTransition aplica el invariante de disponibilidad:
// available -> pending | adopted, pending -> adopted | available.
// adopted es terminal: un animal adoptado no cambia nunca de status.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusAvailable:
		return to == StatusPending || to == StatusAdopted
	case StatusPending:
		return to == StatusAdopted || to == StatusAvailable
	default:
		return false
	}
}

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Traits agrupa los flags de comportamiento, siempre normalizados a boolean.
type Traits struct {
	GoodWithKids bool
	GoodWithDogs bool
	GoodWithCats bool
	GoodWithPets bool
}

// Animal es el registro del refugio. El portal referencia estos registros
// por id pero nunca los muta directamente: los cambios de status entran
// por el servicio, vía gateway.
type Animal struct {
	ID      string
	Name    string
	Species Species
	Breed   string
	Age     int
	Gender  string

	Status      Status
	Description string
	EnergyLevel string

	Traits         Traits
	Vaccinated     bool
	SpayedNeutered bool
	Microchipped   bool

	CreatedBy string
	CreatedAt time.Time
}

// AnimalImage es una referencia de imagen propiedad del animal.
// A lo sumo una primaria por animal.
type AnimalImage struct {
	ID        string
	AnimalID  string
	URL       string
	Caption   string
	IsPrimary bool
	CreatedAt time.Time
}

// ActivityLogEntry es el audit trail, append-only: nunca se muta ni borra.
// Todo cambio de status (incluidos los del workflow remoto) deja entrada acá.
type ActivityLogEntry struct {
	ID          string
	AnimalID    string
	ActorID     string
	Action      string
	Description string
	Timestamp   time.Time
}

// Acciones registradas en el activity log.
const (
	ActionAdded        = "added"
	ActionStatusUpdate = "status_update"
	ActionAdopted      = "adopted"
	ActionRejection    = "rejection"
	ActionApplication  = "application"
)

// Projection es la vista de lectura para el portal: status más reciente
// comprometido + imagen primaria (primaria > cualquiera > ninguna).
type Projection struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Species      string  `json:"species"`
	Breed        string  `json:"breed"`
	Age          int     `json:"age"`
	Gender       string  `json:"gender"`
	Status       string  `json:"status"`
	Description  string  `json:"description"`
	EnergyLevel  string  `json:"energy_level"`
	GoodWithKids bool    `json:"good_with_kids"`
	GoodWithDogs bool    `json:"good_with_dogs"`
	GoodWithCats bool    `json:"good_with_cats"`
	GoodWithPets bool    `json:"good_with_pets"`
	Vaccinated   bool    `json:"vaccinated"`
	PrimaryImage *string `json:"primary_image"`
}

// Stats resume el inventario para el dashboard y el asistente.
type Stats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Pending   int `json:"pending"`
	Adopted   int `json:"adopted"`
	Dogs      int `json:"dogs"`
	Cats      int `json:"cats"`
}

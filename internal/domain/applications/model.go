package applications

import "time"

// Status define la máquina de estados de una solicitud:
// pending -> approved | rejected; approved -> completed.
// rejected es terminal. pending es el único estado inicial.
// @Enum pending, approved, rejected, completed
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// Applicant es una referencia débil al usuario que aplica: id + datos de
// contacto denormalizados, sin ownership sobre el registro de usuario.
type Applicant struct {
	UserID  string
	Name    string
	Email   string
	Phone   string
	Address string
}

// AnimalSnapshot es la foto del animal remoto tomada al momento de la
// solicitud. NO se refresca después, aunque el registro remoto cambie:
// la divergencia es deliberada, por auditabilidad. El lookup en vivo es
// un camino separado (gateway), nunca se colapsa con el snapshot.
type AnimalSnapshot struct {
	AnimalID string
	Name     string
	Species  string
	Breed    string
}

// Questionnaire son las respuestas estructuradas de la solicitud.
type Questionnaire struct {
	FamilyMembers string
	PreviousPets  string
	HomeType      string
	YardInfo      string
	WorkSchedule  string
	PetAloneTime  string
	VetContact    string
	References    string
	Message       string
}

// requiredFields lista los campos del cuestionario que no pueden venir vacíos.
func (q Questionnaire) requiredFields() map[string]string {
	return map[string]string{
		"family_members": q.FamilyMembers,
		"previous_pets":  q.PreviousPets,
		"home_type":      q.HomeType,
		"yard_info":      q.YardInfo,
		"work_schedule":  q.WorkSchedule,
		"pet_alone_time": q.PetAloneTime,
		"references":     q.References,
	}
}

// Application es el registro de solicitud de adopción. Este store es el
// único dueño del status: nadie lo muta directamente desde afuera.
// Nunca se borra.
type Application struct {
	ID            string
	Applicant     Applicant
	Animal        AnimalSnapshot
	Questionnaire Questionnaire

	Status      Status
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

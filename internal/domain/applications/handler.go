package applications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-adoption-network/internal/middleware"
	"pet-adoption-network/internal/observability"
	"pet-adoption-network/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/applications", func(ar chi.Router) {
		ar.Post("/", submitHandler(svc))
		ar.Get("/", listHandler(svc))
		ar.Get("/{applicationID}", getHandler(svc))
		ar.Post("/{applicationID}/decision", decideHandler(svc))
		ar.Post("/{applicationID}/complete", completeHandler(svc))
	})
}

type submitRequest struct {
	AnimalID      string `json:"animal_id"`
	AnimalName    string `json:"animal_name"`
	AnimalSpecies string `json:"animal_species"`
	AnimalBreed   string `json:"animal_breed"`

	Phone   string `json:"phone"`
	Address string `json:"address"`

	FamilyMembers string `json:"family_members"`
	PreviousPets  string `json:"previous_pets"`
	HomeType      string `json:"home_type"`
	YardInfo      string `json:"yard_info"`
	WorkSchedule  string `json:"work_schedule"`
	PetAloneTime  string `json:"pet_alone_time"`
	VetContact    string `json:"vet_contact"`
	References    string `json:"references"`
	Message       string `json:"message"`
}

type applicationResponse struct {
	ID            string    `json:"id"`
	ApplicantID   string    `json:"applicant_id"`
	ApplicantName string    `json:"applicant_name"`
	AnimalID      string    `json:"animal_id"`
	AnimalName    string    `json:"animal_name"`
	AnimalSpecies string    `json:"animal_species"`
	AnimalBreed   string    `json:"animal_breed"`
	Status        string    `json:"status"`
	SubmittedAt   time.Time `json:"submitted_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		app, warnings, err := svc.Submit(r.Context(), SubmitInput{
			Applicant: Applicant{
				UserID:  claims.UserID,
				Name:    claims.Name,
				Email:   claims.Email,
				Phone:   req.Phone,
				Address: req.Address,
			},
			AnimalID:      req.AnimalID,
			AnimalName:    req.AnimalName,
			AnimalSpecies: req.AnimalSpecies,
			AnimalBreed:   req.AnimalBreed,
			Questionnaire: Questionnaire{
				FamilyMembers: req.FamilyMembers,
				PreviousPets:  req.PreviousPets,
				HomeType:      req.HomeType,
				YardInfo:      req.YardInfo,
				WorkSchedule:  req.WorkSchedule,
				PetAloneTime:  req.PetAloneTime,
				VetContact:    req.VetContact,
				References:    req.References,
				Message:       req.Message,
			},
		})
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, map[string]any{
				"success":     true,
				"application": toResponse(app),
				"warnings":    warningList(warnings),
			})
		case errors.Is(err, ErrDuplicate):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "You already have a pending application for this pet"})
		case errors.Is(err, ErrAnimalNotFound):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pet not found"})
		case errors.Is(err, ErrAnimalUnavailable):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "This pet is no longer available for adoption"})
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f := Filter{
			Status:   Status(strings.TrimSpace(r.URL.Query().Get("status"))),
			AnimalID: strings.TrimSpace(r.URL.Query().Get("animal_id")),
		}
		// Los adoptantes solo ven lo propio; staff ve todo.
		if claims.Role != auth.RoleStaff {
			f.ApplicantID = claims.UserID
		}

		apps, err := svc.List(r.Context(), f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]applicationResponse, 0, len(apps))
		for _, a := range apps {
			out = append(out, toResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		app, err := svc.GetByID(r.Context(), chi.URLParam(r, "applicationID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Application not found"})
			return
		}
		if claims.Role != auth.RoleStaff && app.Applicant.UserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(app))
	}
}

func decideHandler(svc *Service) http.HandlerFunc {
	// Solo staff decide.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Role != auth.RoleStaff {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req struct {
			Decision string `json:"decision"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		result, err := svc.Decide(r.Context(), DecideInput{
			ApplicationID: chi.URLParam(r, "applicationID"),
			Decision:      req.Decision,
			ReviewerID:    claims.UserID,
		})
		switch {
		case err == nil:
			observability.RecordDecision(req.Decision, result.RemoteNotified)
			writeJSON(w, http.StatusOK, map[string]any{
				"success":         true,
				"application":     toResponse(result.Application),
				"remote_notified": result.RemoteNotified,
				"appointment_id":  result.AppointmentID,
				"warnings":        warningList(result.Warnings),
			})
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Application not found"})
		case errors.Is(err, ErrInvalidState):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Application has already been decided"})
		case errors.Is(err, ErrUnknownDecision):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": `Invalid decision. Use "approved" or "rejected"`})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}
}

func completeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Role != auth.RoleStaff {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		app, err := svc.Complete(r.Context(), chi.URLParam(r, "applicationID"))
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "application": toResponse(app)})
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Application not found"})
		case errors.Is(err, ErrInvalidState):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Only approved applications can be completed"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}
}

func toResponse(a Application) applicationResponse {
	return applicationResponse{
		ID:            a.ID,
		ApplicantID:   a.Applicant.UserID,
		ApplicantName: a.Applicant.Name,
		AnimalID:      a.Animal.AnimalID,
		AnimalName:    a.Animal.Name,
		AnimalSpecies: a.Animal.Species,
		AnimalBreed:   a.Animal.Breed,
		Status:        string(a.Status),
		SubmittedAt:   a.SubmittedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// warningList normaliza nil a lista vacía para que el JSON nunca sea null.
func warningList(ws []string) []string {
	if ws == nil {
		return []string{}
	}
	return ws
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

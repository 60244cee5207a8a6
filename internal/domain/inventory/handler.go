package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-adoption-network/internal/middleware"
	"pet-adoption-network/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Get("/", listAnimalsHandler(svc))
		ar.Post("/", addAnimalHandler(svc))
		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}/status", updateStatusHandler(svc))
		ar.Post("/{animalID}/images", addImageHandler(svc))
		ar.Get("/{animalID}/activity", activityHandler(svc))
	})

	// Workflow cross-service: el portal pega acá.
	r.Post("/adoption-decisions", decisionHandler(svc))
	r.Post("/adoption-applications/received", applicationReceivedHandler(svc))

	r.Get("/stats", statsHandler(svc))
}

type addAnimalRequest struct {
	Name           string `json:"name"`
	Species        string `json:"species"`
	Breed          string `json:"breed"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	Description    string `json:"description"`
	EnergyLevel    string `json:"energy_level"`
	GoodWithKids   bool   `json:"good_with_kids"`
	GoodWithDogs   bool   `json:"good_with_dogs"`
	GoodWithCats   bool   `json:"good_with_cats"`
	GoodWithPets   bool   `json:"good_with_pets"`
	Vaccinated     bool   `json:"vaccinated"`
	SpayedNeutered bool   `json:"spayed_neutered"`
	Microchipped   bool   `json:"microchipped"`
	ImageURL       string `json:"image_url"`
	ImageCaption   string `json:"image_caption"`
}

type activityResponse struct {
	ID          string    `json:"id"`
	AnimalID    string    `json:"animal_id"`
	ActorID     string    `json:"actor_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

func addAnimalHandler(svc *Service) http.HandlerFunc {
	// Solo staff puede dar de alta animales.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Role != auth.RoleStaff {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req addAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.AddAnimal(r.Context(), claims.UserID, AddAnimalInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Age:         req.Age,
			Gender:      req.Gender,
			Description: req.Description,
			EnergyLevel: req.EnergyLevel,
			Traits: Traits{
				GoodWithKids: req.GoodWithKids,
				GoodWithDogs: req.GoodWithDogs,
				GoodWithCats: req.GoodWithCats,
				GoodWithPets: req.GoodWithPets,
			},
			Vaccinated:     req.Vaccinated,
			SpayedNeutered: req.SpayedNeutered,
			Microchipped:   req.Microchipped,
			ImageURL:       req.ImageURL,
			ImageCaption:   req.ImageCaption,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		p, _ := svc.GetProjection(r.Context(), a.ID)
		writeJSON(w, http.StatusCreated, p)
	}
}

func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := Filter{
			Status:  Status(strings.TrimSpace(r.URL.Query().Get("status"))),
			Species: Species(strings.TrimSpace(r.URL.Query().Get("species"))),
			Breed:   strings.TrimSpace(r.URL.Query().Get("breed")),
		}

		items, err := svc.ListProjections(r.Context(), f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetProjection(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Pet not found"})
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Role != auth.RoleStaff {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req struct {
			Status string `json:"status"`
			Note   string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "animalID"), claims.UserID, Status(req.Status), req.Note)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": string(a.Status)})
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Pet not found"})
		case errors.Is(err, ErrInvalidTransition):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

func addImageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Role != auth.RoleStaff {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req struct {
			URL       string `json:"image_url"`
			Caption   string `json:"caption"`
			IsPrimary bool   `json:"is_primary"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		img, err := svc.AddImage(r.Context(), chi.URLParam(r, "animalID"), req.URL, req.Caption, req.IsPrimary)
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, map[string]any{"success": true, "image_id": img.ID})
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Pet not found"})
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

func activityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.Activity(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]activityResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toActivityResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type decisionRequest struct {
	AnimalID      string `json:"animal_id"`
	Decision      string `json:"decision"`
	ApplicationID string `json:"application_id"`
	ApplicantName string `json:"applicant_name"`
	PetName       string `json:"pet_name"`
}

func decisionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req decisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		// Validación de campos requeridos antes de tocar nada.
		missing := ""
		switch {
		case strings.TrimSpace(req.AnimalID) == "":
			missing = "animal_id"
		case strings.TrimSpace(req.Decision) == "":
			missing = "decision"
		case strings.TrimSpace(req.ApplicationID) == "":
			missing = "application_id"
		}
		if missing != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: " + missing})
			return
		}

		msg, err := svc.ApplyDecision(r.Context(), DecisionInput{
			AnimalID:      req.AnimalID,
			Decision:      req.Decision,
			ApplicationID: req.ApplicationID,
			ApplicantName: req.ApplicantName,
			PetName:       req.PetName,
		})
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]any{
				"success":        true,
				"message":        msg,
				"application_id": req.ApplicationID,
				"animal_id":      req.AnimalID,
			})
		case errors.Is(err, ErrUnknownDecision):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": `Invalid decision. Use "approved" or "rejected"`})
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Pet not found"})
		case errors.Is(err, ErrInvalidTransition):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}
}

func applicationReceivedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AnimalID       string `json:"animal_id"`
			PetName        string `json:"pet_name"`
			ApplicantName  string `json:"applicant_name"`
			ApplicantEmail string `json:"applicant_email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if err := svc.RecordApplicationReceived(r.Context(), req.AnimalID, req.PetName, req.ApplicantName, req.ApplicantEmail); err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: animal_id"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Adoption application received successfully",
		})
	}
}

func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func toActivityResponse(e ActivityLogEntry) activityResponse {
	return activityResponse{
		ID:          e.ID,
		AnimalID:    e.AnimalID,
		ActorID:     e.ActorID,
		Action:      e.Action,
		Description: e.Description,
		Timestamp:   e.Timestamp,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

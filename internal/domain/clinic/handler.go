package clinic

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-adoption-network/internal/observability"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/", dayScheduleHandler(svc))
		ar.Post("/{appointmentID}/cancel", cancelAppointmentHandler(svc))
	})
	r.Get("/practitioners", practitionersHandler(svc))
}

// createAppointmentRequest es el contrato que consume el portal.
type createAppointmentRequest struct {
	PetName         string `json:"pet_name"`
	OwnerName       string `json:"owner_name"`
	OwnerEmail      string `json:"owner_email"`
	OwnerPhone      string `json:"owner_phone"`
	Reason          string `json:"reason"`
	PreferredDate   string `json:"preferred_date"` // ISO-8601
	Species         string `json:"species"`
	Breed           string `json:"breed"`
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
	IdempotencyKey  string `json:"idempotency_key"`
}

func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		required := map[string]string{
			"pet_name":       req.PetName,
			"owner_name":     req.OwnerName,
			"owner_email":    req.OwnerEmail,
			"owner_phone":    req.OwnerPhone,
			"reason":         req.Reason,
			"preferred_date": req.PreferredDate,
		}
		for _, field := range []string{"pet_name", "owner_name", "owner_email", "owner_phone", "reason", "preferred_date"} {
			if strings.TrimSpace(required[field]) == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required field: " + field})
				return
			}
		}

		start, err := time.Parse(time.RFC3339, req.PreferredDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid date format. Use ISO format (YYYY-MM-DDTHH:MM:SS)"})
			return
		}

		a, p, err := svc.Schedule(r.Context(), ScheduleInput{
			PetName:         req.PetName,
			Species:         req.Species,
			Breed:           req.Breed,
			OwnerName:       req.OwnerName,
			OwnerEmail:      req.OwnerEmail,
			OwnerPhone:      req.OwnerPhone,
			Start:           start,
			DurationMinutes: req.DurationMinutes,
			Reason:          req.Reason,
			Notes:           req.Notes,
			IdempotencyKey:  req.IdempotencyKey,
		})
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, map[string]any{
				"success":        true,
				"appointment_id": a.ID,
				"message":        fmt.Sprintf("Appointment scheduled for %s with Dr. %s", a.PetName, p.Name),
				"appointment_details": map[string]any{
					"date":   a.Start.Format(time.RFC3339),
					"pet":    a.PetName,
					"vet":    "Dr. " + p.Name,
					"reason": a.Reason,
					"status": string(a.Status),
				},
			})
		case errors.Is(err, ErrConflict):
			observability.RecordAppointmentConflict()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrOutsideHours):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Appointment time must be within working hours"})
		case errors.Is(err, ErrNoPractitioner):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No active veterinarians available"})
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create appointment"})
		}
	}
}

func cancelAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Cancel(r.Context(), chi.URLParam(r, "appointmentID"))
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"message": fmt.Sprintf("Appointment for %s cancelled", a.PetName),
			})
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Appointment not found"})
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to cancel appointment"})
		}
	}
}

func dayScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		practitionerID := strings.TrimSpace(r.URL.Query().Get("practitioner_id"))
		day := time.Now()
		if d := strings.TrimSpace(r.URL.Query().Get("date")); d != "" {
			parsed, err := time.Parse("2006-01-02", d)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
				return
			}
			day = parsed
		}

		items, err := svc.DaySchedule(r.Context(), practitionerID, day)
		switch {
		case err == nil:
			out := make([]map[string]any, 0, len(items))
			for _, a := range items {
				out = append(out, map[string]any{
					"id":       a.ID,
					"pet_name": a.PetName,
					"time":     a.Start.Format("15:04"),
					"duration": a.DurationMinutes,
					"reason":   a.Reason,
					"status":   string(a.Status),
				})
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"practitioner_id": practitionerID,
				"date":            day.Format("2006-01-02"),
				"appointments":    out,
			})
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "practitioner_id is required"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
	}
}

func practitionersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Practitioners(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		out := make([]map[string]any, 0, len(items))
		for _, p := range items {
			out = append(out, map[string]any{
				"id":             p.ID,
				"name":           p.Name,
				"specialization": p.Specialization,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

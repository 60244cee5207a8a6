package checkups

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-adoption-network/internal/middleware"
	"pet-adoption-network/internal/ports/auth"
	"pet-adoption-network/internal/ports/gateway"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/checkups", func(cr chi.Router) {
		cr.Post("/", scheduleHandler(svc))
		cr.Get("/", listHandler(svc))
		cr.Get("/{checkupID}", getHandler(svc))
		cr.Post("/{checkupID}/cancel", cancelHandler(svc))
	})
}

type checkupResponse struct {
	ID                  string    `json:"id"`
	ApplicationID       string    `json:"application_id"`
	RemoteAppointmentID string    `json:"remote_appointment_id"`
	Date                time.Time `json:"date"`
	Pet                 string    `json:"pet"`
	Vet                 string    `json:"vet"`
	Reason              string    `json:"reason"`
	Status              string    `json:"status"`
}

type scheduleRequest struct {
	PetName         string `json:"pet_name"`
	Species         string `json:"species"`
	Breed           string `json:"breed"`
	Phone           string `json:"phone"`
	Reason          string `json:"reason"`
	PreferredDate   string `json:"preferred_date"` // ISO-8601
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

func scheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		var date time.Time
		if req.PreferredDate != "" {
			var err error
			date, err = time.Parse(time.RFC3339, req.PreferredDate)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid date format. Use ISO format (YYYY-MM-DDTHH:MM:SS)"})
				return
			}
		}

		c, err := svc.Schedule(r.Context(), ScheduleInput{
			Pet:             req.PetName,
			Species:         req.Species,
			Breed:           req.Breed,
			OwnerName:       claims.Name,
			OwnerEmail:      claims.Email,
			OwnerPhone:      req.Phone,
			Reason:          req.Reason,
			PreferredDate:   date,
			DurationMinutes: req.DurationMinutes,
			Notes:           req.Notes,
		})
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, map[string]any{"success": true, "checkup": toResponse(c)})
		case errors.Is(err, ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			writeClinicError(w, err)
		}
	}
}

// writeClinicError traduce la clasificación del gateway: un rechazo de la
// clínica (conflicto, fuera de horario) pasa como 400, el resto degrada.
func writeClinicError(w http.ResponseWriter, err error) {
	if re, ok := gateway.AsRemoteError(err); ok && re.StatusCode == http.StatusBadRequest {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "The clinic rejected the appointment request"})
		return
	}
	if gateway.IsTimeout(err) {
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "The clinic is taking too long to respond"})
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "The clinic is unavailable right now"})
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Role != auth.RoleStaff {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]checkupResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "checkupID"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Checkup not found"})
			return
		}
		writeJSON(w, http.StatusOK, toResponse(c))
	}
}

func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Role != auth.RoleStaff {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		c, warnings, err := svc.Cancel(r.Context(), chi.URLParam(r, "checkupID"))
		switch {
		case err == nil:
			if warnings == nil {
				warnings = []string{}
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"success":  true,
				"checkup":  toResponse(c),
				"warnings": warnings,
			})
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Checkup not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}
}

func toResponse(c Checkup) checkupResponse {
	return checkupResponse{
		ID:                  c.ID,
		ApplicationID:       c.ApplicationID,
		RemoteAppointmentID: c.RemoteAppointmentID,
		Date:                c.Date,
		Pet:                 c.Pet,
		Vet:                 c.Vet,
		Reason:              c.Reason,
		Status:              string(c.Status),
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package vetclinic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-adoption-network/internal/ports/gateway"
)

func TestCreateAppointment(t *testing.T) {
	var got gateway.AppointmentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/appointments" {
			t.Fatalf("%s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(gateway.AppointmentConfirmation{
			Success:       true,
			AppointmentID: "apt-1",
			Message:       "Appointment scheduled for Buddy with Dr. Sarah Mitchell",
			Details: gateway.AppointmentDetails{
				Date: got.PreferredDate, Pet: got.PetName, Vet: "Dr. Sarah Mitchell",
				Reason: got.Reason, Status: "scheduled",
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, 0)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	when := time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)
	conf, err := c.CreateAppointment(context.Background(), gateway.AppointmentRequest{
		PetName:         "Buddy",
		OwnerName:       "Jane Doe",
		OwnerEmail:      "jane@example.com",
		Reason:          "Post-adoption health checkup",
		PreferredDate:   when,
		DurationMinutes: 30,
		IdempotencyKey:  "adoption-app-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if conf.AppointmentID != "apt-1" || conf.Details.Vet != "Dr. Sarah Mitchell" {
		t.Fatalf("confirmación incorrecta: %+v", conf)
	}
	if got.IdempotencyKey != "adoption-app-1" {
		t.Fatalf("la idempotency key no viajó: %+v", got)
	}
	if !got.PreferredDate.Equal(when) {
		t.Fatalf("fecha en el wire: %v", got.PreferredDate)
	}
}

func TestCreateAppointmentConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error": "Time slot not available"}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, 0)
	_, err := c.CreateAppointment(context.Background(), gateway.AppointmentRequest{PetName: "Buddy"})

	re, ok := gateway.AsRemoteError(err)
	if !ok || re.StatusCode != http.StatusConflict {
		t.Fatalf("esperaba RemoteError 409, vino %v", err)
	}
}

func TestCancelAppointment(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.URL.Path != "/appointments/apt-1/cancel" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL, 0)
	if err := c.CancelAppointment(context.Background(), "apt-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !called {
		t.Fatal("no llegó el request")
	}
}

package clinic

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 13, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name   string
		aStart time.Time
		aMin   int
		bStart time.Time
		bMin   int
		want   bool
	}{
		{"idénticos", at(10, 0), 30, at(10, 0), 30, true},
		{"parcial", at(10, 0), 30, at(10, 15), 30, true},
		{"contenido", at(10, 0), 60, at(10, 15), 15, true},
		{"contiguos no solapan", at(10, 0), 30, at(10, 30), 30, false},
		{"separados", at(10, 0), 30, at(11, 0), 30, false},
		{"orden invertido", at(10, 15), 30, at(10, 0), 30, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Overlaps(c.aStart, c.aMin, c.bStart, c.bMin); got != c.want {
				t.Fatalf("Overlaps = %v, esperaba %v", got, c.want)
			}
		})
	}
}

func TestConflictsWith(t *testing.T) {
	base := Appointment{
		PractitionerID:  "vet-1",
		Start:           at(10, 0),
		DurationMinutes: 30,
		Status:          StatusScheduled,
	}

	t.Run("mismo horario mismo profesional", func(t *testing.T) {
		if !ConflictsWith(base, base) {
			t.Fatal("esperaba conflicto")
		}
	})

	t.Run("otro profesional no compite", func(t *testing.T) {
		other := base
		other.PractitionerID = "vet-2"
		if ConflictsWith(base, other) {
			t.Fatal("profesionales distintos no deben chocar")
		}
	})

	t.Run("cancelled no bloquea", func(t *testing.T) {
		cancelled := base
		cancelled.Status = StatusCancelled
		if ConflictsWith(cancelled, base) {
			t.Fatal("un turno cancelado no reserva horario")
		}
	})

	t.Run("completed no bloquea", func(t *testing.T) {
		done := base
		done.Status = StatusCompleted
		if ConflictsWith(done, base) {
			t.Fatal("un turno completado no reserva horario")
		}
	})

	t.Run("confirmed sí bloquea", func(t *testing.T) {
		confirmed := base
		confirmed.Status = StatusConfirmed
		if !ConflictsWith(confirmed, base) {
			t.Fatal("confirmed debe reservar horario")
		}
	})

	t.Run("otro día no compite", func(t *testing.T) {
		tomorrow := base
		tomorrow.Start = base.Start.AddDate(0, 0, 1)
		if ConflictsWith(base, tomorrow) {
			t.Fatal("días distintos no deben chocar")
		}
	})
}

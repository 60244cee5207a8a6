package clinic

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRepo struct {
	appointments  map[string]Appointment
	practitioners map[string]Practitioner
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		appointments:  make(map[string]Appointment),
		practitioners: make(map[string]Practitioner),
	}
}

func (f *fakeRepo) CreateAppointment(_ context.Context, a Appointment) error {
	for _, existing := range f.appointments {
		if ConflictsWith(existing, a) {
			return ErrConflict
		}
	}
	f.appointments[a.ID] = a
	return nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, id string) (Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return Appointment{}, errors.New("no existe")
	}
	return a, nil
}

func (f *fakeRepo) GetByIdempotencyKey(_ context.Context, key string) (Appointment, error) {
	for _, a := range f.appointments {
		if key != "" && a.IdempotencyKey == key {
			return a, nil
		}
	}
	return Appointment{}, errors.New("no existe")
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, a Appointment) error {
	if _, ok := f.appointments[a.ID]; !ok {
		return errors.New("no existe")
	}
	f.appointments[a.ID] = a
	return nil
}

func (f *fakeRepo) ListByPractitionerAndDay(_ context.Context, practitionerID string, day time.Time) ([]Appointment, error) {
	y, m, d := day.Date()
	var out []Appointment
	for _, a := range f.appointments {
		ay, am, ad := a.Start.Date()
		if a.PractitionerID == practitionerID && ay == y && am == m && ad == d {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountBlocking(_ context.Context, practitionerID string) (int, error) {
	count := 0
	for _, a := range f.appointments {
		if a.PractitionerID == practitionerID && a.Status.Blocks() {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) UpsertPractitioner(_ context.Context, p Practitioner) error {
	f.practitioners[p.ID] = p
	return nil
}

func (f *fakeRepo) GetPractitioner(_ context.Context, id string) (Practitioner, error) {
	p, ok := f.practitioners[id]
	if !ok {
		return Practitioner{}, errors.New("no existe")
	}
	return p, nil
}

func (f *fakeRepo) ListActivePractitioners(_ context.Context) ([]Practitioner, error) {
	var out []Practitioner
	for _, p := range f.practitioners {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func seededRoster(t *testing.T, svc *Service) {
	t.Helper()
	err := svc.SeedRoster(context.Background(), []Practitioner{
		{ID: "vet-1", Name: "Sarah Mitchell", Active: true},
		{ID: "vet-2", Name: "Tomás Rivera", Active: true},
		{ID: "vet-3", Name: "Inactive Vet", Active: false},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func validInput(start time.Time) ScheduleInput {
	return ScheduleInput{
		PetName:    "Buddy",
		Species:    "dog",
		OwnerName:  "Jane Doe",
		OwnerEmail: "jane@example.com",
		Reason:     "Post-adoption health checkup",
		Start:      start,
	}
}

func TestScheduleAssignsLeastLoaded(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	seededRoster(t, svc)
	ctx := context.Background()

	// Primer turno: empate 0-0, gana el primero por nombre (Sarah).
	_, p1, err := svc.Schedule(ctx, validInput(at(10, 0)))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if p1.ID != "vet-1" {
		t.Fatalf("primer turno a %s, esperaba vet-1", p1.ID)
	}

	// Segundo turno: Sarah tiene 1, Tomás 0.
	_, p2, err := svc.Schedule(ctx, validInput(at(11, 0)))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if p2.ID != "vet-2" {
		t.Fatalf("segundo turno a %s, esperaba vet-2", p2.ID)
	}
}

func TestScheduleDefaultsDurationTo30(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	seededRoster(t, svc)

	a, _, err := svc.Schedule(context.Background(), validInput(at(10, 0)))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if a.DurationMinutes != 30 {
		t.Fatalf("duration = %d", a.DurationMinutes)
	}
	if a.Status != StatusScheduled {
		t.Fatalf("status = %q", a.Status)
	}
}

func TestScheduleRejectsOverlapOnSamePractitioner(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	// Un solo profesional para forzar el choque.
	if err := svc.SeedRoster(context.Background(), []Practitioner{
		{ID: "vet-1", Name: "Sarah Mitchell", Active: true},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, _, err := svc.Schedule(context.Background(), validInput(at(10, 0))); err != nil {
		t.Fatalf("primer turno: %v", err)
	}
	in := validInput(at(10, 15))
	_, _, err := svc.Schedule(context.Background(), in)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, esperaba ErrConflict", err)
	}
}

func TestScheduleAllowsOverlapAfterCancel(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	if err := svc.SeedRoster(context.Background(), []Practitioner{
		{ID: "vet-1", Name: "Sarah Mitchell", Active: true},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ctx := context.Background()

	a, _, err := svc.Schedule(ctx, validInput(at(10, 0)))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if _, err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// El horario quedó libre: cancelled no bloquea.
	if _, _, err := svc.Schedule(ctx, validInput(at(10, 0))); err != nil {
		t.Fatalf("reprogramar sobre cancelado: %v", err)
	}
}

func TestScheduleIdempotencyKeyReplay(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	seededRoster(t, svc)
	ctx := context.Background()

	in := validInput(at(10, 0))
	in.IdempotencyKey = "adoption-app-1"

	first, _, err := svc.Schedule(ctx, in)
	if err != nil {
		t.Fatalf("primer schedule: %v", err)
	}
	second, _, err := svc.Schedule(ctx, in)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("el replay creó otro turno: %s vs %s", first.ID, second.ID)
	}
	if len(repo.appointments) != 1 {
		t.Fatalf("appointments = %d, esperaba 1", len(repo.appointments))
	}
}

func TestScheduleOutsideWorkingHours(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	seededRoster(t, svc)

	_, _, err := svc.Schedule(context.Background(), validInput(at(6, 0)))
	if !errors.Is(err, ErrOutsideHours) {
		t.Fatalf("6am: err = %v, esperaba ErrOutsideHours", err)
	}
	_, _, err = svc.Schedule(context.Background(), validInput(at(20, 0)))
	if !errors.Is(err, ErrOutsideHours) {
		t.Fatalf("8pm: err = %v, esperaba ErrOutsideHours", err)
	}
	// 19:30 entra: [8, 20).
	if _, _, err := svc.Schedule(context.Background(), validInput(at(19, 30))); err != nil {
		t.Fatalf("19:30: %v", err)
	}
}

func TestScheduleWithoutRoster(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, _, err := svc.Schedule(context.Background(), validInput(at(10, 0)))
	if !errors.Is(err, ErrNoPractitioner) {
		t.Fatalf("err = %v, esperaba ErrNoPractitioner", err)
	}
}

func TestScheduleValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	in := validInput(at(10, 0))
	in.OwnerEmail = ""
	if _, _, err := svc.Schedule(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("sin email: err = %v", err)
	}

	in = validInput(time.Time{})
	if _, _, err := svc.Schedule(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("sin fecha: err = %v", err)
	}
}

func TestCancelLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	seededRoster(t, svc)
	ctx := context.Background()

	a, _, err := svc.Schedule(ctx, validInput(at(10, 0)))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	got, err := svc.Cancel(ctx, a.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("status = %q", got.Status)
	}

	// Cancelar de nuevo es no-op.
	if _, err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("segundo cancel: %v", err)
	}

	// Un turno completado no se cancela.
	a.Status = StatusCompleted
	if err := repo.UpdateAppointment(ctx, a); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Cancel(ctx, a.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("cancelar completado: err = %v", err)
	}
}

func TestSeedRosterDefaultsHours(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	if err := svc.SeedRoster(context.Background(), []Practitioner{
		{ID: "vet-1", Name: "Sarah Mitchell", Active: true},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	p, err := repo.GetPractitioner(context.Background(), "vet-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.WorkingHoursStart != 8 || p.WorkingHoursEnd != 20 {
		t.Fatalf("horario = [%d, %d), esperaba [8, 20)", p.WorkingHoursStart, p.WorkingHoursEnd)
	}
}

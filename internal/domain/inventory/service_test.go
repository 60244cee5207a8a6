package inventory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"pet-adoption-network/internal/platform/logger"
)

type fakeRepo struct {
	animals  map[string]Animal
	images   map[string][]AnimalImage
	activity []ActivityLogEntry

	appendErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		animals: make(map[string]Animal),
		images:  make(map[string][]AnimalImage),
	}
}

func (f *fakeRepo) CreateAnimal(_ context.Context, a Animal) error {
	f.animals[a.ID] = a
	return nil
}

func (f *fakeRepo) GetAnimal(_ context.Context, id string) (Animal, error) {
	a, ok := f.animals[id]
	if !ok {
		return Animal{}, errors.New("no existe")
	}
	return a, nil
}

func (f *fakeRepo) ListAnimals(_ context.Context, filter Filter) ([]Animal, error) {
	var out []Animal
	for _, a := range f.animals {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Species != "" && a.Species != filter.Species {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) SearchByName(_ context.Context, name string) ([]Animal, error) {
	var out []Animal
	for _, a := range f.animals {
		if strings.Contains(strings.ToLower(a.Name), strings.ToLower(name)) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	a, ok := f.animals[id]
	if !ok {
		return errors.New("no existe")
	}
	a.Status = status
	f.animals[id] = a
	return nil
}

func (f *fakeRepo) AddImage(_ context.Context, img AnimalImage) error {
	f.images[img.AnimalID] = append(f.images[img.AnimalID], img)
	return nil
}

func (f *fakeRepo) ListImages(_ context.Context, animalID string) ([]AnimalImage, error) {
	return f.images[animalID], nil
}

func (f *fakeRepo) AppendActivity(_ context.Context, e ActivityLogEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.activity = append(f.activity, e)
	return nil
}

func (f *fakeRepo) ListActivity(_ context.Context, animalID string) ([]ActivityLogEntry, error) {
	var out []ActivityLogEntry
	for _, e := range f.activity {
		if e.AnimalID == animalID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListRecentActivity(_ context.Context, limit int) ([]ActivityLogEntry, error) {
	out := f.activity
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeRepo) Stats(_ context.Context) (Stats, error) {
	var st Stats
	for _, a := range f.animals {
		st.Total++
		switch a.Status {
		case StatusAvailable:
			st.Available++
		case StatusPending:
			st.Pending++
		case StatusAdopted:
			st.Adopted++
		}
	}
	return st, nil
}

func addAvailable(t *testing.T, svc *Service, name string) Animal {
	t.Helper()
	a, err := svc.AddAnimal(context.Background(), "staff-1", AddAnimalInput{
		Name:    name,
		Species: "dog",
		Breed:   "Labrador",
		Age:     3,
	})
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return a
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusAvailable, StatusPending, true},
		{StatusAvailable, StatusAdopted, true},
		{StatusPending, StatusAdopted, true},
		{StatusPending, StatusAvailable, true},
		{StatusAdopted, StatusAvailable, false},
		{StatusAdopted, StatusPending, false},
		{StatusAdopted, StatusAdopted, false},
		{StatusAvailable, Status("retired"), false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, esperaba %v", c.from, c.to, got, c.want)
		}
	}
}

func TestAdoptedIsTerminal(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	a := addAvailable(t, svc, "Buddy")

	if _, err := svc.UpdateStatus(context.Background(), a.ID, "staff-1", StatusAdopted, ""); err != nil {
		t.Fatalf("adoptar: %v", err)
	}
	for _, to := range []Status{StatusAvailable, StatusPending} {
		_, err := svc.UpdateStatus(context.Background(), a.ID, "staff-1", to, "")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("adopted -> %s: err = %v, esperaba ErrInvalidTransition", to, err)
		}
	}
}

func TestUpdateStatusSameValueIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	a := addAvailable(t, svc, "Buddy")
	auditBefore := len(repo.activity)

	got, err := svc.UpdateStatus(context.Background(), a.ID, "staff-1", StatusAvailable, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != StatusAvailable {
		t.Fatalf("status = %q", got.Status)
	}
	if len(repo.activity) != auditBefore {
		t.Fatalf("el no-op dejó auditoría")
	}
}

type captureLog struct {
	warns []string
}

func (l *captureLog) With(map[string]any) logger.Logger { return l }
func (l *captureLog) Debug(string, map[string]any)      {}
func (l *captureLog) Info(string, map[string]any)       {}
func (l *captureLog) Warn(msg string, _ map[string]any) { l.warns = append(l.warns, msg) }
func (l *captureLog) Error(string, map[string]any)      {}

func TestAuditFailureWarnsButDoesNotAbort(t *testing.T) {
	repo := newFakeRepo()
	lg := &captureLog{}
	svc := NewService(repo, lg)
	a := addAvailable(t, svc, "Buddy")

	repo.appendErr = errors.New("disco lleno")
	got, err := svc.UpdateStatus(context.Background(), a.ID, "staff-1", StatusPending, "")
	if err != nil {
		t.Fatalf("la falla de auditoría no debe cortar la operación: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("status = %q", got.Status)
	}
	if len(lg.warns) == 0 {
		t.Fatal("la falla de auditoría debe quedar registrada en el log")
	}
}

func TestApplyDecisionApprovedMarksAdopted(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	a := addAvailable(t, svc, "Buddy")

	msg, err := svc.ApplyDecision(context.Background(), DecisionInput{
		AnimalID:      a.ID,
		Decision:      "approved",
		ApplicationID: "app-1",
		ApplicantName: "Jane Doe",
		PetName:       "Buddy",
	})
	if err != nil {
		t.Fatalf("decision: %v", err)
	}
	if !strings.Contains(msg, "adopted successfully") {
		t.Fatalf("msg = %q", msg)
	}

	got, _ := repo.GetAnimal(context.Background(), a.ID)
	if got.Status != StatusAdopted {
		t.Fatalf("status = %q", got.Status)
	}

	entries, _ := repo.ListActivity(context.Background(), a.ID)
	found := false
	for _, e := range entries {
		if e.Action == ActionAdopted && strings.Contains(e.Description, "Jane Doe") {
			found = true
		}
	}
	if !found {
		t.Fatalf("falta la entrada de adopción en el log: %+v", entries)
	}
}

func TestApplyDecisionRejectedOnlyAudits(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	a := addAvailable(t, svc, "Buddy")

	if _, err := svc.ApplyDecision(context.Background(), DecisionInput{
		AnimalID:      a.ID,
		Decision:      "rejected",
		ApplicationID: "app-1",
	}); err != nil {
		t.Fatalf("decision: %v", err)
	}

	got, _ := repo.GetAnimal(context.Background(), a.ID)
	if got.Status != StatusAvailable {
		t.Fatalf("el rechazo cambió el status: %q", got.Status)
	}
	entries, _ := repo.ListActivity(context.Background(), a.ID)
	found := false
	for _, e := range entries {
		if e.Action == ActionRejection {
			found = true
		}
	}
	if !found {
		t.Fatalf("falta la entrada de rechazo")
	}
}

func TestApplyDecisionApprovedIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	a := addAvailable(t, svc, "Buddy")

	in := DecisionInput{AnimalID: a.ID, Decision: "approved", ApplicationID: "app-1", PetName: "Buddy"}
	if _, err := svc.ApplyDecision(context.Background(), in); err != nil {
		t.Fatalf("primera decisión: %v", err)
	}
	// Redecidir approved sobre un adoptado no es error: el estado ya es el
	// pedido. Solo agrega auditoría.
	if _, err := svc.ApplyDecision(context.Background(), in); err != nil {
		t.Fatalf("segunda decisión: %v", err)
	}
	got, _ := repo.GetAnimal(context.Background(), a.ID)
	if got.Status != StatusAdopted {
		t.Fatalf("status = %q", got.Status)
	}
}

func TestApplyDecisionUnknownValue(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	_, err := svc.ApplyDecision(context.Background(), DecisionInput{
		AnimalID:      "x",
		Decision:      "maybe",
		ApplicationID: "app-1",
	})
	if !errors.Is(err, ErrUnknownDecision) {
		t.Fatalf("err = %v, esperaba ErrUnknownDecision", err)
	}
}

func TestProjectionImageFallback(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	noImage := addAvailable(t, svc, "Rex")
	withAny := addAvailable(t, svc, "Luna")
	withPrimary := addAvailable(t, svc, "Max")

	if _, err := svc.AddImage(ctx, withAny.ID, "https://img/any.jpg", "", false); err != nil {
		t.Fatalf("add image: %v", err)
	}
	if _, err := svc.AddImage(ctx, withPrimary.ID, "https://img/a.jpg", "", false); err != nil {
		t.Fatalf("add image: %v", err)
	}
	if _, err := svc.AddImage(ctx, withPrimary.ID, "https://img/primary.jpg", "", true); err != nil {
		t.Fatalf("add image: %v", err)
	}

	p, err := svc.GetProjection(ctx, noImage.ID)
	if err != nil {
		t.Fatalf("projection: %v", err)
	}
	if p.PrimaryImage != nil {
		t.Fatalf("sin imágenes debe proyectar null, vino %q", *p.PrimaryImage)
	}

	p, _ = svc.GetProjection(ctx, withAny.ID)
	if p.PrimaryImage == nil || *p.PrimaryImage != "https://img/any.jpg" {
		t.Fatalf("sin primaria debe caer a cualquiera: %+v", p.PrimaryImage)
	}

	p, _ = svc.GetProjection(ctx, withPrimary.ID)
	if p.PrimaryImage == nil || *p.PrimaryImage != "https://img/primary.jpg" {
		t.Fatalf("la primaria debe ganar: %+v", p.PrimaryImage)
	}
}

func TestAddAnimalValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	_, err := svc.AddAnimal(context.Background(), "staff-1", AddAnimalInput{Name: "  ", Species: "dog"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nombre vacío: err = %v", err)
	}
	_, err = svc.AddAnimal(context.Background(), "staff-1", AddAnimalInput{Name: "Buddy", Species: "dog", Age: -1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("edad negativa: err = %v", err)
	}
}

func TestAddAnimalWithImageCreatesPrimary(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	a, err := svc.AddAnimal(context.Background(), "staff-1", AddAnimalInput{
		Name:     "Buddy",
		Species:  "dog",
		ImageURL: "https://img/buddy.jpg",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	imgs := repo.images[a.ID]
	if len(imgs) != 1 || !imgs[0].IsPrimary {
		t.Fatalf("esperaba una imagen primaria, vino %+v", imgs)
	}
}

func TestRecordApplicationReceivedRequiresAnimalID(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	err := svc.RecordApplicationReceived(context.Background(), " ", "Buddy", "Jane Doe", "jane@example.com")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
	if err := svc.RecordApplicationReceived(context.Background(), "A123", "Buddy", "Jane Doe", "jane@example.com"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(repo.activity) != 1 || repo.activity[0].Action != ActionApplication {
		t.Fatalf("auditoría incorrecta: %+v", repo.activity)
	}
}

func TestServiceUsesInjectedClock(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	a := addAvailable(t, svc, "Buddy")
	if !a.CreatedAt.Equal(fixed) {
		t.Fatalf("CreatedAt = %v", a.CreatedAt)
	}
}

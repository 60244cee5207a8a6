package checkups

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-adoption-network/internal/platform/logger"
	"pet-adoption-network/internal/ports/gateway"
)

type fakeRepo struct {
	items map[string]Checkup
}

func newFakeRepo() *fakeRepo { return &fakeRepo{items: make(map[string]Checkup)} }

func (f *fakeRepo) Create(_ context.Context, c Checkup) error {
	f.items[c.ID] = c
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (Checkup, error) {
	c, ok := f.items[id]
	if !ok {
		return Checkup{}, errors.New("no existe")
	}
	return c, nil
}

func (f *fakeRepo) GetByApplicationID(_ context.Context, applicationID string) (Checkup, error) {
	for _, c := range f.items {
		if c.ApplicationID == applicationID {
			return c, nil
		}
	}
	return Checkup{}, errors.New("no existe")
}

func (f *fakeRepo) List(_ context.Context) ([]Checkup, error) {
	out := make([]Checkup, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) (Checkup, error) {
	c, ok := f.items[id]
	if !ok {
		return Checkup{}, errors.New("no existe")
	}
	c.Status = status
	f.items[id] = c
	return c, nil
}

type fakeClinic struct {
	createErr   error
	createCalls int
	lastReq     gateway.AppointmentRequest

	cancelErr   error
	cancelCalls int
}

func (f *fakeClinic) CreateAppointment(_ context.Context, req gateway.AppointmentRequest) (gateway.AppointmentConfirmation, error) {
	f.createCalls++
	f.lastReq = req
	if f.createErr != nil {
		return gateway.AppointmentConfirmation{}, f.createErr
	}
	return gateway.AppointmentConfirmation{
		Success:       true,
		AppointmentID: "apt-9",
		Details: gateway.AppointmentDetails{
			Date:   req.PreferredDate,
			Pet:    req.PetName,
			Vet:    "Dr. James Wilson",
			Reason: req.Reason,
			Status: "scheduled",
		},
	}, nil
}

func (f *fakeClinic) CancelAppointment(_ context.Context, _ string) error {
	f.cancelCalls++
	return f.cancelErr
}

func scheduled(t *testing.T, svc *Service, repo *fakeRepo) Checkup {
	t.Helper()
	err := svc.RecordScheduled(context.Background(), "app-1", "apt-1", gateway.AppointmentDetails{
		Date:   time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC),
		Pet:    "Buddy",
		Vet:    "Dr. Sarah Mitchell",
		Reason: "Post-adoption health checkup",
		Status: "scheduled",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	for _, c := range repo.items {
		return c
	}
	t.Fatal("no se creó el registro")
	return Checkup{}
}

func TestRecordScheduledMirrorsDetails(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeClinic{}, logger.Nop())

	c := scheduled(t, svc, repo)
	if c.Status != StatusScheduled {
		t.Fatalf("status = %q", c.Status)
	}
	if c.RemoteAppointmentID != "apt-1" || c.ApplicationID != "app-1" {
		t.Fatalf("referencias incorrectas: %+v", c)
	}
	if c.Vet != "Dr. Sarah Mitchell" {
		t.Fatalf("vet = %q", c.Vet)
	}
}

func TestScheduleCreatesMirrorFromConfirmation(t *testing.T) {
	repo := newFakeRepo()
	clinic := &fakeClinic{}
	svc := NewService(repo, clinic, logger.Nop())

	c, err := svc.Schedule(context.Background(), ScheduleInput{
		Pet:           "Luna",
		Species:       "cat",
		OwnerName:     "Jane Doe",
		OwnerEmail:    "jane@example.com",
		Reason:        "Vaccination booster",
		PreferredDate: time.Date(2025, 4, 2, 11, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if c.RemoteAppointmentID != "apt-9" || c.Status != StatusScheduled {
		t.Fatalf("espejo inesperado: %+v", c)
	}
	if c.ApplicationID != "" {
		t.Fatalf("el turno manual no referencia solicitud: %+v", c)
	}
	if c.Vet != "Dr. James Wilson" {
		t.Fatalf("vet = %q", c.Vet)
	}
	if clinic.lastReq.OwnerName != "Jane Doe" || clinic.lastReq.IdempotencyKey != "" {
		t.Fatalf("request a la clínica inesperado: %+v", clinic.lastReq)
	}
	if _, ok := repo.items[c.ID]; !ok {
		t.Fatal("el espejo no quedó persistido")
	}
}

func TestScheduleFailsWithoutRemoteConfirmation(t *testing.T) {
	repo := newFakeRepo()
	clinic := &fakeClinic{createErr: &gateway.UnreachableError{Cause: errors.New("connection refused")}}
	svc := NewService(repo, clinic, logger.Nop())

	_, err := svc.Schedule(context.Background(), ScheduleInput{
		Pet:           "Luna",
		OwnerName:     "Jane Doe",
		Reason:        "Vaccination booster",
		PreferredDate: time.Date(2025, 4, 2, 11, 0, 0, 0, time.UTC),
	})
	if !gateway.IsUnreachable(err) {
		t.Fatalf("esperaba el error del gateway, vino: %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("no debe haber espejo sin turno remoto: %v", repo.items)
	}
}

func TestScheduleValidation(t *testing.T) {
	repo := newFakeRepo()
	clinic := &fakeClinic{}
	svc := NewService(repo, clinic, logger.Nop())

	_, err := svc.Schedule(context.Background(), ScheduleInput{
		OwnerName:     "Jane Doe",
		Reason:        "Vaccination booster",
		PreferredDate: time.Date(2025, 4, 2, 11, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("esperaba ErrInvalidInput, vino: %v", err)
	}
	if clinic.createCalls != 0 {
		t.Fatalf("la validación debe cortar antes de llamar a la clínica")
	}
}

func TestCancelCommitsLocallyWhenClinicIsDown(t *testing.T) {
	repo := newFakeRepo()
	clinic := &fakeClinic{cancelErr: &gateway.UnreachableError{Cause: errors.New("connection refused")}}
	svc := NewService(repo, clinic, logger.Nop())
	c := scheduled(t, svc, repo)

	got, warnings, err := svc.Cancel(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("cancel no debe fallar por el remoto: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("status = %q, esperaba cancelled", got.Status)
	}
	if len(warnings) == 0 {
		t.Fatalf("esperaba warning por la cancelación remota fallida")
	}
	if clinic.cancelCalls != 1 {
		t.Fatalf("cancelCalls = %d: hubo retry", clinic.cancelCalls)
	}
}

func TestCancelTwiceIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	clinic := &fakeClinic{}
	svc := NewService(repo, clinic, logger.Nop())
	c := scheduled(t, svc, repo)

	if _, _, err := svc.Cancel(context.Background(), c.ID); err != nil {
		t.Fatalf("primer cancel: %v", err)
	}
	got, warnings, err := svc.Cancel(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("segundo cancel: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("status = %q", got.Status)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings en no-op: %v", warnings)
	}
	if clinic.cancelCalls != 1 {
		t.Fatalf("cancelCalls = %d: el no-op volvió a llamar a la clínica", clinic.cancelCalls)
	}
}

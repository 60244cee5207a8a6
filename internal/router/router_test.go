package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	shelterapi "pet-adoption-network/internal/adapters/remote/shelter"
	vetapi "pet-adoption-network/internal/adapters/remote/vetclinic"
	"pet-adoption-network/internal/domain/clinic"
	"pet-adoption-network/internal/platform/logger"
)

var (
	staffHeaders = map[string]string{
		"X-Debug-User-ID": "staff-1",
		"X-Debug-Name":    "Admin",
		"X-Debug-Role":    "staff",
	}
	adopterHeaders = map[string]string{
		"X-Debug-User-ID": "user-7",
		"X-Debug-Name":    "Jane Doe",
	}
)

func doJSON(t *testing.T, method, url string, headers map[string]string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func doJSONList(t *testing.T, url string, headers map[string]string) (int, []map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out []map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func submitBody(animalID string) map[string]any {
	return map[string]any{
		"animal_id":      animalID,
		"phone":          "555-0101",
		"address":        "123 Elm St",
		"family_members": "2 adults",
		"previous_pets":  "one cat",
		"home_type":      "house",
		"yard_info":      "fenced yard",
		"work_schedule":  "remote",
		"pet_alone_time": "2 hours",
		"references":     "Dr. Smith 555-0202",
	}
}

// Levanta los tres servicios reales sobre httptest y corre el workflow
// completo: alta del animal, solicitud, aprobación, turno y espejo local.
func TestAdoptionWorkflowEndToEnd(t *testing.T) {
	shelterSrv := httptest.NewServer(NewShelterRouter(ShelterOptions{Log: logger.Nop()}))
	defer shelterSrv.Close()

	clinicHandler, err := NewVetClinicRouter(VetClinicOptions{
		Log: logger.Nop(),
		Roster: []clinic.Practitioner{
			{ID: "vet-1", Name: "Sarah Mitchell", Specialization: "general", Active: true},
		},
	})
	if err != nil {
		t.Fatalf("vetclinic router: %v", err)
	}
	clinicSrv := httptest.NewServer(clinicHandler)
	defer clinicSrv.Close()

	shelterGW, err := shelterapi.NewClient(shelterSrv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("shelter gateway: %v", err)
	}
	clinicGW, err := vetapi.NewClient(clinicSrv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("vetclinic gateway: %v", err)
	}

	portalSrv := httptest.NewServer(NewPortalRouter(PortalOptions{
		Shelter: shelterGW,
		Clinic:  clinicGW,
		Log:     logger.Nop(),
	}))
	defer portalSrv.Close()

	// Staff da de alta un animal en el shelter.
	status, created := doJSON(t, http.MethodPost, shelterSrv.URL+"/animals", staffHeaders, map[string]any{
		"name":    "Buddy",
		"species": "dog",
		"breed":   "Labrador",
		"age":     3,
	})
	if status != http.StatusCreated {
		t.Fatalf("add animal: status %d, body %v", status, created)
	}
	animalID, _ := created["id"].(string)
	if animalID == "" {
		t.Fatalf("add animal devolvió sin id: %v", created)
	}

	// El portal navega el inventario remoto.
	status, pets := doJSONList(t, portalSrv.URL+"/pets", nil)
	if status != http.StatusOK || len(pets) != 1 {
		t.Fatalf("browse pets: status %d, %d resultados", status, len(pets))
	}

	// El adoptante envía la solicitud.
	status, submitted := doJSON(t, http.MethodPost, portalSrv.URL+"/applications", adopterHeaders, submitBody(animalID))
	if status != http.StatusCreated {
		t.Fatalf("submit: status %d, body %v", status, submitted)
	}
	app, _ := submitted["application"].(map[string]any)
	appID, _ := app["id"].(string)
	if appID == "" || app["status"] != "pending" {
		t.Fatalf("submit devolvió application inesperada: %v", submitted)
	}
	if app["animal_name"] != "Buddy" {
		t.Fatalf("el snapshot debe venir del shelter, no del formulario: %v", app)
	}
	if ws, _ := submitted["warnings"].([]any); len(ws) != 0 {
		t.Fatalf("submit sin degradación no debe traer warnings: %v", ws)
	}

	// Un segundo submit del mismo adoptante por el mismo animal choca.
	status, _ = doJSON(t, http.MethodPost, portalSrv.URL+"/applications", adopterHeaders, submitBody(animalID))
	if status != http.StatusConflict {
		t.Fatalf("submit duplicado: status %d, esperaba 409", status)
	}

	// Staff aprueba: commit local + aviso al shelter + turno en la clínica.
	status, decided := doJSON(t, http.MethodPost, portalSrv.URL+"/applications/"+appID+"/decision", staffHeaders, map[string]any{
		"decision": "approved",
	})
	if status != http.StatusOK {
		t.Fatalf("decide: status %d, body %v", status, decided)
	}
	if decided["remote_notified"] != true {
		t.Fatalf("con el shelter arriba, remote_notified debe ser true: %v", decided)
	}
	apptID, _ := decided["appointment_id"].(string)
	if apptID == "" {
		t.Fatalf("la aprobación debe agendar el checkup: %v", decided)
	}
	if ws, _ := decided["warnings"].([]any); len(ws) != 0 {
		t.Fatalf("decisión sin degradación no debe traer warnings: %v", ws)
	}

	// El shelter marcó el animal como adoptado.
	status, animal := doJSON(t, http.MethodGet, shelterSrv.URL+"/animals/"+animalID, nil, nil)
	if status != http.StatusOK || animal["status"] != "adopted" {
		t.Fatalf("el animal debería estar adopted: status %d, %v", status, animal)
	}

	// El espejo local del portal tiene el checkup agendado.
	status, mirrors := doJSONList(t, portalSrv.URL+"/checkups", staffHeaders)
	if status != http.StatusOK || len(mirrors) != 1 {
		t.Fatalf("checkups: status %d, %d resultados", status, len(mirrors))
	}
	m := mirrors[0]
	if m["application_id"] != appID || m["remote_appointment_id"] != apptID {
		t.Fatalf("el espejo no referencia la solicitud/turno: %v", m)
	}
	if m["status"] != "scheduled" || m["vet"] != "Dr. Sarah Mitchell" {
		t.Fatalf("espejo inesperado: %v", m)
	}

	// Decidir dos veces no re-ejecuta nada.
	status, _ = doJSON(t, http.MethodPost, portalSrv.URL+"/applications/"+appID+"/decision", staffHeaders, map[string]any{
		"decision": "approved",
	})
	if status != http.StatusConflict {
		t.Fatalf("re-decisión: status %d, esperaba 409", status)
	}
}

// Con el shelter caído el submit igual se acepta, con el snapshot del
// formulario y warnings explicando la degradación.
func TestSubmitSucceedsWithShelterDown(t *testing.T) {
	deadShelter := httptest.NewServer(http.NotFoundHandler())
	deadShelter.Close() // queda la URL, no el servidor

	shelterGW, err := shelterapi.NewClient(deadShelter.URL, 300*time.Millisecond)
	if err != nil {
		t.Fatalf("shelter gateway: %v", err)
	}
	clinicGW, err := vetapi.NewClient("http://127.0.0.1:1", 300*time.Millisecond)
	if err != nil {
		t.Fatalf("vetclinic gateway: %v", err)
	}

	portalSrv := httptest.NewServer(NewPortalRouter(PortalOptions{
		Shelter: shelterGW,
		Clinic:  clinicGW,
		Log:     logger.Nop(),
	}))
	defer portalSrv.Close()

	body := submitBody("animal-remote-1")
	body["animal_name"] = "Paws"
	body["animal_species"] = "cat"

	status, submitted := doJSON(t, http.MethodPost, portalSrv.URL+"/applications", adopterHeaders, body)
	if status != http.StatusCreated {
		t.Fatalf("submit degradado: status %d, body %v", status, submitted)
	}
	app, _ := submitted["application"].(map[string]any)
	if app["status"] != "pending" || app["animal_name"] != "Paws" {
		t.Fatalf("el submit degradado debe usar el snapshot del formulario: %v", submitted)
	}
	ws, _ := submitted["warnings"].([]any)
	if len(ws) == 0 {
		t.Fatalf("el submit degradado debe traer warnings")
	}

	// La navegación, en cambio, sí degrada a 502.
	status, _ = doJSON(t, http.MethodGet, portalSrv.URL+"/pets", nil, nil)
	if status != http.StatusBadGateway {
		t.Fatalf("browse con shelter caído: status %d, esperaba 502", status)
	}
}

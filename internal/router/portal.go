package router

import (
	"database/sql"
	"net/http"

	mem "pet-adoption-network/internal/adapters/storage/memory"
	pg "pet-adoption-network/internal/adapters/storage/postgres"
	"pet-adoption-network/internal/domain/applications"
	"pet-adoption-network/internal/domain/checkups"
	"pet-adoption-network/internal/middleware"
	"pet-adoption-network/internal/platform/logger"
	"pet-adoption-network/internal/ports/auth"
	"pet-adoption-network/internal/ports/gateway"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PortalOptions struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Gateways hacia los otros servicios de la red.
	Shelter gateway.InventoryGateway
	Clinic  gateway.SchedulingGateway

	Log         logger.Logger
	CORSOrigins []string
}

// NewPortalRouter arma el portal: navegación del inventario remoto,
// solicitudes de adopción, decisiones y el espejo local de checkups.
func NewPortalRouter(opts PortalOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware(opts.CORSOrigins))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	var (
		appsRepo     applications.Repository
		checkupsRepo checkups.Repository
	)
	if opts.DB != nil {
		appsRepo = pg.NewApplicationsRepo(opts.DB)
		checkupsRepo = pg.NewCheckupsRepo(opts.DB)
	} else {
		appsRepo = mem.NewApplicationsRepo()
		checkupsRepo = mem.NewCheckupsRepo()
	}

	checkupsSvc := checkups.NewService(checkupsRepo, opts.Clinic, opts.Log)
	appsSvc := applications.NewService(appsRepo, opts.Shelter, opts.Clinic, checkupsSvc, opts.Log)

	applications.RegisterRoutes(r, appsSvc)
	checkups.RegisterRoutes(r, checkupsSvc)

	// Navegación del inventario remoto, passthrough de solo lectura.
	r.Get("/pets", browsePetsHandler(opts.Shelter))
	r.Get("/pets/{animalID}", browsePetHandler(opts.Shelter))

	return r
}

func browsePetsHandler(shelter gateway.InventoryGateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pets, err := shelter.ListAvailable(r.Context())
		if err != nil {
			writeGatewayError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pets)
	}
}

func browsePetHandler(shelter gateway.InventoryGateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := shelter.GetAnimal(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeGatewayError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// writeGatewayError traduce la clasificación del gateway a la respuesta del
// portal: 404 remoto pasa como 404, el resto degrada a 502/504.
func writeGatewayError(w http.ResponseWriter, err error) {
	if re, ok := gateway.AsRemoteError(err); ok && re.StatusCode == http.StatusNotFound {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Pet not found"})
		return
	}
	if gateway.IsTimeout(err) {
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "The shelter is taking too long to respond"})
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "The shelter is unavailable right now"})
}

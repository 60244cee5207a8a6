package router

import (
	"database/sql"
	"net/http"

	mem "pet-adoption-network/internal/adapters/storage/memory"
	sqlitestore "pet-adoption-network/internal/adapters/storage/sqlite"
	"pet-adoption-network/internal/domain/assistant"
	"pet-adoption-network/internal/domain/inventory"
	"pet-adoption-network/internal/middleware"
	"pet-adoption-network/internal/platform/logger"
	"pet-adoption-network/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

type ShelterOptions struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa SQLite. Si no, in-memory.
	DB *sql.DB

	Log         logger.Logger
	CORSOrigins []string
}

// NewShelterRouter arma el servicio de inventario: animales, decisiones
// entrantes del portal, activity log, stats y el asistente de comandos.
func NewShelterRouter(opts ShelterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware(opts.CORSOrigins))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	var invRepo inventory.Repository
	if opts.DB != nil {
		invRepo = sqlitestore.NewInventoryRepo(opts.DB)
	} else {
		invRepo = mem.NewInventoryRepo()
	}

	invSvc := inventory.NewService(invRepo, opts.Log)
	assistantSvc := assistant.NewService(invSvc)

	inventory.RegisterRoutes(r, invSvc)
	assistant.RegisterRoutes(r, assistantSvc)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Debug-User-ID", "X-Debug-Name", "X-Debug-Role"},
		AllowCredentials: false,
	}).Handler
}

package router

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	mem "pet-adoption-network/internal/adapters/storage/memory"
	sqlitestore "pet-adoption-network/internal/adapters/storage/sqlite"
	"pet-adoption-network/internal/domain/clinic"
	"pet-adoption-network/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type VetClinicOptions struct {
	// Opcional: si viene, usa SQLite. Si no, in-memory.
	DB *sql.DB

	// Roster declarado en configuración. Se siembra al armar el router.
	Roster []clinic.Practitioner

	Log         logger.Logger
	CORSOrigins []string
}

// NewVetClinicRouter arma el servicio de turnos. Siembra el roster antes de
// aceptar tráfico; sin roster no hay a quién asignar turnos.
func NewVetClinicRouter(opts VetClinicOptions) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware(opts.CORSOrigins))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	var repo clinic.Repository
	if opts.DB != nil {
		repo = sqlitestore.NewClinicRepo(opts.DB)
	} else {
		repo = mem.NewClinicRepo()
	}

	svc := clinic.NewService(repo, opts.Log)
	if err := svc.SeedRoster(context.Background(), opts.Roster); err != nil {
		return nil, err
	}

	clinic.RegisterRoutes(r, svc)

	return r, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

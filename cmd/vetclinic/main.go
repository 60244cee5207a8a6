package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pet-adoption-network/internal/adapters/storage/sqlite"
	"pet-adoption-network/internal/config"
	"pet-adoption-network/internal/domain/clinic"
	"pet-adoption-network/internal/platform/logger"
	"pet-adoption-network/internal/router"
)

func main() {
	cfg := config.LoadVetClinic()

	lg := logger.New(logger.Options{
		Level:   logger.ParseLevel(cfg.LogLevel),
		Format:  logger.ParseFormat(cfg.LogFormat),
		Service: "vetclinic",
	})

	roster := make([]clinic.Practitioner, 0, len(cfg.Roster))
	for _, p := range cfg.Roster {
		roster = append(roster, clinic.Practitioner{
			ID:                p.ID,
			Name:              p.Name,
			Email:             p.Email,
			Specialization:    p.Specialization,
			Active:            true,
			WorkingHoursStart: p.WorkingHoursStart,
			WorkingHoursEnd:   p.WorkingHoursEnd,
		})
	}

	opts := router.VetClinicOptions{
		Log:    lg,
		Roster: roster,
	}

	if cfg.DBPath != "" {
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("sqlite open: %v", err)
		}
		defer db.Close()
		if err := sqlite.EnsureSchema(context.Background(), db); err != nil {
			log.Fatalf("sqlite schema: %v", err)
		}
		opts.DB = db
	}

	h, err := router.NewVetClinicRouter(opts)
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		lg.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

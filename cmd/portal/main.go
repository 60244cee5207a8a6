package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pet-adoption-network/internal/adapters/remote/shelter"
	"pet-adoption-network/internal/adapters/remote/vetclinic"
	"pet-adoption-network/internal/adapters/storage/postgres"
	"pet-adoption-network/internal/config"
	"pet-adoption-network/internal/platform/logger"
	"pet-adoption-network/internal/router"
)

func main() {
	cfg := config.LoadPortal()

	lg := logger.New(logger.Options{
		Level:   logger.ParseLevel(cfg.LogLevel),
		Format:  logger.ParseFormat(cfg.LogFormat),
		Service: "portal",
	})

	shelterGW, err := shelter.NewClient(cfg.ShelterURL, cfg.GatewayTimeout)
	if err != nil {
		log.Fatalf("shelter gateway: %v", err)
	}
	clinicGW, err := vetclinic.NewClient(cfg.VetClinicURL, cfg.GatewayTimeout)
	if err != nil {
		log.Fatalf("vetclinic gateway: %v", err)
	}

	opts := router.PortalOptions{
		AuthVerifier: nil, // sin verifier para modo dev
		Shelter:      shelterGW,
		Clinic:       clinicGW,
		Log:          lg,
		CORSOrigins:  cfg.CORSOrigins,
	}

	if cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Fatalf("postgres open: %v", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			log.Fatalf("postgres schema: %v", err)
		}
		opts.DB = db
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.NewPortalRouter(opts),
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

// Package sqlite persiste el inventario del shelter y los turnos de la
// clínica en un archivo local. Es el store por defecto de ambos servicios;
// memoria queda para tests y Postgres para el portal.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("not found")
)

// Open abre (o crea) la base en path. WAL + busy_timeout para tolerar
// escritores concurrentes del mismo proceso.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, err
	}

	// SQLite maneja un escritor a la vez; más conexiones solo suman lock contention.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema crea las tablas si no existen. Idempotente; corre al boot.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS animals (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			species TEXT NOT NULL,
			breed TEXT NOT NULL DEFAULT '',
			age INTEGER NOT NULL DEFAULT 0,
			gender TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			energy_level TEXT NOT NULL DEFAULT '',
			good_with_kids INTEGER NOT NULL DEFAULT 0,
			good_with_dogs INTEGER NOT NULL DEFAULT 0,
			good_with_cats INTEGER NOT NULL DEFAULT 0,
			good_with_pets INTEGER NOT NULL DEFAULT 0,
			vaccinated INTEGER NOT NULL DEFAULT 0,
			spayed_neutered INTEGER NOT NULL DEFAULT 0,
			microchipped INTEGER NOT NULL DEFAULT 0,
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS animal_images (
			id TEXT PRIMARY KEY,
			animal_id TEXT NOT NULL REFERENCES animals(id),
			url TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			is_primary INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS activity_log (
			id TEXT PRIMARY KEY,
			animal_id TEXT NOT NULL,
			actor_id TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			ts TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS practitioners (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			specialization TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			working_hours_start INTEGER NOT NULL DEFAULT 8,
			working_hours_end INTEGER NOT NULL DEFAULT 20
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id TEXT PRIMARY KEY,
			pet_name TEXT NOT NULL,
			species TEXT NOT NULL DEFAULT '',
			breed TEXT NOT NULL DEFAULT '',
			owner_name TEXT NOT NULL,
			owner_email TEXT NOT NULL DEFAULT '',
			owner_phone TEXT NOT NULL DEFAULT '',
			practitioner_id TEXT NOT NULL REFERENCES practitioners(id),
			start_at TIMESTAMP NOT NULL,
			duration_minutes INTEGER NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			calendar_event_id TEXT NOT NULL DEFAULT '',
			idempotency_key TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_animal ON activity_log(animal_id)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_practitioner ON appointments(practitioner_id, start_at)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_idem ON appointments(idempotency_key) WHERE idempotency_key <> ''`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

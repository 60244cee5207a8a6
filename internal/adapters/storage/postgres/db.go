package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrNotFound = errors.New("not found")
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para MVP (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas del portal si no existen. Idempotente.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS adoption_applications (
			id TEXT PRIMARY KEY,
			applicant_user_id TEXT NOT NULL,
			applicant_name TEXT NOT NULL DEFAULT '',
			applicant_email TEXT NOT NULL DEFAULT '',
			applicant_phone TEXT NOT NULL DEFAULT '',
			applicant_address TEXT NOT NULL DEFAULT '',
			animal_id TEXT NOT NULL,
			animal_name TEXT NOT NULL DEFAULT '',
			animal_species TEXT NOT NULL DEFAULT '',
			animal_breed TEXT NOT NULL DEFAULT '',
			family_members TEXT NOT NULL DEFAULT '',
			previous_pets TEXT NOT NULL DEFAULT '',
			home_type TEXT NOT NULL DEFAULT '',
			yard_info TEXT NOT NULL DEFAULT '',
			work_schedule TEXT NOT NULL DEFAULT '',
			pet_alone_time TEXT NOT NULL DEFAULT '',
			vet_contact TEXT NOT NULL DEFAULT '',
			reference_contacts TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_applicant
			ON adoption_applications(applicant_user_id, animal_id)`,
		`CREATE TABLE IF NOT EXISTS checkups (
			id TEXT PRIMARY KEY,
			application_id TEXT NOT NULL,
			remote_appointment_id TEXT NOT NULL DEFAULT '',
			checkup_date TIMESTAMPTZ NOT NULL,
			pet TEXT NOT NULL DEFAULT '',
			vet TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_checkups_application ON checkups(application_id)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

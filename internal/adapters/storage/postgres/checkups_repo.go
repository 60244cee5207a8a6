package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-adoption-network/internal/domain/checkups"
)

type CheckupsRepo struct {
	db *sql.DB
}

func NewCheckupsRepo(db *sql.DB) *CheckupsRepo {
	return &CheckupsRepo{db: db}
}

const checkupColumns = `
	id, application_id, remote_appointment_id,
	checkup_date, pet, vet, reason,
	status, created_at, updated_at
`

func (r *CheckupsRepo) Create(ctx context.Context, c checkups.Checkup) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO checkups (`+checkupColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		c.ID,
		c.ApplicationID,
		c.RemoteAppointmentID,
		c.Date,
		c.Pet,
		c.Vet,
		c.Reason,
		string(c.Status),
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func scanCheckup(row interface{ Scan(...any) error }) (checkups.Checkup, error) {
	var c checkups.Checkup
	var status string
	if err := row.Scan(
		&c.ID,
		&c.ApplicationID,
		&c.RemoteAppointmentID,
		&c.Date,
		&c.Pet,
		&c.Vet,
		&c.Reason,
		&status,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return checkups.Checkup{}, err
	}
	c.Status = checkups.Status(status)
	return c, nil
}

func (r *CheckupsRepo) GetByID(ctx context.Context, id string) (checkups.Checkup, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+checkupColumns+` FROM checkups WHERE id = $1`, id)
	c, err := scanCheckup(row)
	if err == sql.ErrNoRows {
		return checkups.Checkup{}, ErrNotFound
	}
	return c, err
}

func (r *CheckupsRepo) GetByApplicationID(ctx context.Context, applicationID string) (checkups.Checkup, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+checkupColumns+`
		FROM checkups
		WHERE application_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, applicationID)
	c, err := scanCheckup(row)
	if err == sql.ErrNoRows {
		return checkups.Checkup{}, ErrNotFound
	}
	return c, err
}

func (r *CheckupsRepo) List(ctx context.Context) ([]checkups.Checkup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+checkupColumns+` FROM checkups ORDER BY checkup_date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]checkups.Checkup, 0)
	for rows.Next() {
		c, err := scanCheckup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CheckupsRepo) UpdateStatus(ctx context.Context, id string, status checkups.Status) (checkups.Checkup, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE checkups
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+checkupColumns+`
	`, id, string(status), time.Now().UTC())
	c, err := scanCheckup(row)
	if err == sql.ErrNoRows {
		return checkups.Checkup{}, ErrNotFound
	}
	return c, err
}

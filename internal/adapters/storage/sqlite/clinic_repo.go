package sqlite

import (
	"context"
	"database/sql"
	"time"

	"pet-adoption-network/internal/domain/clinic"
)

type ClinicRepo struct {
	db *sql.DB
}

func NewClinicRepo(db *sql.DB) *ClinicRepo {
	return &ClinicRepo{db: db}
}

const appointmentColumns = `
	id, pet_name, species, breed,
	owner_name, owner_email, owner_phone,
	practitioner_id, start_at, duration_minutes,
	reason, status, notes, calendar_event_id, idempotency_key,
	created_at, updated_at
`

// CreateAppointment corre el chequeo de no-solapamiento y el insert dentro
// de la misma transacción: con una sola conexión de escritura en SQLite,
// la transacción es el punto de serialización.
func (r *ClinicRepo) CreateAppointment(ctx context.Context, a clinic.Appointment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	dayStart := time.Date(a.Start.Year(), a.Start.Month(), a.Start.Day(), 0, 0, 0, 0, a.Start.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := tx.QueryContext(ctx, `
		SELECT start_at, duration_minutes
		FROM appointments
		WHERE practitioner_id = ?
		  AND status IN ('scheduled', 'confirmed')
		  AND start_at >= ? AND start_at < ?
	`, a.PractitionerID, dayStart, dayEnd)
	if err != nil {
		return err
	}
	for rows.Next() {
		var start time.Time
		var minutes int
		if err := rows.Scan(&start, &minutes); err != nil {
			rows.Close()
			return err
		}
		if clinic.Overlaps(start, minutes, a.Start, a.DurationMinutes) {
			rows.Close()
			return clinic.ErrConflict
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		a.ID,
		a.PetName,
		a.Species,
		a.Breed,
		a.OwnerName,
		a.OwnerEmail,
		a.OwnerPhone,
		a.PractitionerID,
		a.Start,
		a.DurationMinutes,
		a.Reason,
		string(a.Status),
		a.Notes,
		a.CalendarEventID,
		a.IdempotencyKey,
		a.CreatedAt,
		a.UpdatedAt,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func scanAppointment(row interface{ Scan(...any) error }) (clinic.Appointment, error) {
	var a clinic.Appointment
	var status string
	if err := row.Scan(
		&a.ID,
		&a.PetName,
		&a.Species,
		&a.Breed,
		&a.OwnerName,
		&a.OwnerEmail,
		&a.OwnerPhone,
		&a.PractitionerID,
		&a.Start,
		&a.DurationMinutes,
		&a.Reason,
		&status,
		&a.Notes,
		&a.CalendarEventID,
		&a.IdempotencyKey,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return clinic.Appointment{}, err
	}
	a.Status = clinic.AppointmentStatus(status)
	return a, nil
}

func (r *ClinicRepo) GetAppointment(ctx context.Context, id string) (clinic.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return clinic.Appointment{}, ErrNotFound
	}
	return a, err
}

func (r *ClinicRepo) GetByIdempotencyKey(ctx context.Context, key string) (clinic.Appointment, error) {
	if key == "" {
		return clinic.Appointment{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE idempotency_key = ?`, key)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return clinic.Appointment{}, ErrNotFound
	}
	return a, err
}

func (r *ClinicRepo) UpdateAppointment(ctx context.Context, a clinic.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET status = ?, notes = ?, calendar_event_id = ?, updated_at = ?
		WHERE id = ?
	`, string(a.Status), a.Notes, a.CalendarEventID, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ClinicRepo) ListByPractitionerAndDay(ctx context.Context, practitionerID string, day time.Time) ([]clinic.Appointment, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE practitioner_id = ? AND start_at >= ? AND start_at < ?
		ORDER BY start_at ASC
	`, practitionerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]clinic.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ClinicRepo) CountBlocking(ctx context.Context, practitionerID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM appointments
		WHERE practitioner_id = ? AND status IN ('scheduled', 'confirmed')
	`, practitionerID).Scan(&count)
	return count, err
}

func (r *ClinicRepo) UpsertPractitioner(ctx context.Context, p clinic.Practitioner) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO practitioners (id, name, email, specialization, active, working_hours_start, working_hours_end)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			specialization = excluded.specialization,
			active = excluded.active,
			working_hours_start = excluded.working_hours_start,
			working_hours_end = excluded.working_hours_end
	`, p.ID, p.Name, p.Email, p.Specialization, p.Active, p.WorkingHoursStart, p.WorkingHoursEnd)
	return err
}

func (r *ClinicRepo) GetPractitioner(ctx context.Context, id string) (clinic.Practitioner, error) {
	var p clinic.Practitioner
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, specialization, active, working_hours_start, working_hours_end
		FROM practitioners
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Email, &p.Specialization, &p.Active, &p.WorkingHoursStart, &p.WorkingHoursEnd)
	if err == sql.ErrNoRows {
		return clinic.Practitioner{}, ErrNotFound
	}
	return p, err
}

func (r *ClinicRepo) ListActivePractitioners(ctx context.Context) ([]clinic.Practitioner, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, specialization, active, working_hours_start, working_hours_end
		FROM practitioners
		WHERE active = 1
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]clinic.Practitioner, 0)
	for rows.Next() {
		var p clinic.Practitioner
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Specialization, &p.Active, &p.WorkingHoursStart, &p.WorkingHoursEnd); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

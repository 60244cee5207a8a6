package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"pet-adoption-network/internal/domain/applications"
)

type ApplicationsRepo struct {
	db *sql.DB
}

func NewApplicationsRepo(db *sql.DB) *ApplicationsRepo {
	return &ApplicationsRepo{db: db}
}

const applicationColumns = `
	id,
	applicant_user_id, applicant_name, applicant_email, applicant_phone, applicant_address,
	animal_id, animal_name, animal_species, animal_breed,
	family_members, previous_pets, home_type, yard_info,
	work_schedule, pet_alone_time, vet_contact, reference_contacts, message,
	status, submitted_at, updated_at
`

func (r *ApplicationsRepo) Create(ctx context.Context, app applications.Application) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO adoption_applications (`+applicationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`,
		app.ID,
		app.Applicant.UserID,
		app.Applicant.Name,
		app.Applicant.Email,
		app.Applicant.Phone,
		app.Applicant.Address,
		app.Animal.AnimalID,
		app.Animal.Name,
		app.Animal.Species,
		app.Animal.Breed,
		app.Questionnaire.FamilyMembers,
		app.Questionnaire.PreviousPets,
		app.Questionnaire.HomeType,
		app.Questionnaire.YardInfo,
		app.Questionnaire.WorkSchedule,
		app.Questionnaire.PetAloneTime,
		app.Questionnaire.VetContact,
		app.Questionnaire.References,
		app.Questionnaire.Message,
		string(app.Status),
		app.SubmittedAt,
		app.UpdatedAt,
	)
	return err
}

func scanApplication(row interface{ Scan(...any) error }) (applications.Application, error) {
	var app applications.Application
	var status string
	if err := row.Scan(
		&app.ID,
		&app.Applicant.UserID,
		&app.Applicant.Name,
		&app.Applicant.Email,
		&app.Applicant.Phone,
		&app.Applicant.Address,
		&app.Animal.AnimalID,
		&app.Animal.Name,
		&app.Animal.Species,
		&app.Animal.Breed,
		&app.Questionnaire.FamilyMembers,
		&app.Questionnaire.PreviousPets,
		&app.Questionnaire.HomeType,
		&app.Questionnaire.YardInfo,
		&app.Questionnaire.WorkSchedule,
		&app.Questionnaire.PetAloneTime,
		&app.Questionnaire.VetContact,
		&app.Questionnaire.References,
		&app.Questionnaire.Message,
		&status,
		&app.SubmittedAt,
		&app.UpdatedAt,
	); err != nil {
		return applications.Application{}, err
	}
	app.Status = applications.Status(status)
	return app, nil
}

func (r *ApplicationsRepo) GetByID(ctx context.Context, id string) (applications.Application, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM adoption_applications
		WHERE id = $1
	`, id)
	app, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return applications.Application{}, ErrNotFound
	}
	return app, err
}

func (r *ApplicationsRepo) List(ctx context.Context, f applications.Filter) ([]applications.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM adoption_applications WHERE 1=1`
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if f.ApplicantID != "" {
		args = append(args, f.ApplicantID)
		query += ` AND applicant_user_id = $` + strconv.Itoa(len(args))
	}
	if f.AnimalID != "" {
		args = append(args, f.AnimalID)
		query += ` AND animal_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]applications.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func (r *ApplicationsRepo) UpdateStatus(ctx context.Context, id string, from, to applications.Status) (applications.Application, error) {
	// El WHERE sobre el estado previo hace la transición atómica: si otra
	// decisión ya la movió, no hay fila y la transición falla.
	row := r.db.QueryRowContext(ctx, `
		UPDATE adoption_applications
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
		RETURNING `+applicationColumns+`
	`, id, string(to), time.Now().UTC(), string(from))
	app, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return applications.Application{}, ErrNotFound
	}
	return app, err
}

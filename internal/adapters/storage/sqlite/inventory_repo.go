package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"pet-adoption-network/internal/domain/inventory"
)

type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

const animalColumns = `
	id, name, species, breed, age, gender,
	status, description, energy_level,
	good_with_kids, good_with_dogs, good_with_cats, good_with_pets,
	vaccinated, spayed_neutered, microchipped,
	created_by, created_at
`

func (r *InventoryRepo) CreateAnimal(ctx context.Context, a inventory.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		a.ID,
		a.Name,
		string(a.Species),
		a.Breed,
		a.Age,
		a.Gender,
		string(a.Status),
		a.Description,
		a.EnergyLevel,
		a.Traits.GoodWithKids,
		a.Traits.GoodWithDogs,
		a.Traits.GoodWithCats,
		a.Traits.GoodWithPets,
		a.Vaccinated,
		a.SpayedNeutered,
		a.Microchipped,
		a.CreatedBy,
		a.CreatedAt,
	)
	return err
}

func scanAnimal(row interface{ Scan(...any) error }) (inventory.Animal, error) {
	var a inventory.Animal
	var species, status string
	if err := row.Scan(
		&a.ID,
		&a.Name,
		&species,
		&a.Breed,
		&a.Age,
		&a.Gender,
		&status,
		&a.Description,
		&a.EnergyLevel,
		&a.Traits.GoodWithKids,
		&a.Traits.GoodWithDogs,
		&a.Traits.GoodWithCats,
		&a.Traits.GoodWithPets,
		&a.Vaccinated,
		&a.SpayedNeutered,
		&a.Microchipped,
		&a.CreatedBy,
		&a.CreatedAt,
	); err != nil {
		return inventory.Animal{}, err
	}
	a.Species = inventory.Species(species)
	a.Status = inventory.Status(status)
	return a, nil
}

func (r *InventoryRepo) GetAnimal(ctx context.Context, id string) (inventory.Animal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = ?`, id)
	a, err := scanAnimal(row)
	if err == sql.ErrNoRows {
		return inventory.Animal{}, ErrNotFound
	}
	return a, err
}

func (r *InventoryRepo) ListAnimals(ctx context.Context, f inventory.Filter) ([]inventory.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE 1=1`
	var args []any
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.Species != "" {
		query += ` AND species = ?`
		args = append(args, string(f.Species))
	}
	if f.Breed != "" {
		query += ` AND breed = ? COLLATE NOCASE`
		args = append(args, f.Breed)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *InventoryRepo) SearchByName(ctx context.Context, name string) ([]inventory.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE name LIKE ? COLLATE NOCASE
		ORDER BY name ASC
	`, "%"+strings.TrimSpace(name)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *InventoryRepo) UpdateStatus(ctx context.Context, id string, status inventory.Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE animals SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) AddImage(ctx context.Context, img inventory.AnimalImage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Una sola primaria por animal.
	if img.IsPrimary {
		if _, err := tx.ExecContext(ctx,
			`UPDATE animal_images SET is_primary = 0 WHERE animal_id = ?`, img.AnimalID); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO animal_images (id, animal_id, url, caption, is_primary, created_at)
		VALUES (?,?,?,?,?,?)
	`, img.ID, img.AnimalID, img.URL, img.Caption, img.IsPrimary, img.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *InventoryRepo) ListImages(ctx context.Context, animalID string) ([]inventory.AnimalImage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, animal_id, url, caption, is_primary, created_at
		FROM animal_images
		WHERE animal_id = ?
		ORDER BY created_at ASC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.AnimalImage, 0)
	for rows.Next() {
		var img inventory.AnimalImage
		if err := rows.Scan(&img.ID, &img.AnimalID, &img.URL, &img.Caption, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *InventoryRepo) AppendActivity(ctx context.Context, e inventory.ActivityLogEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, animal_id, actor_id, action, description, ts)
		VALUES (?,?,?,?,?,?)
	`, e.ID, e.AnimalID, e.ActorID, e.Action, e.Description, e.Timestamp)
	return err
}

func (r *InventoryRepo) ListActivity(ctx context.Context, animalID string) ([]inventory.ActivityLogEntry, error) {
	return r.queryActivity(ctx, `
		SELECT id, animal_id, actor_id, action, description, ts
		FROM activity_log
		WHERE animal_id = ?
		ORDER BY ts DESC
	`, animalID)
}

func (r *InventoryRepo) ListRecentActivity(ctx context.Context, limit int) ([]inventory.ActivityLogEntry, error) {
	return r.queryActivity(ctx, `
		SELECT id, animal_id, actor_id, action, description, ts
		FROM activity_log
		ORDER BY ts DESC
		LIMIT ?
	`, limit)
}

func (r *InventoryRepo) queryActivity(ctx context.Context, query string, args ...any) ([]inventory.ActivityLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.ActivityLogEntry, 0)
	for rows.Next() {
		var e inventory.ActivityLogEntry
		if err := rows.Scan(&e.ID, &e.AnimalID, &e.ActorID, &e.Action, &e.Description, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *InventoryRepo) Stats(ctx context.Context) (inventory.Stats, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'available' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'adopted' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN species = 'dog' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN species = 'cat' THEN 1 ELSE 0 END), 0)
		FROM animals
	`)
	var st inventory.Stats
	if err := row.Scan(&st.Total, &st.Available, &st.Pending, &st.Adopted, &st.Dogs, &st.Cats); err != nil {
		return inventory.Stats{}, err
	}
	return st, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fureverhome/fureverhome-go/internal/model"
)

// MaxListLimit caps every listing query.
const MaxListLimit = 100

// PetRepository handles pet persistence operations.
type PetRepository struct {
	db *sql.DB
}

// NewPetRepository creates a new PetRepository.
func NewPetRepository(db *sql.DB) *PetRepository {
	return &PetRepository{db: db}
}

const petColumns = `id, name, age, category, location, image_url, short_description, long_description, provider_email, adopted, created_at`

// Create inserts a new pet. ID and CreatedAt must already be set.
func (r *PetRepository) Create(ctx context.Context, pet *model.Pet) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pets (`+petColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pet.ID, pet.Name, pet.Age, pet.Category, pet.Location, pet.ImageURL,
		pet.ShortDescription, pet.LongDescription, pet.ProviderEmail, pet.Adopted, pet.CreatedAt,
	)
	return err
}

// GetByID retrieves a pet by its ID.
func (r *PetRepository) GetByID(ctx context.Context, id string) (*model.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id)

	pet, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	return pet, nil
}

// ListAvailable returns non-adopted pets matching the filter, newest first.
func (r *PetRepository) ListAvailable(ctx context.Context, f model.PetFilter) ([]model.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE adopted = FALSE`
	var args []any

	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Search != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+escapeLike(f.Search)+"%")
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, clampLimit(f.Limit))

	return r.list(ctx, query, args...)
}

// ListAll returns every pet, adopted or not, newest first.
func (r *PetRepository) ListAll(ctx context.Context) ([]model.Pet, error) {
	return r.list(ctx, `SELECT `+petColumns+` FROM pets ORDER BY created_at DESC`)
}

// ListByProvider returns the pets published by one provider.
func (r *PetRepository) ListByProvider(ctx context.Context, email string) ([]model.Pet, error) {
	return r.list(ctx, `SELECT `+petColumns+` FROM pets WHERE provider_email = ? ORDER BY created_at DESC`, email)
}

// Update overwrites the editable fields of a pet.
func (r *PetRepository) Update(ctx context.Context, pet *model.Pet) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE pets SET name = ?, age = ?, category = ?, location = ?, image_url = ?, short_description = ?, long_description = ? WHERE id = ?`,
		pet.Name, pet.Age, pet.Category, pet.Location, pet.ImageURL,
		pet.ShortDescription, pet.LongDescription, pet.ID,
	)
	if err != nil {
		return err
	}
	return affectedOr(result, ErrPetNotFound)
}

// ClearAdopted marks a pet available again. A pet whose adoption went through
// an approved request stays adopted; the pet row lock serializes this with Approve.
func (r *PetRepository) ClearAdopted(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var adopted bool
		err := tx.QueryRowContext(ctx, `SELECT adopted FROM pets WHERE id = ? FOR UPDATE`, id).Scan(&adopted)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPetNotFound
			}
			return err
		}
		if !adopted {
			return nil
		}

		var approved int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM adoption_requests WHERE pet_id = ? AND status = ?`,
			id, model.AdoptionApproved,
		).Scan(&approved)
		if err != nil {
			return err
		}
		if approved > 0 {
			return ErrPetHasApprovedRequest
		}

		_, err = tx.ExecContext(ctx, `UPDATE pets SET adopted = FALSE WHERE id = ?`, id)
		return err
	})
}

// Delete removes a pet and, through the foreign key, its adoption requests.
func (r *PetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOr(result, ErrPetNotFound)
}

func (r *PetRepository) list(ctx context.Context, query string, args ...any) ([]model.Pet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pets := []model.Pet{}
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		pets = append(pets, *p)
	}
	return pets, rows.Err()
}

func scanPet(s rowScanner) (*model.Pet, error) {
	p := &model.Pet{}
	err := s.Scan(
		&p.ID, &p.Name, &p.Age, &p.Category, &p.Location, &p.ImageURL,
		&p.ShortDescription, &p.LongDescription, &p.ProviderEmail, &p.Adopted, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func clampLimit(n int) int {
	if n <= 0 || n > MaxListLimit {
		return MaxListLimit
	}
	return n
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

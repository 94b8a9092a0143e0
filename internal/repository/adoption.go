package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fureverhome/fureverhome-go/internal/model"
)

// AdoptionRepository handles adoption request persistence operations.
type AdoptionRepository struct {
	db *sql.DB
}

// NewAdoptionRepository creates a new AdoptionRepository.
func NewAdoptionRepository(db *sql.DB) *AdoptionRepository {
	return &AdoptionRepository{db: db}
}

const adoptionColumns = `id, pet_id, requester_email, requester_name, phone, address, provider_email, status, created_at`

// Create inserts a pending request. The (pet_id, requester_email) unique key
// turns a repeated submission into ErrDuplicateRequest without a prior read.
func (r *AdoptionRepository) Create(ctx context.Context, req *model.AdoptionRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO adoption_requests (`+adoptionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.PetID, req.RequesterEmail, req.RequesterName, req.Phone, req.Address,
		req.ProviderEmail, req.Status, req.CreatedAt,
	)
	switch {
	case isDuplicateEntryError(err):
		return ErrDuplicateRequest
	case isForeignKeyError(err):
		return ErrPetNotFound
	}
	return err
}

// GetByID retrieves an adoption request by its ID.
func (r *AdoptionRepository) GetByID(ctx context.Context, id string) (*model.AdoptionRequest, error) {
	return getAdoption(ctx, r.db, `SELECT `+adoptionColumns+` FROM adoption_requests WHERE id = ?`, id)
}

// ListByProvider returns the requests received for a provider's pets.
func (r *AdoptionRepository) ListByProvider(ctx context.Context, email string) ([]model.AdoptionRequest, error) {
	return r.list(ctx, `SELECT `+adoptionColumns+` FROM adoption_requests WHERE provider_email = ? ORDER BY created_at DESC`, email)
}

// ListByRequester returns the requests a user has sent.
func (r *AdoptionRepository) ListByRequester(ctx context.Context, email string) ([]model.AdoptionRequest, error) {
	return r.list(ctx, `SELECT `+adoptionColumns+` FROM adoption_requests WHERE requester_email = ? ORDER BY created_at DESC`, email)
}

// Approve marks the pet adopted and the request approved in one transaction.
// Only a pending request for a not-yet-adopted pet can be approved.
func (r *AdoptionRepository) Approve(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		req, err := getAdoption(ctx, tx, `SELECT `+adoptionColumns+` FROM adoption_requests WHERE id = ? FOR UPDATE`, id)
		if err != nil {
			return err
		}
		if req.Status != model.AdoptionPending {
			return ErrRequestNotPending
		}

		result, err := tx.ExecContext(ctx, `UPDATE pets SET adopted = TRUE WHERE id = ? AND adopted = FALSE`, req.PetID)
		if err != nil {
			return err
		}
		if err := affectedOr(result, ErrPetAlreadyAdopted); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE adoption_requests SET status = ? WHERE id = ?`, model.AdoptionApproved, id)
		return err
	})
}

// Reject marks a pending request rejected. The pet is not touched.
func (r *AdoptionRepository) Reject(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE adoption_requests SET status = ? WHERE id = ? AND status = ?`,
		model.AdoptionRejected, id, model.AdoptionPending,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// Nothing matched: tell a missing request apart from a settled one.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrRequestNotPending
}

func (r *AdoptionRepository) list(ctx context.Context, query string, args ...any) ([]model.AdoptionRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := []model.AdoptionRequest{}
	for rows.Next() {
		a, err := scanAdoption(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *a)
	}
	return reqs, rows.Err()
}

func getAdoption(ctx context.Context, q querier, query string, id string) (*model.AdoptionRequest, error) {
	a, err := scanAdoption(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return a, nil
}

func scanAdoption(s rowScanner) (*model.AdoptionRequest, error) {
	a := &model.AdoptionRequest{}
	err := s.Scan(
		&a.ID, &a.PetID, &a.RequesterEmail, &a.RequesterName, &a.Phone, &a.Address,
		&a.ProviderEmail, &a.Status, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

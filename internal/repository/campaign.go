package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fureverhome/fureverhome-go/internal/model"
)

// CampaignRepository handles donation campaign persistence operations.
type CampaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

const campaignColumns = `id, creator_email, pet_name, pet_image_url, max_donation_amount, last_donation_date, short_description, long_description, donated_amount, status, created_at`

// Create inserts a new campaign with a zero total.
func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO donation_campaigns (`+campaignColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CreatorEmail, c.PetName, c.PetImageURL, c.MaxDonationAmount, c.LastDonationDate,
		c.ShortDescription, c.LongDescription, decimal.Zero, c.Status, c.CreatedAt,
	)
	return err
}

// GetByID retrieves a campaign by its ID.
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM donation_campaigns WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns campaigns ordered by last donation date, latest first.
func (r *CampaignRepository) List(ctx context.Context, limit int) ([]model.Campaign, error) {
	return r.list(ctx, `SELECT `+campaignColumns+` FROM donation_campaigns ORDER BY last_donation_date DESC, created_at DESC LIMIT ?`, clampLimit(limit))
}

// ListAll returns every campaign in the same order as List, without a cap.
func (r *CampaignRepository) ListAll(ctx context.Context) ([]model.Campaign, error) {
	return r.list(ctx, `SELECT `+campaignColumns+` FROM donation_campaigns ORDER BY last_donation_date DESC, created_at DESC`)
}

// ListByCreator returns the campaigns a user created.
func (r *CampaignRepository) ListByCreator(ctx context.Context, email string) ([]model.Campaign, error) {
	return r.list(ctx, `SELECT `+campaignColumns+` FROM donation_campaigns WHERE creator_email = ? ORDER BY created_at DESC`, email)
}

// Update overwrites the editable fields. The total and status are left alone.
func (r *CampaignRepository) Update(ctx context.Context, c *model.Campaign) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE donation_campaigns SET pet_name = ?, pet_image_url = ?, max_donation_amount = ?, last_donation_date = ?, short_description = ?, long_description = ? WHERE id = ?`,
		c.PetName, c.PetImageURL, c.MaxDonationAmount, c.LastDonationDate,
		c.ShortDescription, c.LongDescription, c.ID,
	)
	if err != nil {
		return err
	}
	return affectedOr(result, ErrCampaignNotFound)
}

// SetStatus pauses or resumes a campaign.
func (r *CampaignRepository) SetStatus(ctx context.Context, id string, status model.CampaignStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE donation_campaigns SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return affectedOr(result, ErrCampaignNotFound)
}

// Delete removes a campaign and, through the foreign key, its donations.
func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM donation_campaigns WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOr(result, ErrCampaignNotFound)
}

// AddToTotal atomically adds delta to the campaign total and returns the new total.
func (r *CampaignRepository) AddToTotal(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		total, err = addToTotal(ctx, tx, id, delta)
		return err
	})
	return total, err
}

// Reconcile recomputes the campaign total from its donation records.
func (r *CampaignRepository) Reconcile(ctx context.Context, id string) (model.ReconcileResult, error) {
	res := model.ReconcileResult{CampaignID: id}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT donated_amount FROM donation_campaigns WHERE id = ? FOR UPDATE`, id).Scan(&res.Before)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCampaignNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM donations WHERE campaign_id = ?`, id).Scan(&res.After); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE donation_campaigns SET donated_amount = ? WHERE id = ?`, res.After, id)
		return err
	})
	if err != nil {
		return model.ReconcileResult{}, err
	}
	res.Drift = res.Before.Sub(res.After)
	return res, nil
}

// ListIDs returns the ID of every campaign.
func (r *CampaignRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM donation_campaigns ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *CampaignRepository) list(ctx context.Context, query string, args ...any) ([]model.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

// addToTotal applies relative arithmetic to donated_amount inside tx and reads back the result.
func addToTotal(ctx context.Context, tx *sql.Tx, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	result, err := tx.ExecContext(ctx, `UPDATE donation_campaigns SET donated_amount = donated_amount + ? WHERE id = ?`, delta, id)
	if err != nil {
		return decimal.Zero, err
	}
	if err := affectedOr(result, ErrCampaignNotFound); err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	if err := tx.QueryRowContext(ctx, `SELECT donated_amount FROM donation_campaigns WHERE id = ?`, id).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func scanCampaign(s rowScanner) (*model.Campaign, error) {
	c := &model.Campaign{}
	err := s.Scan(
		&c.ID, &c.CreatorEmail, &c.PetName, &c.PetImageURL, &c.MaxDonationAmount, &c.LastDonationDate,
		&c.ShortDescription, &c.LongDescription, &c.DonatedAmount, &c.Status, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

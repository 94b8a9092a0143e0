package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fureverhome/fureverhome-go/internal/model"
)

// DonationRepository handles donation records and keeps the owning campaign's
// total in step with them.
type DonationRepository struct {
	db *sql.DB
}

// NewDonationRepository creates a new DonationRepository.
func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

const donationColumns = `id, campaign_id, donor_email, donor_name, amount, transaction_id, created_at`

// Record inserts the donation and adds its amount to the campaign total in one
// transaction, returning the new total. The campaign row is locked first so a
// concurrent pause cannot slip between the status check and the insert.
func (r *DonationRepository) Record(ctx context.Context, d *model.Donation) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var status model.CampaignStatus
		err := tx.QueryRowContext(ctx, `SELECT status FROM donation_campaigns WHERE id = ? FOR UPDATE`, d.CampaignID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCampaignNotFound
		}
		if err != nil {
			return err
		}
		if status != model.CampaignActive {
			return ErrCampaignPaused
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO donations (`+donationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.CampaignID, d.DonorEmail, d.DonorName, d.Amount, d.TransactionID, d.CreatedAt,
		)
		if err != nil {
			return err
		}

		total, err = addToTotal(ctx, tx, d.CampaignID, d.Amount)
		return err
	})
	return total, err
}

// Reverse deletes the donation and subtracts its stored amount from the
// campaign total in one transaction. It returns the deleted record and the new total.
func (r *DonationRepository) Reverse(ctx context.Context, id string) (*model.Donation, decimal.Decimal, error) {
	var (
		d     *model.Donation
		total decimal.Decimal
	)
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		d, err = getDonation(ctx, tx, `SELECT `+donationColumns+` FROM donations WHERE id = ? FOR UPDATE`, id)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM donations WHERE id = ?`, id); err != nil {
			return err
		}

		total, err = addToTotal(ctx, tx, d.CampaignID, d.Amount.Neg())
		return err
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return d, total, nil
}

// GetByID retrieves a donation by its ID.
func (r *DonationRepository) GetByID(ctx context.Context, id string) (*model.Donation, error) {
	return getDonation(ctx, r.db, `SELECT `+donationColumns+` FROM donations WHERE id = ?`, id)
}

// ListByDonor returns a donor's donations, newest first.
func (r *DonationRepository) ListByDonor(ctx context.Context, email string) ([]model.Donation, error) {
	return r.list(ctx, `SELECT `+donationColumns+` FROM donations WHERE donor_email = ? ORDER BY created_at DESC`, email)
}

// ListByCampaign returns a campaign's donations, newest first.
func (r *DonationRepository) ListByCampaign(ctx context.Context, campaignID string) ([]model.Donation, error) {
	return r.list(ctx, `SELECT `+donationColumns+` FROM donations WHERE campaign_id = ? ORDER BY created_at DESC`, campaignID)
}

func (r *DonationRepository) list(ctx context.Context, query string, args ...any) ([]model.Donation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donations := []model.Donation{}
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, *d)
	}
	return donations, rows.Err()
}

func getDonation(ctx context.Context, q querier, query string, id string) (*model.Donation, error) {
	d, err := scanDonation(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return d, nil
}

func scanDonation(s rowScanner) (*model.Donation, error) {
	d := &model.Donation{}
	err := s.Scan(&d.ID, &d.CampaignID, &d.DonorEmail, &d.DonorName, &d.Amount, &d.TransactionID, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

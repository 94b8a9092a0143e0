package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fureverhome/fureverhome-go/internal/model"
)

func TestDonationRepository_Record_IncrementsAtomically(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonationRepository(db)
	d := &model.Donation{
		ID: "don-1", CampaignID: "camp-1", DonorEmail: "bob@example.com", DonorName: "Bob",
		Amount: decimal.NewFromInt(50), TransactionID: "t1", CreatedAt: time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM donation_campaigns WHERE id = ? FOR UPDATE`)).
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Active"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO donations`)).
		WithArgs("don-1", "camp-1", "bob@example.com", "Bob", d.Amount, "t1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SET donated_amount = donated_amount + ? WHERE id = ?`)).
		WithArgs(d.Amount, "camp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT donated_amount FROM donation_campaigns WHERE id = ?`)).
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows([]string{"donated_amount"}).AddRow("50.00"))
	mock.ExpectCommit()

	total, err := repo.Record(context.Background(), d)
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.NewFromInt(50)), "total = %s", total)
}

func TestDonationRepository_Record_PausedCampaign(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM donation_campaigns`)).
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Paused"))
	mock.ExpectRollback()

	_, err := repo.Record(context.Background(), &model.Donation{CampaignID: "camp-1", Amount: decimal.NewFromInt(5)})
	require.ErrorIs(t, err, ErrCampaignPaused)
}

func TestDonationRepository_Record_MissingCampaign(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM donation_campaigns`)).
		WithArgs("camp-404").
		WillReturnRows(sqlmock.NewRows([]string{"status"}))
	mock.ExpectRollback()

	_, err := repo.Record(context.Background(), &model.Donation{CampaignID: "camp-404", Amount: decimal.NewFromInt(5)})
	require.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestDonationRepository_Reverse_SubtractsStoredAmount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM donations WHERE id = ? FOR UPDATE`)).
		WithArgs("don-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "campaign_id", "donor_email", "donor_name", "amount", "transaction_id", "created_at"}).
			AddRow("don-1", "camp-1", "bob@example.com", "Bob", "50.00", "t1", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM donations WHERE id = ?`)).
		WithArgs("don-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`SET donated_amount = donated_amount + ? WHERE id = ?`)).
		WithArgs(decimal.RequireFromString("-50"), "camp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT donated_amount FROM donation_campaigns WHERE id = ?`)).
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows([]string{"donated_amount"}).AddRow("30.00"))
	mock.ExpectCommit()

	d, total, err := repo.Reverse(context.Background(), "don-1")
	require.NoError(t, err)
	require.Equal(t, "t1", d.TransactionID)
	require.True(t, total.Equal(decimal.NewFromInt(30)), "total = %s", total)
}

func TestDonationRepository_Reverse_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM donations WHERE id = ? FOR UPDATE`)).
		WithArgs("don-404").
		WillReturnRows(sqlmock.NewRows([]string{"id", "campaign_id", "donor_email", "donor_name", "amount", "transaction_id", "created_at"}))
	mock.ExpectRollback()

	_, _, err := repo.Reverse(context.Background(), "don-404")
	require.ErrorIs(t, err, ErrDonationNotFound)
}

func TestCampaignRepository_Reconcile(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCampaignRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT donated_amount FROM donation_campaigns WHERE id = ? FOR UPDATE`)).
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows([]string{"donated_amount"}).AddRow("130.00"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM donations WHERE campaign_id = ?`)).
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("80.00"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE donation_campaigns SET donated_amount = ? WHERE id = ?`)).
		WithArgs(sqlmock.AnyArg(), "camp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := repo.Reconcile(context.Background(), "camp-1")
	require.NoError(t, err)
	require.True(t, res.Drift.Equal(decimal.NewFromInt(50)), "drift = %s", res.Drift)
	require.True(t, res.After.Equal(decimal.NewFromInt(80)), "after = %s", res.After)
}

func TestCampaignRepository_AddToTotal_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCampaignRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SET donated_amount = donated_amount + ?`)).
		WithArgs(decimal.NewFromInt(10), "camp-404").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.AddToTotal(context.Background(), "camp-404", decimal.NewFromInt(10))
	require.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestCampaignRepository_ListAllIsUncapped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCampaignRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM donation_campaigns ORDER BY last_donation_date DESC, created_at DESC`) + `$`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	campaigns, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, campaigns)
}

func TestCampaignRepository_ListClamps(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCampaignRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY last_donation_date DESC, created_at DESC LIMIT ?`)).
		WithArgs(MaxListLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
}

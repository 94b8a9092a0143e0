package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fureverhome/fureverhome-go/internal/metrics"
	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/notify"
	"github.com/fureverhome/fureverhome-go/internal/sanitize"
)

// LedgerService keeps each campaign's donated total consistent with its
// donation records. Totals only ever move by relative amounts computed on
// the server; no caller can write an absolute total.
type LedgerService struct {
	donations DonationStore
	campaigns CampaignStore
	roles     *RoleResolver
	notifier  Notifier
	metrics   metrics.Recorder
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(donations DonationStore, campaigns CampaignStore, roles *RoleResolver, notifier Notifier, m metrics.Recorder) *LedgerService {
	return &LedgerService{
		donations: donations,
		campaigns: campaigns,
		roles:     roles,
		notifier:  notifier,
		metrics:   m,
	}
}

// RecordDonation stores a confirmed payment and adds it to the campaign total.
// The donor receipt and creator alert are queued after the commit.
func (s *LedgerService) RecordDonation(ctx context.Context, donor string, req model.DonateRequest) (model.DonationResult, error) {
	campaignID, err := parseRef(req.CampaignID)
	if err != nil {
		return model.DonationResult{}, err
	}
	amount, err := wholeCents(req.Amount)
	if err != nil {
		return model.DonationResult{}, err
	}
	if !amount.IsPositive() {
		return model.DonationResult{}, ErrInvalidAmount
	}
	txn := strings.TrimSpace(req.TransactionID)
	if txn == "" {
		return model.DonationResult{}, ErrTransactionRequired
	}

	d := &model.Donation{
		ID:            uuid.NewString(),
		CampaignID:    campaignID,
		DonorEmail:    donor,
		DonorName:     sanitize.PlainText(req.DonorName),
		Amount:        amount,
		TransactionID: txn,
		CreatedAt:     time.Now().UTC(),
	}
	total, err := s.donations.Record(ctx, d)
	if err != nil {
		return model.DonationResult{}, err
	}
	s.metrics.RecordDonation(d.Amount.InexactFloat64())

	if c, err := s.campaigns.GetByID(ctx, campaignID); err == nil {
		s.notifier.Enqueue(notify.DonationReceipt(d.DonorEmail, donorName(d), c.PetName, d.Amount))
		s.notifier.Enqueue(notify.DonationAlert(c.CreatorEmail, donorName(d), c.PetName, d.Amount))
	}
	return model.DonationResult{Donation: d, DonatedAmount: total}, nil
}

// ApplyAggregateDelta adds delta, which may be negative, to a campaign total.
// It is an admin correction; ordinary flows go through RecordDonation and ReverseDonation.
func (s *LedgerService) ApplyAggregateDelta(ctx context.Context, campaignID string, delta decimal.Decimal) (model.CampaignTotal, error) {
	campaignID, err := parseRef(campaignID)
	if err != nil {
		return model.CampaignTotal{}, err
	}
	if delta, err = wholeCents(delta); err != nil {
		return model.CampaignTotal{}, err
	}
	if delta.IsZero() {
		return model.CampaignTotal{}, ErrZeroDelta
	}

	total, err := s.campaigns.AddToTotal(ctx, campaignID, delta)
	if err != nil {
		return model.CampaignTotal{}, err
	}
	return model.CampaignTotal{CampaignID: campaignID, DonatedAmount: total}, nil
}

// ReverseDonation removes a donation and subtracts its stored amount from the
// campaign total. A non-empty campaignID must match the donation's campaign.
// Only the donor or an admin may reverse.
func (s *LedgerService) ReverseDonation(ctx context.Context, caller, donationID, campaignID string) (model.DonationResult, error) {
	donationID, err := parseRef(donationID)
	if err != nil {
		return model.DonationResult{}, err
	}
	if campaignID != "" {
		if campaignID, err = parseRef(campaignID); err != nil {
			return model.DonationResult{}, err
		}
	}

	d, err := s.donations.GetByID(ctx, donationID)
	if err != nil {
		return model.DonationResult{}, err
	}
	if campaignID != "" && d.CampaignID != campaignID {
		return model.DonationResult{}, ErrDonationNotFound
	}
	if err := authorizeOwner(ctx, s.roles, caller, d.DonorEmail); err != nil {
		return model.DonationResult{}, err
	}

	removed, total, err := s.donations.Reverse(ctx, donationID)
	if err != nil {
		return model.DonationResult{}, err
	}
	s.metrics.RecordReversal(removed.Amount.InexactFloat64())
	s.notifier.Enqueue(notify.Refund(removed.DonorEmail, removed.Amount))
	return model.DonationResult{Donation: removed, DonatedAmount: total}, nil
}

// SetCampaignStatus pauses or resumes a campaign. Paused campaigns refuse donations.
func (s *LedgerService) SetCampaignStatus(ctx context.Context, caller, campaignID string, status model.CampaignStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	c, err := s.ownedCampaign(ctx, caller, campaignID)
	if err != nil {
		return err
	}
	return s.campaigns.SetStatus(ctx, c.ID, status)
}

// Reconcile recomputes a campaign total from its donation records.
func (s *LedgerService) Reconcile(ctx context.Context, campaignID string) (model.ReconcileResult, error) {
	campaignID, err := parseRef(campaignID)
	if err != nil {
		return model.ReconcileResult{}, err
	}
	return s.campaigns.Reconcile(ctx, campaignID)
}

// ReconcileAll reconciles every campaign and returns the ones that had drifted.
func (s *LedgerService) ReconcileAll(ctx context.Context) ([]model.ReconcileResult, error) {
	ids, err := s.campaigns.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	drifted := []model.ReconcileResult{}
	for _, id := range ids {
		res, err := s.campaigns.Reconcile(ctx, id)
		if err != nil {
			return drifted, fmt.Errorf("reconcile campaign %s: %w", id, err)
		}
		if !res.Drift.IsZero() {
			drifted = append(drifted, res)
		}
	}
	return drifted, nil
}

// DonationsByDonor lists a donor's own donations.
func (s *LedgerService) DonationsByDonor(ctx context.Context, email string) ([]model.Donation, error) {
	return s.donations.ListByDonor(ctx, email)
}

// DonationsByCampaign lists a campaign's donors for its creator or an admin.
func (s *LedgerService) DonationsByCampaign(ctx context.Context, caller, campaignID string) ([]model.Donation, error) {
	c, err := s.ownedCampaign(ctx, caller, campaignID)
	if err != nil {
		return nil, err
	}
	return s.donations.ListByCampaign(ctx, c.ID)
}

func (s *LedgerService) ownedCampaign(ctx context.Context, caller, campaignID string) (*model.Campaign, error) {
	campaignID, err := parseRef(campaignID)
	if err != nil {
		return nil, err
	}
	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, s.roles, caller, c.CreatorEmail); err != nil {
		return nil, err
	}
	return c, nil
}

func donorName(d *model.Donation) string {
	if d.DonorName != "" {
		return d.DonorName
	}
	return d.DonorEmail
}

// wholeCents rejects amounts finer than one cent. Validation runs on the
// returned value so nothing is rounded into a zero-effect write.
func wholeCents(d decimal.Decimal) (decimal.Decimal, error) {
	rounded := d.Round(2)
	if !d.Equal(rounded) {
		return decimal.Zero, ErrAmountPrecision
	}
	return rounded, nil
}

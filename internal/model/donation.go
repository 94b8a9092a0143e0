package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Donation is a single confirmed payment to a campaign.
type Donation struct {
	ID            string          `json:"id"`
	CampaignID    string          `json:"campaignId"`
	DonorEmail    string          `json:"donorEmail"`
	DonorName     string          `json:"donorName"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transactionId"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// DonateRequest is the body of POST /donate.
type DonateRequest struct {
	CampaignID    string          `json:"campaignId"`
	DonorName     string          `json:"donorName"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transactionId"`
}

// AggregateDeltaRequest is the body of PATCH /updateTotalDonation/{id}.
// Amount is added to the campaign total; negative values subtract.
type AggregateDeltaRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ReverseDonationRequest is the body of PATCH /updateTotalDonatedAmount/{id}.
type ReverseDonationRequest struct {
	DonationID string `json:"donationId"`
}

// PaymentIntentRequest is the body of POST /create-payment-intent.
type PaymentIntentRequest struct {
	Price decimal.Decimal `json:"price"`
}

// PaymentIntentResponse carries the client secret the browser confirms with.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// DonationResult is returned by ledger operations that touch a single donation.
type DonationResult struct {
	Donation      *Donation       `json:"donation"`
	DonatedAmount decimal.Decimal `json:"donatedAmount"`
}

// CampaignTotal reports a campaign's running total after an adjustment.
type CampaignTotal struct {
	CampaignID    string          `json:"campaignId"`
	DonatedAmount decimal.Decimal `json:"donatedAmount"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignStatus controls whether a campaign accepts donations.
type CampaignStatus string

const (
	CampaignActive CampaignStatus = "Active"
	CampaignPaused CampaignStatus = "Paused"
)

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	return s == CampaignActive || s == CampaignPaused
}

// Campaign is a donation campaign. DonatedAmount is the running total of its
// donations and is only ever changed by relative SQL arithmetic.
type Campaign struct {
	ID                string          `json:"id"`
	CreatorEmail      string          `json:"creatorEmail"`
	PetName           string          `json:"petName"`
	PetImageURL       string          `json:"petImageUrl"`
	MaxDonationAmount decimal.Decimal `json:"maxDonationAmount"`
	LastDonationDate  time.Time       `json:"lastDonationDate"`
	ShortDescription  string          `json:"shortDescription"`
	LongDescription   string          `json:"longDescription"`
	DonatedAmount     decimal.Decimal `json:"donatedAmount"`
	Status            CampaignStatus  `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// CampaignRequest is the body for creating or editing a campaign.
type CampaignRequest struct {
	PetName           string          `json:"petName"`
	PetImageURL       string          `json:"petImageUrl"`
	MaxDonationAmount decimal.Decimal `json:"maxDonationAmount"`
	LastDonationDate  string          `json:"lastDonationDate"` // YYYY-MM-DD
	ShortDescription  string          `json:"shortDescription"`
	LongDescription   string          `json:"longDescription"`
}

// CampaignStatusRequest is the body of PATCH /donationCampaign/{id}/status.
type CampaignStatusRequest struct {
	Status CampaignStatus `json:"status"`
}

// ReconcileResult reports how far a campaign total had drifted from its donations.
type ReconcileResult struct {
	CampaignID string          `json:"campaignId"`
	Before     decimal.Decimal `json:"before"`
	After      decimal.Decimal `json:"after"`
	Drift      decimal.Decimal `json:"drift"`
}

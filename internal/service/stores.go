package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/notify"
	"github.com/fureverhome/fureverhome-go/internal/repository"
)

// UserStore persists users.
type UserStore interface {
	Upsert(ctx context.Context, user *model.User) (bool, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	SetRole(ctx context.Context, email string, role model.Role) error
}

// PetStore persists pets.
type PetStore interface {
	Create(ctx context.Context, pet *model.Pet) error
	GetByID(ctx context.Context, id string) (*model.Pet, error)
	ListAvailable(ctx context.Context, f model.PetFilter) ([]model.Pet, error)
	ListAll(ctx context.Context) ([]model.Pet, error)
	ListByProvider(ctx context.Context, email string) ([]model.Pet, error)
	Update(ctx context.Context, pet *model.Pet) error
	ClearAdopted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// AdoptionStore persists adoption requests. Create reports a repeated
// (pet, requester) pair as ErrDuplicateRequest; Approve is all-or-nothing.
type AdoptionStore interface {
	Create(ctx context.Context, req *model.AdoptionRequest) error
	GetByID(ctx context.Context, id string) (*model.AdoptionRequest, error)
	ListByProvider(ctx context.Context, email string) ([]model.AdoptionRequest, error)
	ListByRequester(ctx context.Context, email string) ([]model.AdoptionRequest, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
}

// CampaignStore persists campaigns. AddToTotal is a relative, atomic update.
type CampaignStore interface {
	Create(ctx context.Context, c *model.Campaign) error
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	List(ctx context.Context, limit int) ([]model.Campaign, error)
	ListAll(ctx context.Context) ([]model.Campaign, error)
	ListByCreator(ctx context.Context, email string) ([]model.Campaign, error)
	ListIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, c *model.Campaign) error
	SetStatus(ctx context.Context, id string, status model.CampaignStatus) error
	Delete(ctx context.Context, id string) error
	AddToTotal(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
	Reconcile(ctx context.Context, id string) (model.ReconcileResult, error)
}

// DonationStore persists donations together with the campaign total.
type DonationStore interface {
	Record(ctx context.Context, d *model.Donation) (decimal.Decimal, error)
	Reverse(ctx context.Context, id string) (*model.Donation, decimal.Decimal, error)
	GetByID(ctx context.Context, id string) (*model.Donation, error)
	ListByDonor(ctx context.Context, email string) ([]model.Donation, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]model.Donation, error)
}

// Notifier accepts outbound messages without blocking.
type Notifier interface {
	Enqueue(msg notify.Message) bool
}

// PaymentGateway creates payment intents with the external processor.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64) (string, error)
}

var (
	_ UserStore     = (*repository.UserRepository)(nil)
	_ PetStore      = (*repository.PetRepository)(nil)
	_ AdoptionStore = (*repository.AdoptionRepository)(nil)
	_ CampaignStore = (*repository.CampaignRepository)(nil)
	_ DonationStore = (*repository.DonationRepository)(nil)
)

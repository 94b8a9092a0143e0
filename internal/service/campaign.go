package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/sanitize"
)

const dateLayout = "2006-01-02"

// CampaignService handles donation campaign records. Money movement lives in LedgerService.
type CampaignService struct {
	campaigns CampaignStore
	roles     *RoleResolver
}

// NewCampaignService creates a new CampaignService.
func NewCampaignService(campaigns CampaignStore, roles *RoleResolver) *CampaignService {
	return &CampaignService{campaigns: campaigns, roles: roles}
}

// Create opens an active campaign owned by caller.
func (s *CampaignService) Create(ctx context.Context, caller string, req model.CampaignRequest) (*model.Campaign, error) {
	c := &model.Campaign{
		ID:           uuid.NewString(),
		CreatorEmail: caller,
		Status:       model.CampaignActive,
		CreatedAt:    time.Now().UTC(),
	}
	if err := applyCampaignRequest(c, req); err != nil {
		return nil, err
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CampaignService) Get(ctx context.Context, id string) (*model.Campaign, error) {
	id, err := parseRef(id)
	if err != nil {
		return nil, err
	}
	return s.campaigns.GetByID(ctx, id)
}

// List returns campaigns with the latest last-donation date first.
func (s *CampaignService) List(ctx context.Context, limit int) ([]model.Campaign, error) {
	return s.campaigns.List(ctx, limit)
}

// ListAll returns every campaign for the admin dashboard.
func (s *CampaignService) ListAll(ctx context.Context) ([]model.Campaign, error) {
	return s.campaigns.ListAll(ctx)
}

func (s *CampaignService) ListByCreator(ctx context.Context, email string) ([]model.Campaign, error) {
	return s.campaigns.ListByCreator(ctx, email)
}

// Update edits the descriptive fields. The donated total cannot be set here.
func (s *CampaignService) Update(ctx context.Context, caller, id string, req model.CampaignRequest) (*model.Campaign, error) {
	id, err := parseRef(id)
	if err != nil {
		return nil, err
	}
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, s.roles, caller, c.CreatorEmail); err != nil {
		return nil, err
	}
	if err := applyCampaignRequest(c, req); err != nil {
		return nil, err
	}
	if err := s.campaigns.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a campaign and its donations.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	id, err := parseRef(id)
	if err != nil {
		return err
	}
	return s.campaigns.Delete(ctx, id)
}

func applyCampaignRequest(c *model.Campaign, req model.CampaignRequest) error {
	name := sanitize.PlainText(req.PetName)
	if name == "" {
		return ErrNameRequired
	}
	maxAmount, err := wholeCents(req.MaxDonationAmount)
	if err != nil {
		return err
	}
	if !maxAmount.IsPositive() {
		return ErrInvalidAmount
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(req.LastDonationDate))
	if err != nil {
		return ErrInvalidDate
	}

	c.PetName = name
	c.PetImageURL = strings.TrimSpace(req.PetImageURL)
	c.MaxDonationAmount = maxAmount
	c.LastDonationDate = date
	c.ShortDescription = sanitize.PlainText(req.ShortDescription)
	c.LongDescription = sanitize.RichText(req.LongDescription)
	return nil
}

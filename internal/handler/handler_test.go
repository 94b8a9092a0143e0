package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fureverhome/fureverhome-go/internal/crypto"
	"github.com/fureverhome/fureverhome-go/internal/metrics"
	"github.com/fureverhome/fureverhome-go/internal/middleware"
	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/notify"
	"github.com/fureverhome/fureverhome-go/internal/payment"
	"github.com/fureverhome/fureverhome-go/internal/repository"
	"github.com/fureverhome/fureverhome-go/internal/service"
)

const (
	testSecret    = "test-secret"
	adminEmail    = "admin@example.com"
	providerEmail = "provider@example.com"
	adopterEmail  = "adopter@example.com"
)

// store is a small in-memory backing for every repository the router reaches.
type store struct {
	mu        sync.Mutex
	users     map[string]model.User
	pets      map[string]model.Pet
	requests  []model.AdoptionRequest
	campaigns map[string]model.Campaign
	donations map[string]model.Donation
}

func (s *store) Upsert(_ context.Context, u *model.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.users[u.Email]
	if !exists {
		s.users[u.Email] = *u
	}
	return !exists, nil
}

func (s *store) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return &u, nil
}

func (s *store) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.User{}
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *store) SetRole(_ context.Context, email string, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return service.ErrUserNotFound
	}
	u.Role = role
	s.users[email] = u
	return nil
}

type petStore struct{ *store }

func (s petStore) Create(_ context.Context, p *model.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pets[p.ID] = *p
	return nil
}

func (s petStore) GetByID(_ context.Context, id string) (*model.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pets[id]
	if !ok {
		return nil, service.ErrPetNotFound
	}
	return &p, nil
}

func (s petStore) ListAvailable(_ context.Context, _ model.PetFilter) ([]model.Pet, error) {
	return s.ListAll(context.Background())
}

func (s petStore) ListAll(_ context.Context) ([]model.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Pet{}
	for _, p := range s.pets {
		out = append(out, p)
	}
	return out, nil
}

func (s petStore) ListByProvider(ctx context.Context, _ string) ([]model.Pet, error) {
	return s.ListAll(ctx)
}

func (s petStore) Update(_ context.Context, p *model.Pet) error { return nil }

func (s petStore) ClearAdopted(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pets[id]
	if !ok {
		return service.ErrPetNotFound
	}
	for _, r := range s.requests {
		if r.PetID == id && r.Status == model.AdoptionApproved {
			return service.ErrPetHasApprovedRequest
		}
	}
	p.Adopted = false
	s.pets[id] = p
	return nil
}

func (s petStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pets, id)
	return nil
}

type requestStore struct{ *store }

func (s requestStore) Create(_ context.Context, r *model.AdoptionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.requests {
		if existing.PetID == r.PetID && existing.RequesterEmail == r.RequesterEmail {
			return service.ErrDuplicateRequest
		}
	}
	s.requests = append(s.requests, *r)
	return nil
}

func (s requestStore) GetByID(_ context.Context, _ string) (*model.AdoptionRequest, error) {
	return nil, service.ErrRequestNotFound
}

func (s requestStore) ListByProvider(_ context.Context, _ string) ([]model.AdoptionRequest, error) {
	return s.requests, nil
}

func (s requestStore) ListByRequester(_ context.Context, _ string) ([]model.AdoptionRequest, error) {
	return s.requests, nil
}

func (s requestStore) Approve(_ context.Context, _ string) error { return nil }

func (s requestStore) Reject(_ context.Context, _ string) error { return nil }

type campaignStore struct{ *store }

func (s campaignStore) Create(_ context.Context, c *model.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[c.ID] = *c
	return nil
}

func (s campaignStore) GetByID(_ context.Context, id string) (*model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, service.ErrCampaignNotFound
	}
	return &c, nil
}

func (s campaignStore) List(ctx context.Context, limit int) ([]model.Campaign, error) {
	all, _ := s.ListAll(ctx)
	if limit <= 0 || limit > repository.MaxListLimit {
		limit = repository.MaxListLimit
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s campaignStore) ListAll(_ context.Context) ([]model.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Campaign{}
	for _, c := range s.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (s campaignStore) ListByCreator(ctx context.Context, _ string) ([]model.Campaign, error) {
	return s.ListAll(ctx)
}

func (s campaignStore) ListIDs(_ context.Context) ([]string, error) { return nil, nil }

func (s campaignStore) Update(_ context.Context, _ *model.Campaign) error { return nil }

func (s campaignStore) SetStatus(_ context.Context, id string, status model.CampaignStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return service.ErrCampaignNotFound
	}
	c.Status = status
	s.campaigns[id] = c
	return nil
}

func (s campaignStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.campaigns, id)
	return nil
}

func (s campaignStore) AddToTotal(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(id, delta)
}

func (s campaignStore) Reconcile(_ context.Context, id string) (model.ReconcileResult, error) {
	return model.ReconcileResult{CampaignID: id}, nil
}

func (s *store) addLocked(id string, delta decimal.Decimal) (decimal.Decimal, error) {
	c, ok := s.campaigns[id]
	if !ok {
		return decimal.Zero, service.ErrCampaignNotFound
	}
	c.DonatedAmount = c.DonatedAmount.Add(delta)
	s.campaigns[id] = c
	return c.DonatedAmount, nil
}

type donationStore struct{ *store }

func (s donationStore) Record(_ context.Context, d *model.Donation) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[d.CampaignID]
	if !ok {
		return decimal.Zero, service.ErrCampaignNotFound
	}
	if c.Status != model.CampaignActive {
		return decimal.Zero, service.ErrCampaignPaused
	}
	s.donations[d.ID] = *d
	return s.addLocked(d.CampaignID, d.Amount)
}

func (s donationStore) Reverse(_ context.Context, id string) (*model.Donation, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, decimal.Zero, service.ErrDonationNotFound
	}
	delete(s.donations, id)
	total, err := s.addLocked(d.CampaignID, d.Amount.Neg())
	if err != nil {
		return nil, decimal.Zero, err
	}
	return &d, total, nil
}

func (s donationStore) GetByID(_ context.Context, id string) (*model.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, service.ErrDonationNotFound
	}
	return &d, nil
}

func (s donationStore) ListByDonor(_ context.Context, email string) ([]model.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Donation{}
	for _, d := range s.donations {
		if d.DonorEmail == email {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s donationStore) ListByCampaign(_ context.Context, id string) ([]model.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Donation{}
	for _, d := range s.donations {
		if d.CampaignID == id {
			out = append(out, d)
		}
	}
	return out, nil
}

type discardNotifier struct{}

func (discardNotifier) Enqueue(notify.Message) bool { return true }

type testServer struct {
	store   *store
	handler http.Handler
}

func newTestServer(t *testing.T, production bool) *testServer {
	t.Helper()
	st := &store{
		users: map[string]model.User{
			adminEmail:    {Email: adminEmail, Role: model.RoleAdmin},
			providerEmail: {Email: providerEmail, Role: model.RoleRegular},
			adopterEmail:  {Email: adopterEmail, Role: model.RoleRegular},
		},
		pets:      map[string]model.Pet{},
		campaigns: map[string]model.Campaign{},
		donations: map[string]model.Donation{},
	}
	log := zaptest.NewLogger(t)
	roles := service.NewRoleResolver(st, 0)
	n := discardNotifier{}

	ledger := service.NewLedgerService(donationStore{st}, campaignStore{st}, roles, n, metrics.Nop{})
	h := Handlers{
		Auth:      NewAuthHandler(service.NewAuthService(st, roles, n, testSecret, time.Hour), log, production, time.Hour),
		Pets:      NewPetHandler(service.NewPetService(petStore{st}, roles), log),
		Adoptions: NewAdoptionHandler(service.NewAdoptionService(requestStore{st}, petStore{st}, roles, n, metrics.Nop{}), log),
		Campaigns: NewCampaignHandler(service.NewCampaignService(campaignStore{st}, roles), ledger, log),
		Donations: NewDonationHandler(ledger, service.NewPaymentService(payment.NewStripeGateway("")), log),
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &testServer{
		store: st,
		handler: NewRouter(ctx, RouterConfig{
			JWTSecret: testSecret,
			Roles:     roles,
			Metrics:   metrics.Nop{},
			Log:       log,
		}, h),
	}
}

// do sends a JSON request, authenticated as email unless email is empty.
func (s *testServer) do(t *testing.T, method, path, email, body string) *httptest.ResponseRecorder {
	t.Helper()
	return s.send(t, method, path, email, "application/json", body)
}

func (s *testServer) send(t *testing.T, method, path, email, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if email != "" {
		token, err := crypto.GenerateToken(email, testSecret, time.Hour)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

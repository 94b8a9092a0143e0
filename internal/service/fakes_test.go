package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fureverhome/fureverhome-go/internal/metrics"
	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/notify"
)

// memDB is an in-memory stand-in for MySQL. One mutex plays the role of the
// row locks and unique index the real stores rely on.
type memDB struct {
	mu        sync.Mutex
	users     map[string]model.User
	pets      map[string]model.Pet
	requests  map[string]model.AdoptionRequest
	campaigns map[string]model.Campaign
	donations map[string]model.Donation
	userReads int
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[string]model.User{},
		pets:      map[string]model.Pet{},
		requests:  map[string]model.AdoptionRequest{},
		campaigns: map[string]model.Campaign{},
		donations: map[string]model.Donation{},
	}
}

type memUsers struct{ db *memDB }

func (s memUsers) Upsert(_ context.Context, u *model.User) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if existing, ok := s.db.users[u.Email]; ok {
		existing.Name, existing.PhotoURL = u.Name, u.PhotoURL
		s.db.users[u.Email] = existing
		return false, nil
	}
	s.db.users[u.Email] = *u
	return true, nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.userReads++
	u, ok := s.db.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s memUsers) List(_ context.Context) ([]model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.User{}
	for _, u := range s.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s memUsers) SetRole(_ context.Context, email string, role model.Role) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[email]
	if !ok {
		return ErrUserNotFound
	}
	u.Role = role
	s.db.users[email] = u
	return nil
}

type memPets struct{ db *memDB }

func (s memPets) Create(_ context.Context, p *model.Pet) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.pets[p.ID] = *p
	return nil
}

func (s memPets) GetByID(_ context.Context, id string) (*model.Pet, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.pets[id]
	if !ok {
		return nil, ErrPetNotFound
	}
	return &p, nil
}

func (s memPets) ListAvailable(_ context.Context, f model.PetFilter) ([]model.Pet, error) {
	return s.filter(func(p model.Pet) bool {
		return !p.Adopted &&
			(f.Category == "" || p.Category == f.Category) &&
			(f.Search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)))
	}), nil
}

func (s memPets) ListAll(_ context.Context) ([]model.Pet, error) {
	return s.filter(func(model.Pet) bool { return true }), nil
}

func (s memPets) ListByProvider(_ context.Context, email string) ([]model.Pet, error) {
	return s.filter(func(p model.Pet) bool { return p.ProviderEmail == email }), nil
}

func (s memPets) filter(keep func(model.Pet) bool) []model.Pet {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Pet{}
	for _, p := range s.db.pets {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s memPets) Update(_ context.Context, p *model.Pet) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.pets[p.ID]; !ok {
		return ErrPetNotFound
	}
	s.db.pets[p.ID] = *p
	return nil
}

func (s memPets) ClearAdopted(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.pets[id]
	if !ok {
		return ErrPetNotFound
	}
	for _, r := range s.db.requests {
		if r.PetID == id && r.Status == model.AdoptionApproved {
			return ErrPetHasApprovedRequest
		}
	}
	p.Adopted = false
	s.db.pets[id] = p
	return nil
}

func (s memPets) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.pets[id]; !ok {
		return ErrPetNotFound
	}
	delete(s.db.pets, id)
	for rid, r := range s.db.requests {
		if r.PetID == id {
			delete(s.db.requests, rid)
		}
	}
	return nil
}

type memRequests struct{ db *memDB }

func (s memRequests) Create(_ context.Context, r *model.AdoptionRequest) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.pets[r.PetID]; !ok {
		return ErrPetNotFound
	}
	for _, existing := range s.db.requests {
		if existing.PetID == r.PetID && existing.RequesterEmail == r.RequesterEmail {
			return ErrDuplicateRequest
		}
	}
	s.db.requests[r.ID] = *r
	return nil
}

func (s memRequests) GetByID(_ context.Context, id string) (*model.AdoptionRequest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	return &r, nil
}

func (s memRequests) ListByProvider(_ context.Context, email string) ([]model.AdoptionRequest, error) {
	return s.filter(func(r model.AdoptionRequest) bool { return r.ProviderEmail == email }), nil
}

func (s memRequests) ListByRequester(_ context.Context, email string) ([]model.AdoptionRequest, error) {
	return s.filter(func(r model.AdoptionRequest) bool { return r.RequesterEmail == email }), nil
}

func (s memRequests) filter(keep func(model.AdoptionRequest) bool) []model.AdoptionRequest {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.AdoptionRequest{}
	for _, r := range s.db.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s memRequests) Approve(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	if r.Status != model.AdoptionPending {
		return ErrRequestNotPending
	}
	p, ok := s.db.pets[r.PetID]
	if !ok || p.Adopted {
		return ErrPetAlreadyAdopted
	}
	p.Adopted = true
	r.Status = model.AdoptionApproved
	s.db.pets[p.ID] = p
	s.db.requests[id] = r
	return nil
}

func (s memRequests) Reject(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	if r.Status != model.AdoptionPending {
		return ErrRequestNotPending
	}
	r.Status = model.AdoptionRejected
	s.db.requests[id] = r
	return nil
}

type memCampaigns struct{ db *memDB }

func (s memCampaigns) Create(_ context.Context, c *model.Campaign) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	stored := *c
	stored.DonatedAmount = decimal.Zero
	s.db.campaigns[c.ID] = stored
	return nil
}

func (s memCampaigns) GetByID(_ context.Context, id string) (*model.Campaign, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.campaigns[id]
	if !ok {
		return nil, ErrCampaignNotFound
	}
	return &c, nil
}

func (s memCampaigns) List(_ context.Context, _ int) ([]model.Campaign, error) {
	return s.filter(func(model.Campaign) bool { return true }), nil
}

func (s memCampaigns) ListAll(_ context.Context) ([]model.Campaign, error) {
	return s.filter(func(model.Campaign) bool { return true }), nil
}

func (s memCampaigns) ListByCreator(_ context.Context, email string) ([]model.Campaign, error) {
	return s.filter(func(c model.Campaign) bool { return c.CreatorEmail == email }), nil
}

func (s memCampaigns) filter(keep func(model.Campaign) bool) []model.Campaign {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Campaign{}
	for _, c := range s.db.campaigns {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s memCampaigns) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for _, c := range s.filter(func(model.Campaign) bool { return true }) {
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s memCampaigns) Update(_ context.Context, c *model.Campaign) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	stored, ok := s.db.campaigns[c.ID]
	if !ok {
		return ErrCampaignNotFound
	}
	total, status := stored.DonatedAmount, stored.Status
	stored = *c
	stored.DonatedAmount, stored.Status = total, status
	s.db.campaigns[c.ID] = stored
	return nil
}

func (s memCampaigns) SetStatus(_ context.Context, id string, status model.CampaignStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.campaigns[id]
	if !ok {
		return ErrCampaignNotFound
	}
	c.Status = status
	s.db.campaigns[id] = c
	return nil
}

func (s memCampaigns) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.campaigns[id]; !ok {
		return ErrCampaignNotFound
	}
	delete(s.db.campaigns, id)
	for did, d := range s.db.donations {
		if d.CampaignID == id {
			delete(s.db.donations, did)
		}
	}
	return nil
}

func (s memCampaigns) AddToTotal(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.addLocked(id, delta)
}

func (s memCampaigns) Reconcile(_ context.Context, id string) (model.ReconcileResult, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.campaigns[id]
	if !ok {
		return model.ReconcileResult{}, ErrCampaignNotFound
	}
	sum := decimal.Zero
	for _, d := range s.db.donations {
		if d.CampaignID == id {
			sum = sum.Add(d.Amount)
		}
	}
	res := model.ReconcileResult{CampaignID: id, Before: c.DonatedAmount, After: sum, Drift: c.DonatedAmount.Sub(sum)}
	c.DonatedAmount = sum
	s.db.campaigns[id] = c
	return res, nil
}

func (db *memDB) addLocked(id string, delta decimal.Decimal) (decimal.Decimal, error) {
	c, ok := db.campaigns[id]
	if !ok {
		return decimal.Zero, ErrCampaignNotFound
	}
	c.DonatedAmount = c.DonatedAmount.Add(delta)
	db.campaigns[id] = c
	return c.DonatedAmount, nil
}

type memDonations struct{ db *memDB }

func (s memDonations) Record(_ context.Context, d *model.Donation) (decimal.Decimal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.campaigns[d.CampaignID]
	if !ok {
		return decimal.Zero, ErrCampaignNotFound
	}
	if c.Status != model.CampaignActive {
		return decimal.Zero, ErrCampaignPaused
	}
	s.db.donations[d.ID] = *d
	return s.db.addLocked(d.CampaignID, d.Amount)
}

func (s memDonations) Reverse(_ context.Context, id string) (*model.Donation, decimal.Decimal, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	d, ok := s.db.donations[id]
	if !ok {
		return nil, decimal.Zero, ErrDonationNotFound
	}
	delete(s.db.donations, id)
	total, err := s.db.addLocked(d.CampaignID, d.Amount.Neg())
	if err != nil {
		return nil, decimal.Zero, err
	}
	return &d, total, nil
}

func (s memDonations) GetByID(_ context.Context, id string) (*model.Donation, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	d, ok := s.db.donations[id]
	if !ok {
		return nil, ErrDonationNotFound
	}
	return &d, nil
}

func (s memDonations) ListByDonor(_ context.Context, email string) ([]model.Donation, error) {
	return s.filter(func(d model.Donation) bool { return d.DonorEmail == email }), nil
}

func (s memDonations) ListByCampaign(_ context.Context, id string) ([]model.Donation, error) {
	return s.filter(func(d model.Donation) bool { return d.CampaignID == id }), nil
}

func (s memDonations) filter(keep func(model.Donation) bool) []model.Donation {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []model.Donation{}
	for _, d := range s.db.donations {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (n *recordingNotifier) Enqueue(msg notify.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return true
}

func (n *recordingNotifier) kinds() []notify.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notify.Kind
	for _, m := range n.msgs {
		out = append(out, m.Kind)
	}
	return out
}

type fakeGateway struct {
	cents int64
	err   error
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, cents int64) (string, error) {
	g.cents = cents
	if g.err != nil {
		return "", g.err
	}
	return "pi_test_secret", nil
}

const (
	adminEmail    = "admin@example.com"
	providerEmail = "provider@example.com"
	adopterEmail  = "adopter@example.com"
)

// testEnv wires every service over one memDB.
type testEnv struct {
	db        *memDB
	roles     *RoleResolver
	notifier  *recordingNotifier
	auth      *AuthService
	pets      *PetService
	adoptions *AdoptionService
	campaigns *CampaignService
	ledger    *LedgerService
}

func newTestEnv() *testEnv {
	db := newMemDB()
	db.users[adminEmail] = model.User{Email: adminEmail, Role: model.RoleAdmin}
	db.users[providerEmail] = model.User{Email: providerEmail, Role: model.RoleRegular}
	db.users[adopterEmail] = model.User{Email: adopterEmail, Role: model.RoleRegular}

	roles := NewRoleResolver(memUsers{db}, 0)
	n := &recordingNotifier{}
	return &testEnv{
		db:        db,
		roles:     roles,
		notifier:  n,
		auth:      NewAuthService(memUsers{db}, roles, n, "test-secret", time.Hour),
		pets:      NewPetService(memPets{db}, roles),
		adoptions: NewAdoptionService(memRequests{db}, memPets{db}, roles, n, metrics.Nop{}),
		campaigns: NewCampaignService(memCampaigns{db}, roles),
		ledger:    NewLedgerService(memDonations{db}, memCampaigns{db}, roles, n, metrics.Nop{}),
	}
}

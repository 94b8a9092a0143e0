package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fureverhome/fureverhome-go/internal/metrics"
	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/notify"
	"github.com/fureverhome/fureverhome-go/internal/sanitize"
)

// AdoptionService runs the adoption request workflow.
type AdoptionService struct {
	requests AdoptionStore
	pets     PetStore
	roles    *RoleResolver
	notifier Notifier
	metrics  metrics.Recorder
}

// NewAdoptionService creates a new AdoptionService.
func NewAdoptionService(requests AdoptionStore, pets PetStore, roles *RoleResolver, notifier Notifier, m metrics.Recorder) *AdoptionService {
	return &AdoptionService{
		requests: requests,
		pets:     pets,
		roles:    roles,
		notifier: notifier,
		metrics:  m,
	}
}

// Submit files a pending request from requester for a pet. A second request
// for the same pet from the same requester is not an error: the result has
// Duplicate set and no new record is written.
func (s *AdoptionService) Submit(ctx context.Context, requester string, req model.SubmitAdoptionRequest) (model.SubmitAdoptionResult, error) {
	petID, err := parseRef(req.PetID)
	if err != nil {
		return model.SubmitAdoptionResult{}, err
	}
	name := sanitize.PlainText(req.RequesterName)
	if name == "" {
		return model.SubmitAdoptionResult{}, ErrNameRequired
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return model.SubmitAdoptionResult{}, err
	}
	if pet.Adopted {
		return model.SubmitAdoptionResult{}, ErrPetAlreadyAdopted
	}
	if strings.EqualFold(pet.ProviderEmail, requester) {
		return model.SubmitAdoptionResult{}, ErrOwnPet
	}

	ar := &model.AdoptionRequest{
		ID:             uuid.NewString(),
		PetID:          pet.ID,
		RequesterEmail: requester,
		RequesterName:  name,
		Phone:          sanitize.PlainText(req.Phone),
		Address:        sanitize.PlainText(req.Address),
		ProviderEmail:  pet.ProviderEmail,
		Status:         model.AdoptionPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.requests.Create(ctx, ar); err != nil {
		if errors.Is(err, ErrDuplicateRequest) {
			s.metrics.RecordDuplicateAdoption()
			return model.SubmitAdoptionResult{Duplicate: true, Message: DuplicateRequestMessage}, nil
		}
		return model.SubmitAdoptionResult{}, err
	}
	return model.SubmitAdoptionResult{Request: ar}, nil
}

// Received lists the requests for pets provided by email.
func (s *AdoptionService) Received(ctx context.Context, email string) ([]model.AdoptionRequest, error) {
	return s.requests.ListByProvider(ctx, email)
}

// Sent lists the requests email has submitted.
func (s *AdoptionService) Sent(ctx context.Context, email string) ([]model.AdoptionRequest, error) {
	return s.requests.ListByRequester(ctx, email)
}

// Approve accepts a pending request and marks its pet adopted, atomically.
// The pet is always the one the request was filed for.
func (s *AdoptionService) Approve(ctx context.Context, caller, id string) (*model.AdoptionRequest, error) {
	ar, err := s.decidable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Approve(ctx, ar.ID); err != nil {
		return nil, err
	}
	ar.Status = model.AdoptionApproved
	s.notifyDecision(ctx, ar, true)
	return ar, nil
}

// Reject declines a pending request. The pet stays available.
func (s *AdoptionService) Reject(ctx context.Context, caller, id string) (*model.AdoptionRequest, error) {
	ar, err := s.decidable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Reject(ctx, ar.ID); err != nil {
		return nil, err
	}
	ar.Status = model.AdoptionRejected
	s.notifyDecision(ctx, ar, false)
	return ar, nil
}

// decidable loads a request the caller is allowed to decide on.
func (s *AdoptionService) decidable(ctx context.Context, caller, id string) (*model.AdoptionRequest, error) {
	id, err := parseRef(id)
	if err != nil {
		return nil, err
	}
	ar, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, s.roles, caller, ar.ProviderEmail); err != nil {
		return nil, err
	}
	if ar.Status != model.AdoptionPending {
		return nil, ErrRequestNotPending
	}
	return ar, nil
}

func (s *AdoptionService) notifyDecision(ctx context.Context, ar *model.AdoptionRequest, approved bool) {
	petName := "your pet"
	if pet, err := s.pets.GetByID(ctx, ar.PetID); err == nil {
		petName = pet.Name
	}
	s.notifier.Enqueue(notify.AdoptionDecision(ar.RequesterEmail, petName, approved))
}

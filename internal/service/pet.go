package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/sanitize"
)

// PetService handles pet listings.
type PetService struct {
	pets  PetStore
	roles *RoleResolver
}

// NewPetService creates a new PetService.
func NewPetService(pets PetStore, roles *RoleResolver) *PetService {
	return &PetService{pets: pets, roles: roles}
}

// Create publishes a pet on behalf of caller.
func (s *PetService) Create(ctx context.Context, caller string, req model.PetRequest) (*model.Pet, error) {
	if err := validatePet(req); err != nil {
		return nil, err
	}

	pet := &model.Pet{
		ID:            uuid.NewString(),
		ProviderEmail: caller,
		CreatedAt:     time.Now().UTC(),
	}
	applyPetRequest(pet, req)

	if err := s.pets.Create(ctx, pet); err != nil {
		return nil, err
	}
	return pet, nil
}

// Get returns one pet.
func (s *PetService) Get(ctx context.Context, id string) (*model.Pet, error) {
	id, err := parseRef(id)
	if err != nil {
		return nil, err
	}
	return s.pets.GetByID(ctx, id)
}

// ListAvailable returns pets still looking for a home.
func (s *PetService) ListAvailable(ctx context.Context, f model.PetFilter) ([]model.Pet, error) {
	f.Category = strings.TrimSpace(f.Category)
	f.Search = strings.TrimSpace(f.Search)
	return s.pets.ListAvailable(ctx, f)
}

func (s *PetService) ListAll(ctx context.Context) ([]model.Pet, error) {
	return s.pets.ListAll(ctx)
}

func (s *PetService) ListByProvider(ctx context.Context, email string) ([]model.Pet, error) {
	return s.pets.ListByProvider(ctx, email)
}

// Update edits a pet. Only its provider or an admin may do so.
func (s *PetService) Update(ctx context.Context, caller, id string, req model.PetRequest) (*model.Pet, error) {
	if err := validatePet(req); err != nil {
		return nil, err
	}
	pet, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	applyPetRequest(pet, req)
	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, err
	}
	return pet, nil
}

// SetAdopted lets the provider or an admin correct the adopted flag. Only
// clearing is accepted here, and only for a pet with no approved request;
// adoption itself goes through AdoptionService.Approve.
func (s *PetService) SetAdopted(ctx context.Context, caller, id string, adopted bool) error {
	pet, err := s.owned(ctx, caller, id)
	if err != nil {
		return err
	}
	if adopted {
		if pet.Adopted {
			return nil
		}
		return ErrAdoptByRequest
	}
	return s.pets.ClearAdopted(ctx, pet.ID)
}

// Delete removes a pet together with its adoption requests.
func (s *PetService) Delete(ctx context.Context, caller, id string) error {
	pet, err := s.owned(ctx, caller, id)
	if err != nil {
		return err
	}
	return s.pets.Delete(ctx, pet.ID)
}

func (s *PetService) owned(ctx context.Context, caller, id string) (*model.Pet, error) {
	id, err := parseRef(id)
	if err != nil {
		return nil, err
	}
	pet, err := s.pets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, s.roles, caller, pet.ProviderEmail); err != nil {
		return nil, err
	}
	return pet, nil
}

func validatePet(req model.PetRequest) error {
	switch {
	case sanitize.PlainText(req.Name) == "":
		return ErrNameRequired
	case sanitize.PlainText(req.Category) == "":
		return ErrCategoryRequired
	case req.Age < 0:
		return ErrInvalidAge
	}
	return nil
}

func applyPetRequest(pet *model.Pet, req model.PetRequest) {
	pet.Name = sanitize.PlainText(req.Name)
	pet.Age = req.Age
	pet.Category = sanitize.PlainText(req.Category)
	pet.Location = sanitize.PlainText(req.Location)
	pet.ImageURL = strings.TrimSpace(req.ImageURL)
	pet.ShortDescription = sanitize.PlainText(req.ShortDescription)
	pet.LongDescription = sanitize.RichText(req.LongDescription)
}

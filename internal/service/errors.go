package service

import (
	"errors"

	"github.com/fureverhome/fureverhome-go/internal/repository"
)

var (
	ErrEmailRequired       = errors.New("email is required")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidReference    = errors.New("invalid identifier")
	ErrForbidden           = errors.New("forbidden")
	ErrNameRequired        = errors.New("name is required")
	ErrCategoryRequired    = errors.New("category is required")
	ErrInvalidAge          = errors.New("age must not be negative")
	ErrInvalidDate         = errors.New("lastDonationDate must be YYYY-MM-DD")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrAmountPrecision     = errors.New("amount must have at most two decimal places")
	ErrZeroDelta           = errors.New("amount must not be zero")
	ErrInvalidStatus       = errors.New("status must be Active or Paused")
	ErrTransactionRequired = errors.New("transactionId is required")
	ErrOwnPet              = errors.New("cannot request to adopt your own pet")
	ErrAdoptByRequest      = errors.New("pets are adopted by approving an adoption request")
)

// Store conditions surface unchanged so handlers can match them with errors.Is.
var (
	ErrUserNotFound          = repository.ErrUserNotFound
	ErrPetNotFound           = repository.ErrPetNotFound
	ErrPetAlreadyAdopted     = repository.ErrPetAlreadyAdopted
	ErrPetHasApprovedRequest = repository.ErrPetHasApprovedRequest
	ErrRequestNotFound       = repository.ErrRequestNotFound
	ErrRequestNotPending     = repository.ErrRequestNotPending
	ErrCampaignNotFound      = repository.ErrCampaignNotFound
	ErrCampaignPaused        = repository.ErrCampaignPaused
	ErrDonationNotFound      = repository.ErrDonationNotFound
	ErrDuplicateRequest      = repository.ErrDuplicateRequest
)

// DuplicateRequestMessage is returned when an adoption request already exists.
const DuplicateRequestMessage = "Request Already Sent to Provider"

package repository

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrPetNotFound           = errors.New("pet not found")
	ErrPetAlreadyAdopted     = errors.New("pet already adopted")
	ErrPetHasApprovedRequest = errors.New("pet has an approved adoption request")
	ErrRequestNotFound       = errors.New("adoption request not found")
	ErrRequestNotPending     = errors.New("adoption request is no longer pending")
	ErrDuplicateRequest      = errors.New("adoption request already exists")
	ErrCampaignNotFound      = errors.New("donation campaign not found")
	ErrCampaignPaused        = errors.New("donation campaign is paused")
	ErrDonationNotFound      = errors.New("donation not found")
)

package model

import "time"

// AdoptionStatus is the lifecycle state of an adoption request.
type AdoptionStatus string

const (
	AdoptionPending  AdoptionStatus = "Pending"
	AdoptionApproved AdoptionStatus = "Approved"
	AdoptionRejected AdoptionStatus = "Rejected"
)

// AdoptionRequest is a requester's application for a pet. At most one exists
// per (PetID, RequesterEmail).
type AdoptionRequest struct {
	ID             string         `json:"id"`
	PetID          string         `json:"petId"`
	RequesterEmail string         `json:"requesterEmail"`
	RequesterName  string         `json:"requesterName"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	ProviderEmail  string         `json:"providerEmail"`
	Status         AdoptionStatus `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// SubmitAdoptionRequest is the body of POST /adoptionRequests.
type SubmitAdoptionRequest struct {
	PetID         string `json:"petId"`
	RequesterName string `json:"requesterName"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// SubmitAdoptionResult distinguishes a fresh submission from a repeated one.
type SubmitAdoptionResult struct {
	Request   *AdoptionRequest `json:"request,omitempty"`
	Duplicate bool             `json:"duplicate"`
	Message   string           `json:"message,omitempty"`
}

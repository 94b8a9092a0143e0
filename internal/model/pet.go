package model

import "time"

// Pet is a listing published by a provider.
type Pet struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Category         string    `json:"category"`
	Location         string    `json:"location"`
	ImageURL         string    `json:"imageUrl"`
	ShortDescription string    `json:"shortDescription"`
	LongDescription  string    `json:"longDescription"`
	ProviderEmail    string    `json:"providerEmail"`
	Adopted          bool      `json:"adopted"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PetRequest is the body for creating or editing a pet.
type PetRequest struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Category         string `json:"category"`
	Location         string `json:"location"`
	ImageURL         string `json:"imageUrl"`
	ShortDescription string `json:"shortDescription"`
	LongDescription  string `json:"longDescription"`
}

// PetFilter narrows the public pet listing. Zero values mean "no filter".
type PetFilter struct {
	Category string
	Search   string
	Limit    int
}

// AdoptedRequest is the body of PATCH /pet/{id}/adopted. Setting true is
// refused; adoption happens by approving a request.
type AdoptedRequest struct {
	Adopted bool `json:"adopted"`
}

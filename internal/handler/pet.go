package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/service"
)

// PetHandler handles HTTP requests for pet listings.
type PetHandler struct {
	service *service.PetService
	log     *zap.Logger
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(svc *service.PetService, log *zap.Logger) *PetHandler {
	return &PetHandler{service: svc, log: log}
}

// HandleListAvailable handles GET /pets requests.
func (h *PetHandler) HandleListAvailable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pets, err := h.service.ListAvailable(r.Context(), model.PetFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Limit:    queryLimit(r),
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, pets)
}

// HandleGet handles GET /pet/{id} requests.
func (h *PetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	pet, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// HandleCreate handles POST /pets requests.
func (h *PetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	var req model.PetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pet, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, pet)
}

// HandleListMine handles GET /myPets requests.
func (h *PetHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	pets, err := h.service.ListByProvider(r.Context(), caller)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, pets)
}

// HandleListAll handles GET /admin/pets requests.
func (h *PetHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	pets, err := h.service.ListAll(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, pets)
}

// HandleUpdate handles PUT /pet/{id} requests.
func (h *PetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	var req model.PetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pet, err := h.service.Update(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// HandleSetAdopted handles PATCH /pet/{id}/adopted and PATCH /admin/pet/{id}/adopted.
func (h *PetHandler) HandleSetAdopted(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	var req model.AdoptedRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.SetAdopted(r.Context(), caller, id, req.Adopted); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "adopted": req.Adopted})
}

// HandleDelete handles DELETE /pet/{id} and DELETE /admin/pet/{id}.
func (h *PetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

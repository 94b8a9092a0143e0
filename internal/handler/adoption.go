package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/service"
)

// AdoptionHandler handles HTTP requests for adoption requests.
type AdoptionHandler struct {
	service *service.AdoptionService
	log     *zap.Logger
}

// NewAdoptionHandler creates a new AdoptionHandler.
func NewAdoptionHandler(svc *service.AdoptionService, log *zap.Logger) *AdoptionHandler {
	return &AdoptionHandler{service: svc, log: log}
}

// HandleSubmit handles POST /adoptionRequests requests. A repeated request
// answers 200 with the duplicate message instead of creating a record.
func (h *AdoptionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	var req model.SubmitAdoptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.Submit(r.Context(), caller, req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if res.Duplicate {
		writeJSON(w, http.StatusOK, res)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleReceived handles GET /adoptionRequests requests.
func (h *AdoptionHandler) HandleReceived(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	reqs, err := h.service.Received(r.Context(), caller)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// HandleSent handles GET /myAdoptionRequests requests.
func (h *AdoptionHandler) HandleSent(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	reqs, err := h.service.Sent(r.Context(), caller)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// HandleApprove handles PATCH /adoptionRequests/{id}/approve requests.
func (h *AdoptionHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Approve)
}

// HandleReject handles PATCH /adoptionRequests/{id}/reject requests.
func (h *AdoptionHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.service.Reject)
}

type decision func(ctx context.Context, caller, id string) (*model.AdoptionRequest, error)

func (h *AdoptionHandler) decide(w http.ResponseWriter, r *http.Request, fn decision) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	ar, err := fn(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ar)
}

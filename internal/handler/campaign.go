package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/service"
)

// CampaignHandler handles HTTP requests for donation campaigns.
type CampaignHandler struct {
	campaigns *service.CampaignService
	ledger    *service.LedgerService
	log       *zap.Logger
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(campaigns *service.CampaignService, ledger *service.LedgerService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, ledger: ledger, log: log}
}

// HandleList handles GET /donationCampaigns requests.
func (h *CampaignHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaigns.List(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// HandleListAll handles GET /admin/donationCampaigns requests.
func (h *CampaignHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaigns.ListAll(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// HandleGet handles GET /donationCampaign/{id} requests.
func (h *CampaignHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.campaigns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleCreate handles POST /donationCampaigns requests.
func (h *CampaignHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	var req model.CampaignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.campaigns.Create(r.Context(), caller, req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleListMine handles GET /myCampaigns requests.
func (h *CampaignHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	campaigns, err := h.campaigns.ListByCreator(r.Context(), caller)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// HandleUpdate handles PUT /donationCampaign/{id} requests.
func (h *CampaignHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	var req model.CampaignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.campaigns.Update(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleSetStatus handles PATCH /donationCampaign/{id}/status requests.
func (h *CampaignHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	var req model.CampaignStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.ledger.SetCampaignStatus(r.Context(), caller, id, req.Status); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}

// HandleListDonations handles GET /donationCampaign/{id}/donations requests.
func (h *CampaignHandler) HandleListDonations(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	donations, err := h.ledger.DonationsByCampaign(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, donations)
}

// HandleDelete handles DELETE /admin/donationCampaign/{id} requests.
func (h *CampaignHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.campaigns.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReconcile handles POST /admin/donationCampaign/{id}/reconcile requests.
func (h *CampaignHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	res, err := h.ledger.Reconcile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if !res.Drift.IsZero() {
		h.log.Warn("campaign total drifted",
			zap.String("campaign_id", res.CampaignID),
			zap.String("before", res.Before.String()),
			zap.String("after", res.After.String()),
		)
	}
	writeJSON(w, http.StatusOK, res)
}

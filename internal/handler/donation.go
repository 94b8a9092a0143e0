package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/service"
)

// DonationHandler handles payment and donation ledger requests.
type DonationHandler struct {
	ledger   *service.LedgerService
	payments *service.PaymentService
	log      *zap.Logger
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(ledger *service.LedgerService, payments *service.PaymentService, log *zap.Logger) *DonationHandler {
	return &DonationHandler{ledger: ledger, payments: payments, log: log}
}

// HandleCreatePaymentIntent handles POST /create-payment-intent requests.
func (h *DonationHandler) HandleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentIntentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	secret, err := h.payments.CreateIntent(r.Context(), req.Price)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, model.PaymentIntentResponse{ClientSecret: secret})
}

// HandleDonate handles POST /donate requests.
func (h *DonationHandler) HandleDonate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	var req model.DonateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.ledger.RecordDonation(r.Context(), caller, req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleListMine handles GET /myDonations requests.
func (h *DonationHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	donations, err := h.ledger.DonationsByDonor(r.Context(), caller)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, donations)
}

// HandleAdjustTotal handles PATCH /updateTotalDonation/{id} requests. The
// body carries a delta; the stored total is never overwritten.
func (h *DonationHandler) HandleAdjustTotal(w http.ResponseWriter, r *http.Request) {
	var req model.AggregateDeltaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.ledger.ApplyAggregateDelta(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleReverseForCampaign handles PATCH /updateTotalDonatedAmount/{id},
// where id is the campaign and the body names the donation to reverse.
func (h *DonationHandler) HandleReverseForCampaign(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}
	var req model.ReverseDonationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.ledger.ReverseDonation(r.Context(), caller, req.DonationID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleRefund handles DELETE /donations/{id} requests.
func (h *DonationHandler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}

	res, err := h.ledger.ReverseDonation(r.Context(), caller, chi.URLParam(r, "id"), "")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

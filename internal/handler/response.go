package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/middleware"
	"github.com/fureverhome/fureverhome-go/internal/payment"
	"github.com/fureverhome/fureverhome-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeJSON reads a JSON body into v. On failure it writes the error
// response itself and returns false. Bodies must be declared as
// application/json, which browsers cannot send cross-site without a preflight.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse("content type must be application/json"))
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

// callerEmail returns the authenticated email or writes a 401.
func callerEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized access"))
		return "", false
	}
	return email, true
}

// queryLimit parses ?limit=. Missing or malformed values mean no explicit limit.
func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var badRequestErrors = []error{
	service.ErrEmailRequired,
	service.ErrInvalidEmail,
	service.ErrInvalidReference,
	service.ErrNameRequired,
	service.ErrCategoryRequired,
	service.ErrInvalidAge,
	service.ErrInvalidDate,
	service.ErrInvalidAmount,
	service.ErrAmountPrecision,
	service.ErrZeroDelta,
	service.ErrInvalidStatus,
	service.ErrTransactionRequired,
	service.ErrOwnPet,
	service.ErrAdoptByRequest,
}

var notFoundErrors = []error{
	service.ErrUserNotFound,
	service.ErrPetNotFound,
	service.ErrRequestNotFound,
	service.ErrCampaignNotFound,
	service.ErrDonationNotFound,
}

var conflictErrors = []error{
	service.ErrPetAlreadyAdopted,
	service.ErrPetHasApprovedRequest,
	service.ErrRequestNotPending,
	service.ErrCampaignPaused,
}

// writeError maps service errors to HTTP statuses. Anything unrecognised is
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case isAny(err, badRequestErrors):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse("forbidden access"))
	case isAny(err, notFoundErrors):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case isAny(err, conflictErrors):
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, payment.ErrNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse(err.Error()))
	default:
		log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

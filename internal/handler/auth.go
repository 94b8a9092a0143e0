package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/middleware"
	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/service"
)

// AuthHandler handles sign-in, sign-out and user account requests.
type AuthHandler struct {
	service    *service.AuthService
	log        *zap.Logger
	production bool
	expiry     time.Duration
}

// NewAuthHandler creates a new AuthHandler. In production the token cookie is
// sent cross-site; elsewhere it is same-site only.
func NewAuthHandler(svc *service.AuthService, log *zap.Logger, production bool, expiry time.Duration) *AuthHandler {
	return &AuthHandler{service: svc, log: log, production: production, expiry: expiry}
}

// HandleIssueToken handles POST /jwt requests.
func (h *AuthHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req model.SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.service.SignIn(req.Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	http.SetCookie(w, h.cookie(token, int(h.expiry.Seconds())))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleLogout handles POST /logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie("", -1))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if h.production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// HandleUpsertUser handles PUT /users requests.
func (h *AuthHandler) HandleUpsertUser(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.UpsertUser(r.Context(), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// HandleGetRole handles GET /users/{email}/role requests.
func (h *AuthHandler) HandleGetRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerEmail(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetRole(r.Context(), caller, chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleListUsers handles GET /users requests.
func (h *AuthHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandlePromote handles PATCH /users/admin/{email} requests.
func (h *AuthHandler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := h.service.Promote(r.Context(), email); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": email, "role": string(model.RoleAdmin)})
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/metrics"
	"github.com/fureverhome/fureverhome-go/internal/middleware"
)

// RouterConfig carries what the router needs besides the handlers.
type RouterConfig struct {
	JWTSecret      string
	CORSOrigins    []string
	Roles          middleware.AdminChecker
	Metrics        metrics.Recorder
	MetricsHandler http.Handler
	Log            *zap.Logger
}

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth      *AuthHandler
	Pets      *PetHandler
	Adoptions *AdoptionHandler
	Campaigns *CampaignHandler
	Donations *DonationHandler
}

// NewRouter builds the HTTP routing tree. Background work owned by the
// router, such as rate limiter eviction, stops when ctx is cancelled.
func NewRouter(ctx context.Context, cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Log, cfg.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	authn := middleware.Authenticate(cfg.JWTSecret)
	admin := middleware.RequireAdmin(cfg.Roles, cfg.Log)

	// Public.
	r.Post("/logout", h.Auth.HandleLogout)
	r.Get("/pets", h.Pets.HandleListAvailable)
	r.Get("/pet/{id}", h.Pets.HandleGet)
	r.Get("/donationCampaigns", h.Campaigns.HandleList)
	r.Get("/donationCampaign/{id}", h.Campaigns.HandleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, 5, 10))
		r.Post("/jwt", h.Auth.HandleIssueToken)
		r.Put("/users", h.Auth.HandleUpsertUser)
	})

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Get("/users/{email}/role", h.Auth.HandleGetRole)

		r.Post("/pets", h.Pets.HandleCreate)
		r.Get("/myPets", h.Pets.HandleListMine)
		r.Put("/pet/{id}", h.Pets.HandleUpdate)
		r.Patch("/pet/{id}/adopted", h.Pets.HandleSetAdopted)
		r.Delete("/pet/{id}", h.Pets.HandleDelete)

		r.Post("/adoptionRequests", h.Adoptions.HandleSubmit)
		r.Get("/adoptionRequests", h.Adoptions.HandleReceived)
		r.Get("/myAdoptionRequests", h.Adoptions.HandleSent)
		r.Patch("/adoptionRequests/{id}/approve", h.Adoptions.HandleApprove)
		r.Patch("/adoptionRequests/{id}/reject", h.Adoptions.HandleReject)

		r.Post("/donationCampaigns", h.Campaigns.HandleCreate)
		r.Get("/myCampaigns", h.Campaigns.HandleListMine)
		r.Put("/donationCampaign/{id}", h.Campaigns.HandleUpdate)
		r.Patch("/donationCampaign/{id}/status", h.Campaigns.HandleSetStatus)
		r.Get("/donationCampaign/{id}/donations", h.Campaigns.HandleListDonations)

		r.With(middleware.RateLimit(ctx, 2, 5)).Post("/create-payment-intent", h.Donations.HandleCreatePaymentIntent)
		r.Post("/donate", h.Donations.HandleDonate)
		r.Get("/myDonations", h.Donations.HandleListMine)
		r.Patch("/updateTotalDonatedAmount/{id}", h.Donations.HandleReverseForCampaign)
		r.Delete("/donations/{id}", h.Donations.HandleRefund)

		r.Group(func(r chi.Router) {
			r.Use(admin)

			r.Get("/users", h.Auth.HandleListUsers)
			r.Patch("/users/admin/{email}", h.Auth.HandlePromote)

			r.Get("/admin/pets", h.Pets.HandleListAll)
			r.Patch("/admin/pet/{id}/adopted", h.Pets.HandleSetAdopted)
			r.Delete("/admin/pet/{id}", h.Pets.HandleDelete)

			r.Get("/admin/donationCampaigns", h.Campaigns.HandleListAll)
			r.Delete("/admin/donationCampaign/{id}", h.Campaigns.HandleDelete)
			r.Post("/admin/donationCampaign/{id}/reconcile", h.Campaigns.HandleReconcile)

			r.Patch("/updateTotalDonation/{id}", h.Donations.HandleAdjustTotal)
		})
	})

	return r
}

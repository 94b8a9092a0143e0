package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fureverhome/fureverhome-go/internal/handler"
	"github.com/fureverhome/fureverhome-go/internal/metrics"
	"github.com/fureverhome/fureverhome-go/internal/migrate"
	"github.com/fureverhome/fureverhome-go/internal/notify"
	"github.com/fureverhome/fureverhome-go/internal/payment"
	"github.com/fureverhome/fureverhome-go/internal/repository"
	"github.com/fureverhome/fureverhome-go/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, skipMigrate)
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply pending migrations at startup")
	return cmd
}

func runServe(ctx context.Context, skipMigrate bool) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg, log := a.cfg, a.log

	if !skipMigrate {
		if err := migrate.Up(ctx, a.db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	var sender notify.Sender = notify.LogSender{Log: log}
	if cfg.SMTPEnabled() {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.MailFrom,
		})
	}
	queue := notify.NewQueue(sender, cfg.NotifyQueueSize, log.Named("notify"), rec)
	queue.Start(cfg.NotifyWorkers)

	userRepo := repository.NewUserRepository(a.db)
	petRepo := repository.NewPetRepository(a.db)
	adoptionRepo := repository.NewAdoptionRepository(a.db)
	campaignRepo := repository.NewCampaignRepository(a.db)
	donationRepo := repository.NewDonationRepository(a.db)

	roles := service.NewRoleResolver(userRepo, cfg.RoleCacheTTL)
	authService := service.NewAuthService(userRepo, roles, queue, cfg.JWTSecret, cfg.JWTExpiry)
	petService := service.NewPetService(petRepo, roles)
	adoptionService := service.NewAdoptionService(adoptionRepo, petRepo, roles, queue, rec)
	campaignService := service.NewCampaignService(campaignRepo, roles)
	ledgerService := service.NewLedgerService(donationRepo, campaignRepo, roles, queue, rec)
	paymentService := service.NewPaymentService(payment.NewStripeGateway(cfg.StripeSecretKey))

	router := handler.NewRouter(ctx, handler.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		CORSOrigins:    cfg.CORSOrigins,
		Roles:          roles,
		Metrics:        rec,
		MetricsHandler: metrics.Handler(reg),
		Log:            log,
	}, handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, log, cfg.Production(), cfg.JWTExpiry),
		Pets:      handler.NewPetHandler(petService, log),
		Adoptions: handler.NewAdoptionHandler(adoptionService, log),
		Campaigns: handler.NewCampaignHandler(campaignService, ledgerService, log),
		Donations: handler.NewDonationHandler(ledgerService, paymentService, log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced shutdown", zap.Error(err))
	}
	if err := queue.Close(shutdownCtx); err != nil {
		log.Warn("notification queue not drained", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}

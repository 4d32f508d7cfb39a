package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "clubsphere-backend/internal/api/http"
	"clubsphere-backend/internal/config"
	"clubsphere-backend/internal/jobs"
	"clubsphere-backend/internal/logger"
	"clubsphere-backend/internal/metrics"
	"clubsphere-backend/internal/notify"
	"clubsphere-backend/internal/repository/stores"
	"clubsphere-backend/internal/scheduler"
	"clubsphere-backend/internal/security"
	"clubsphere-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ClubSphere backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "store", cfg.Store, "email_provider", cfg.Email.Provider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	store, err := stores.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "store", cfg.Store, "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	// Initialize metrics
	var m *metrics.Metrics
	if cfg.Server.MetricsEnabled {
		m, err = metrics.NewMetrics()
		if err != nil {
			logger.Error("Failed to initialize metrics", "error", err)
			log.Fatalf("Failed to initialize metrics: %v", err)
		}
	}

	// Initialize email
	sender, err := notify.New(cfg.Email)
	if err != nil {
		logger.Error("Failed to initialize email sender", "error", err)
		log.Fatalf("Failed to initialize email sender: %v", err)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Initialize Services
	notificationSvc := service.NewNotificationService(sender, store.UserRepository, store.ClubRepository, m)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager, cfg.Admin.BootstrapEmails)
	clubSvc := service.NewClubService(store.ClubRepository, store.UserRepository, store.MembershipRequestRepository)
	membershipSvc := service.NewMembershipService(
		store.MembershipRequestRepository,
		store.ClubRepository,
		store.UserRepository,
		notificationSvc,
		m,
	)
	eventSvc := service.NewEventService(store.EventRepository)

	// Initialize scheduler
	if cfg.Server.SchedulerEnabled {
		jobRunner := jobs.NewJobRunner(store.MembershipRequestRepository, notificationSvc, m, cfg)
		cronScheduler, err := scheduler.NewScheduler(jobRunner)
		if err != nil {
			logger.Error("Failed to initialize scheduler", "error", err)
			log.Fatalf("Failed to initialize scheduler: %v", err)
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	// Set up HTTP server
	handler := httpapi.NewHandler(httpapi.Dependencies{
		Auth:         authSvc,
		Clubs:        clubSvc,
		Memberships:  membershipSvc,
		Events:       eventSvc,
		Tokens:       tokenManager,
		Metrics:      m,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      handler.Router(),
		ReadTimeout:  config.MustDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.MustDuration(cfg.Server.WriteTimeout),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.MustDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", "error", err)
		}
	}
	logger.Info("Server stopped. Goodbye!")
}

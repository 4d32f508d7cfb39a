package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"clubsphere-backend/internal/config"
	"clubsphere-backend/internal/jobs"
	"clubsphere-backend/internal/logger"
	"clubsphere-backend/internal/metrics"
	"clubsphere-backend/internal/notify"
	"clubsphere-backend/internal/repository/stores"
	"clubsphere-backend/internal/scheduler"
	"clubsphere-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'digest')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ClubSphere Cronjob Runner...", "log_level", cfg.Log.Level)

	store, err := stores.Open(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to open store", "store", cfg.Store, "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	sender, err := notify.New(cfg.Email)
	if err != nil {
		logger.Error("Failed to initialize email sender", "error", err)
		log.Fatalf("Failed to initialize email sender: %v", err)
	}

	// Metrics are collected but not exported by the runner.
	m, err := metrics.NewMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	notificationSvc := service.NewNotificationService(sender, store.UserRepository, store.ClubRepository, m)
	jobRunner := jobs.NewJobRunner(store.MembershipRequestRepository, notificationSvc, m, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.Run(*runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			fmt.Printf("Available jobs:\n")
			fmt.Printf("  - %s\n", jobs.JobPendingRequestDigest)
			store.Close()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to initialize scheduler", "error", err)
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "next", cronScheduler.Next())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

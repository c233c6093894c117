package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"wardrobe-rental-backend/internal/bootstrap"
	"wardrobe-rental-backend/internal/config"
	"wardrobe-rental-backend/internal/jobs"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/scheduler"
	"wardrobe-rental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reap-expired-locks', 'reconcile-taxes', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Wardrobe Cronjob Runner...", "log_level", cfg.Log.Level)

	ctx := context.Background()

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open storage", "error", err)
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer storage.Close()

	availabilityCache, closeCache, err := bootstrap.NewCache(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize cache", "error", err)
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer closeCache()

	publisher, err := bootstrap.NewPublisher(cfg)
	if err != nil {
		logger.Error("Failed to initialize event publisher", "error", err)
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}
	defer publisher.Close()

	notifier, err := bootstrap.NewNotifier(ctx, cfg, storage.Repos)
	if err != nil {
		logger.Error("Failed to initialize notifications", "error", err)
		log.Fatalf("Failed to initialize notifications: %v", err)
	}

	engine := service.NewReservationService(
		storage.Repos,
		bootstrap.NewPaymentGateway(cfg),
		bootstrap.NewTaxService(cfg),
		notifier,
		publisher,
		availabilityCache,
		cfg.Booking.Engine(),
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(&jobs.Services{Maintenance: engine}, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to register jobs", "error", err)
		log.Fatalf("Failed to register jobs: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and reports whether the name was known
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	switch jobName {
	case "reap-expired-locks":
		jobRunner.ReapExpiredLocks()
	case "reconcile-taxes":
		jobRunner.ReconcileTaxes()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - reap-expired-locks\n")
		fmt.Printf("  - reconcile-taxes\n")
		fmt.Printf("  - all\n")
		return false
	}
	return true
}

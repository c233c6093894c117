package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "wardrobe-rental-backend/internal/api/grpc"
	httpapi "wardrobe-rental-backend/internal/api/http"
	"wardrobe-rental-backend/internal/bootstrap"
	"wardrobe-rental-backend/internal/config"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/service"

	_ "github.com/lib/pq"
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
	logger.Info("Starting Wardrobe Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
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
		logger.Error("Failed to initialize event publisher", "error", err, "driver", cfg.Events.Driver)
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}
	defer publisher.Close()

	notifier, err := bootstrap.NewNotifier(ctx, cfg, storage.Repos)
	if err != nil {
		logger.Error("Failed to initialize notifications", "error", err)
		log.Fatalf("Failed to initialize notifications: %v", err)
	}

	// Initialize Services
	engineCfg := cfg.Booking.Engine()
	reservationSvc := service.NewReservationService(
		storage.Repos,
		bootstrap.NewPaymentGateway(cfg),
		bootstrap.NewTaxService(cfg),
		notifier,
		publisher,
		availabilityCache,
		engineCfg,
	)
	availabilitySvc := service.NewAvailabilityService(storage.Repos, availabilityCache, engineCfg)
	ledgerSvc := service.NewLedgerService(storage.Repos.Ledger)

	router := httpapi.NewRouter(httpapi.Services{
		Availability:  availabilitySvc,
		Reservations:  reservationSvc,
		Ledger:        ledgerSvc,
		Notifications: notifier,
		Health:        storage,
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	// gRPC health endpoint for orchestrator probes
	if cfg.GRPC.Port > 0 {
		monitor := grpcapi.NewHealthMonitor(storage, 10*time.Second)
		grpcServer := monitor.NewServer()
		lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		go monitor.Run(ctx)
		go func() {
			logger.Info("gRPC health server listening", "address", cfg.GetGRPCAddress())
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
		defer grpcServer.GracefulStop()
	}

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

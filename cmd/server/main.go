package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "rentloop-backend/internal/api/http"
	"rentloop-backend/internal/clock"
	"rentloop-backend/internal/config"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/repository/postgres"
	"rentloop-backend/internal/security"
	"rentloop-backend/internal/service"
	"rentloop-backend/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentloop Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	clk := clock.Real()
	emailSvc := service.NewEmailService(cfg.Email)

	evidenceStore, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize evidence storage", "error", err)
		log.Fatalf("Failed to initialize evidence storage: %v", err)
	}

	complianceSvc := service.NewComplianceService(store, cfg.Compliance)
	penaltySvc := service.NewPenaltyService(store, complianceSvc, emailSvc, clk, cfg.Penalty)
	bookingSvc := service.NewBookingService(store, complianceSvc, penaltySvc, emailSvc, clk, cfg.Booking)
	disputeSvc := service.NewDisputeService(store, complianceSvc, emailSvc)
	reviewSvc := service.NewReviewService(store)
	notificationSvc := service.NewNotificationService(store)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Bookings:      bookingSvc,
		Penalties:     penaltySvc,
		Compliance:    complianceSvc,
		Disputes:      disputeSvc,
		Reviews:       reviewSvc,
		Notifications: notificationSvc,
		Evidence:      evidenceStore,
		Tokens:        tokenManager,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

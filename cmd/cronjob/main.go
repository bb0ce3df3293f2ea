package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"rentloop-backend/internal/clock"
	"rentloop-backend/internal/config"
	"rentloop-backend/internal/jobs"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/repository/postgres"
	"rentloop-backend/internal/scheduler"
	"rentloop-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('process-late-bookings', 'expire-stale-bookings', 'all')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentloop Cronjob Runner...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	clk := clock.Real()
	emailSvc := service.NewEmailService(cfg.Email)
	complianceSvc := service.NewComplianceService(store, cfg.Compliance)
	penaltySvc := service.NewPenaltyService(store, complianceSvc, emailSvc, clk, cfg.Penalty)
	bookingSvc := service.NewBookingService(store, complianceSvc, penaltySvc, emailSvc, clk, cfg.Booking)

	jobRunner := jobs.NewJobRunner(bookingSvc, penaltySvc, cfg)

	if *runOnce != "" {
		runSingleJob(jobRunner, *runOnce)
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	logger.Info("Cronjob runner started, waiting for scheduled jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutdown signal received", "signal", sig.String())

	sched.Stop()
	logger.Info("Cronjob runner stopped")
}

func runSingleJob(jobRunner *jobs.JobRunner, jobName string) {
	logger.Info("Running single job", "job", jobName)
	switch jobName {
	case "process-late-bookings":
		jobRunner.ProcessLateBookings()
	case "expire-stale-bookings":
		jobRunner.ExpireStaleBookings()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		log.Fatalf("Unknown job name: %s (valid: process-late-bookings, expire-stale-bookings, all)", jobName)
	}
	logger.Info("Job completed", "job", jobName)
}

package jobs

import (
	"rentloop-backend/internal/config"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/service"
)

// JobRunner coordinates all scheduled sweeps. The core never self-schedules;
// the scheduler (or the cronjob binary) drives these entry points.
type JobRunner struct {
	booking service.BookingService
	penalty service.PenaltyService
	config  *config.Config
}

func NewJobRunner(booking service.BookingService, penalty service.PenaltyService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		booking: booking,
		penalty: penalty,
		config:  cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllJobs runs every sweep once (for manual execution).
func (jr *JobRunner) RunAllJobs() {
	jr.ExpireStaleBookings()
	jr.ProcessLateBookings()
}

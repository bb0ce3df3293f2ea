package jobs

import (
	"context"

	"rentloop-backend/internal/logger"
)

// ProcessLateBookings posts late-return fines for active bookings past their
// end date. Idempotent: a booking already fined is skipped, so the sweep may
// run concurrently with user-triggered returns.
func (jr *JobRunner) ProcessLateBookings() {
	jr.runWithRecovery("ProcessLateBookings", func() {
		ctx := context.Background()

		fined, err := jr.penalty.ProcessLateBookings(ctx)
		if err != nil {
			logger.Error("Failed to process late bookings", "error", err)
			return
		}

		logger.Info("Late booking sweep finished", "fines_created", fined)
	})
}

// ExpireStaleBookings frees units held by bookings stuck awaiting payment or
// vendor confirmation past their staleness windows.
func (jr *JobRunner) ExpireStaleBookings() {
	jr.runWithRecovery("ExpireStaleBookings", func() {
		ctx := context.Background()

		expired, err := jr.booking.ExpireStale(ctx)
		if err != nil {
			logger.Error("Failed to expire stale bookings", "error", err)
			return
		}

		logger.Info("Stale booking sweep finished", "expired", expired)
	})
}

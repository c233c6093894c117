package jobs

import (
	"context"
	"time"

	"wardrobe-rental-backend/internal/logger"
)

// ReapExpiredLocks deletes reservations that stayed in the bare locked state past
// their lock timeout
func (jr *JobRunner) ReapExpiredLocks() {
	jr.runWithRecovery("ReapExpiredLocks", func(ctx context.Context) {
		released, err := jr.services.Maintenance.ReleaseExpiredLocks(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to release expired locks", "released", released, "error", err)
			return
		}
		if released > 0 {
			logger.Info("Released expired reservation locks", "count", released)
		}
	})
}

// ReconcileTaxes retries tax captures and reversals that failed inline
func (jr *JobRunner) ReconcileTaxes() {
	jr.runWithRecovery("ReconcileTaxes", func(ctx context.Context) {
		captured, reversed, err := jr.services.Maintenance.ReconcileTaxes(ctx, jr.config.Scheduler.ReconcileBatch)
		if err != nil {
			logger.Error("Failed to reconcile taxes", "captured", captured, "reversed", reversed, "error", err)
			return
		}

		logger.Info("Tax reconciliation completed",
			"captured", captured,
			"reversed", reversed)
	})
}

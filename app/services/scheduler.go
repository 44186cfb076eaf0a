package services

import (
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartScheduler runs the nightly maintenance tasks in the background.
func StartScheduler(db *sql.DB, logger *zap.Logger) {
	go func() {
		logger.Info("Scheduler started")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()

			// Trigger at 8:05 PM (20:05)
			if now.Hour() == 20 && now.Minute() == 5 {
				logger.Info("Running scheduled maintenance tasks")

				if err := SweepStaleWorkflows(db, logger); err != nil {
					logger.Error("Stale workflow sweep failed", zap.Error(err))
				}
				if err := FlagOverdueLoans(db, logger); err != nil {
					logger.Error("Overdue loan sweep failed", zap.Error(err))
				}
			}
		}
	}()
}

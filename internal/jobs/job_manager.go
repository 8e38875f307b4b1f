package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"messhall/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orderCleanupJob *OrderCleanupJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	purgeOrdersHandler commands.PurgeOrdersCommandHandler,
	cleanupSchedule string,
	cleanupRetention time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		orderCleanupJob: NewOrderCleanupJob(purgeOrdersHandler, cleanupSchedule, cleanupRetention, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orderCleanupJob.Start(); err != nil {
		return fmt.Errorf("failed to start order cleanup job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.orderCleanupJob.Stop()
}

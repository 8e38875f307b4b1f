package jobs

import (
	"context"
	"log/slog"
	"time"

	"messhall/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OrderCleanupJob periodically purges stale orders: pending or cancelled,
// without payment artifacts, untouched for longer than the retention age.
// Orders with any payment history are never purged.
type OrderCleanupJob struct {
	handler   commands.PurgeOrdersCommandHandler
	schedule  string
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOrderCleanupJob creates a cleanup job. schedule is a standard cron
// expression; retention is how long a stale order is kept before it becomes
// purgeable.
func NewOrderCleanupJob(
	handler commands.PurgeOrdersCommandHandler,
	schedule string,
	retention time.Duration,
	logger *slog.Logger,
) *OrderCleanupJob {
	return &OrderCleanupJob{
		handler:   handler,
		schedule:  schedule,
		retention: retention,
		cron:      cron.New(),
		logger:    logger.With("component", "order_cleanup_job"),
	}
}

// Start schedules the cleanup job.
func (j *OrderCleanupJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order cleanup job started",
		"schedule", j.schedule, "retention", j.retention)
	return nil
}

// Stop stops the cleanup job.
func (j *OrderCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order cleanup job stopped")
}

func (j *OrderCleanupJob) run() {
	ctx := context.Background()

	cmd, err := commands.NewPurgeOrdersCommand(time.Now().UTC().Add(-j.retention))
	if err != nil {
		j.logger.ErrorContext(ctx, "Order cleanup job misconfigured", "error", err)
		return
	}

	if _, err := j.handler.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Order cleanup job failed", "error", err)
	}
}

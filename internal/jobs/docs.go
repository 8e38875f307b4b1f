// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic housekeeping of the order tables.
//
// # Available Jobs
//
// 1. OrderCleanupJob - Periodically purges stale pending and cancelled orders
// that never produced payment artifacts.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(purgeOrdersHandler, schedule, retention, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The cleanup job uses a standard five-field cron expression from
// configuration, typically hourly. Orders with any payment history are never
// purged regardless of age.
package jobs

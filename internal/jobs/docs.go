// Package jobs provides scheduled background tasks for the marketplace.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order settlement.
//
// # Available Jobs
//
// 1. WebhookReplayJob - Runs every minute to re-process provider events whose
// side effects failed on first delivery. The durable webhook record owns
// redelivery, so the provider is always acked with 200 and never asked to
// retry.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(webhookRepo, gateway, processWebhookHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A replay batch failure is logged and retried on the next tick; individual
// event failures stay recorded on the event rows and never abort the batch.
package jobs

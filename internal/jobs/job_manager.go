package jobs

import (
	"fmt"
	"log/slog"

	"marketplace/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	webhookReplayJob *WebhookReplayJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the webhook repository, gateway and handler as dependencies to wire
// up the replay loop.
func NewJobManager(
	webhookRepo ports.WebhookRepository,
	gateway ports.PaymentGateway,
	processWebhookHandler WebhookProcessor,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		webhookReplayJob: NewWebhookReplayJob(webhookRepo, gateway, processWebhookHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.webhookReplayJob.Start(); err != nil {
		return fmt.Errorf("failed to start webhook replay job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.webhookReplayJob.Stop()
}

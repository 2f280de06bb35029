package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// replayBatchSize bounds how many failed events one tick picks up.
const replayBatchSize = 50

// WebhookProcessor applies a recorded provider event.
type WebhookProcessor interface {
	Handle(ctx context.Context, cmd commands.ProcessWebhookEventCommand) error
}

// WebhookReplayJob periodically re-processes provider events whose side
// effects failed on first delivery. Events are re-parsed from their durably
// recorded payloads; signature verification happened on first receipt.
type WebhookReplayJob struct {
	webhookRepo ports.WebhookRepository
	gateway     ports.PaymentGateway
	handler     WebhookProcessor
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewWebhookReplayJob creates a new job for replaying failed webhook events.
func NewWebhookReplayJob(
	webhookRepo ports.WebhookRepository,
	gateway ports.PaymentGateway,
	handler WebhookProcessor,
	logger *slog.Logger,
) *WebhookReplayJob {
	return &WebhookReplayJob{
		webhookRepo: webhookRepo,
		gateway:     gateway,
		handler:     handler,
		cron:        cron.New(),
		logger:      logger.With("component", "webhook_replay_job"),
	}
}

// Start begins the webhook replay job to run every minute.
func (j *WebhookReplayJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		if err := j.replayFailedEvents(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Webhook replay batch failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Webhook replay job started (running every minute)")
	return nil
}

// Stop stops the webhook replay job.
func (j *WebhookReplayJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Webhook replay job stopped")
}

// replayFailedEvents picks up the oldest failed events and feeds them back
// through the reconciliation handler. The handler's dedup record is already
// FAILED, so each replay either marks the event processed or refreshes its
// last error for the next tick.
func (j *WebhookReplayJob) replayFailedEvents(ctx context.Context) error {
	events, err := j.webhookRepo.GetAllFailed(ctx, replayBatchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		providerEvent, parseErr := j.gateway.ParseEvent([]byte(event.Payload()))
		if parseErr != nil {
			j.logger.WarnContext(ctx, "Skipping unparseable recorded event",
				"event_id", event.ID(), "error", parseErr)
			continue
		}

		cmd, cmdErr := commands.NewProcessWebhookEventCommand(providerEvent)
		if cmdErr != nil {
			j.logger.WarnContext(ctx, "Skipping invalid recorded event",
				"event_id", event.ID(), "error", cmdErr)
			continue
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Webhook replay failed",
				"event_id", event.ID(), "error", handleErr)
		}
	}

	return nil
}

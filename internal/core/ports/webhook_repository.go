package ports

import (
	"context"

	"marketplace/internal/core/domain/model/webhook"
)

// WebhookRepository defines the persistence contract for inbound provider
// events, keyed by the provider's event id.
type WebhookRepository interface {
	// Add persists a freshly received event record.
	Add(ctx context.Context, event *webhook.Event) error

	// Update persists a processing status change.
	Update(ctx context.Context, event *webhook.Event) error

	// Get retrieves an event by the provider's event id.
	// Returns an error unwrapping to errs.ErrObjectNotFound when none exists.
	Get(ctx context.Context, id string) (*webhook.Event, error)

	// GetAllFailed retrieves events whose processing failed, oldest first,
	// for internal redelivery.
	GetAllFailed(ctx context.Context, limit int) ([]*webhook.Event, error)
}

package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/webhook"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// OrderStatusApplier applies one order status transition. Implemented by
// ChangeOrderStatusCommandHandler; abstracted so webhook reconciliation can
// be tested without settlement wiring.
type OrderStatusApplier interface {
	Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error
}

// ProcessWebhookEventCommandHandler reconciles provider webhook events with
// the order lifecycle.
//
// Deduplication is durable: the event is recorded under the provider's event
// id before any side effect runs, in its own transaction, so a redelivered
// event finds the record and becomes a no-op. The side effects run in a
// second, separate transaction; when they fail, the event record is marked
// FAILED and kept for internal redelivery, and the provider is still
// acknowledged rather than asked to redeliver.
//
// Event kinds map onto the order state machine as follows:
//   - payment succeeded -> PAID
//   - payment canceled  -> CANCELLED
//   - payment failed    -> REFUNDED
//
// Events of an unknown kind, or ones that reference no known order, are
// acknowledged and recorded as processed.
type ProcessWebhookEventCommandHandler struct {
	uowFactory    WebhookUoWFactory
	statusApplier OrderStatusApplier
}

// NewProcessWebhookEventCommandHandler creates a handler for webhook
// reconciliation. Requires a WebhookUoWFactory for the durable event record
// and an OrderStatusApplier for the resulting transitions.
func NewProcessWebhookEventCommandHandler(
	uowFactory WebhookUoWFactory,
	statusApplier OrderStatusApplier,
) ProcessWebhookEventCommandHandler {
	return ProcessWebhookEventCommandHandler{
		uowFactory:    uowFactory,
		statusApplier: statusApplier,
	}
}

// Handle processes the webhook reconciliation command.
// Returns an error only when the event could not even be recorded; processing
// failures are captured on the event record instead, so the HTTP boundary can
// acknowledge receipt either way.
func (h ProcessWebhookEventCommandHandler) Handle(ctx context.Context, cmd ProcessWebhookEventCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	event, alreadyProcessed, err := h.recordEvent(ctx, cmd.Event())
	if err != nil {
		return err
	}
	if alreadyProcessed {
		return nil
	}

	processErr := h.applyEvent(ctx, cmd.Event())
	if processErr != nil {
		event.MarkFailed(processErr)
	} else {
		event.MarkProcessed()
	}

	return h.updateEvent(ctx, event)
}

// recordEvent durably records the inbound event before any side effect.
// Returns the record and whether it was already processed by an earlier
// delivery.
func (h ProcessWebhookEventCommandHandler) recordEvent(
	ctx context.Context, providerEvent ports.ProviderEvent,
) (*webhook.Event, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	webhookRepo := uow.WebhookRepository()

	event, err := webhookRepo.Get(ctx, providerEvent.ID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		event, err = webhook.NewEvent(providerEvent.ID, providerEvent.Name, providerEvent.Payload)
		if err != nil {
			return nil, false, err
		}
		if err = webhookRepo.Add(ctx, event); err != nil {
			return nil, false, err
		}

		auditEntry, auditErr := audit.NewEntry(nil, "payments.webhook.received",
			"webhook_event", event.ID(), map[string]string{"event": providerEvent.Name})
		if auditErr != nil {
			return nil, false, auditErr
		}
		if err = uow.AuditRepository().Add(ctx, auditEntry); err != nil {
			return nil, false, err
		}
	case err != nil:
		return nil, false, err
	default:
		if event.IsProcessed() {
			return event, true, nil
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	return event, false, nil
}

// applyEvent translates the event kind into a status transition and applies
// it. Unknown kinds and events without an order reference are no-ops; a
// transition rejected by the state machine counts as already reconciled,
// which is what a duplicate delivery under a fresh event id looks like.
func (h ProcessWebhookEventCommandHandler) applyEvent(ctx context.Context, providerEvent ports.ProviderEvent) error {
	target, relevant := statusForEventKind(providerEvent.Kind)
	if !relevant || providerEvent.OrderID == nil {
		return nil
	}

	statusCommand, err := NewProviderStatusCommand(
		*providerEvent.OrderID, target, providerEvent.ProviderStatus, providerEvent.ID)
	if err != nil {
		return err
	}

	err = h.statusApplier.Handle(ctx, statusCommand)
	switch {
	case errors.Is(err, errs.ErrInvalidState):
		return nil
	case errors.Is(err, errs.ErrObjectNotFound):
		return nil
	default:
		return err
	}
}

// updateEvent persists the processing outcome in its own transaction.
func (h ProcessWebhookEventCommandHandler) updateEvent(ctx context.Context, event *webhook.Event) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.WebhookRepository().Update(ctx, event); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// statusForEventKind maps a provider event kind onto the target order status.
// The second return reports whether the kind is one this system reacts to.
func statusForEventKind(kind ports.ProviderEventKind) (order.Status, bool) {
	switch kind {
	case ports.EventKindPaymentSucceeded:
		return order.Paid, true
	case ports.EventKindPaymentCanceled:
		return order.Cancelled, true
	case ports.EventKindPaymentFailed:
		return order.Refunded, true
	default:
		return order.Unknown, false
	}
}

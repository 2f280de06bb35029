package commands

import (
	"errors"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrProcessWebhookEventCommandIsNotConstructed = errors.New(
		"ProcessWebhookEventCommand must be created via NewProcessWebhookEventCommand constructor",
	)
)

// ProcessWebhookEventCommand represents a verified inbound provider event to
// reconcile against the order lifecycle. The event must already have passed
// signature verification at the adapter boundary.
//
// Example:
//
//	event, err := gateway.VerifyAndParse(body, signature)
//	if err != nil {
//	    return err // bad signature, reject at the boundary
//	}
//	cmd, _ := NewProcessWebhookEventCommand(event)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err // event could not even be recorded
//	}
type ProcessWebhookEventCommand struct { //nolint:recvcheck //using for validation
	event ports.ProviderEvent

	guard guard.ConstructorGuard
}

// NewProcessWebhookEventCommand creates a command to reconcile one provider
// event. Validates that the event carries the provider's event id and type.
func NewProcessWebhookEventCommand(event ports.ProviderEvent) (ProcessWebhookEventCommand, error) {
	webhookCommand := ProcessWebhookEventCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := webhookCommand.setEvent(event); err != nil {
		return ProcessWebhookEventCommand{}, err
	}

	return webhookCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrProcessWebhookEventCommandIsNotConstructed if validation fails.
func (c ProcessWebhookEventCommand) Validate() error {
	return c.guard.Validate(ErrProcessWebhookEventCommandIsNotConstructed)
}

// Event returns the verified provider event.
func (c ProcessWebhookEventCommand) Event() ports.ProviderEvent {
	return c.event
}

func (c *ProcessWebhookEventCommand) setEvent(event ports.ProviderEvent) error {
	if event.ID == "" {
		return errs.NewValueIsRequiredError("event id")
	}
	if event.Name == "" {
		return errs.NewValueIsRequiredError("event name")
	}

	c.event = event
	return nil
}

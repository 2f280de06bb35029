package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var (
	ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
		"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
	)
)

// ChangeOrderStatusCommand represents a request to move an order to a new
// lifecycle status. It covers both operator-driven transitions (an admin
// marking an order FULFILLED) and provider-driven ones (a webhook confirming
// payment), distinguished by whether an actor is attached.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(orderID, order.Fulfilled, "Shipped via DHL", &adminID)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("transition failed: %w", err)
//	}
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	note    string

	// actorID is nil for system-driven transitions
	actorID *kernel.UUID

	// providerStatus and providerRef carry provider context on
	// webhook-driven transitions; empty otherwise
	providerStatus string
	providerRef    string

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a command to transition an order.
// Validates that the order id and the target status are valid; whether the
// transition itself is legal is decided by the aggregate inside the handler.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	note string,
	actorID *kernel.UUID,
) (ChangeOrderStatusCommand, error) {
	statusCommand := ChangeOrderStatusCommand{
		note:    note,
		actorID: actorID,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setTarget(target),
		statusCommand.validateActor(),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return statusCommand, nil
}

// NewProviderStatusCommand creates a system-driven transition command carrying
// the provider's raw status string and intent reference, as delivered by a
// verified webhook event.
func NewProviderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	providerStatus string,
	providerRef string,
) (ChangeOrderStatusCommand, error) {
	statusCommand, err := NewChangeOrderStatusCommand(orderID, target, "", nil)
	if err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	statusCommand.providerStatus = providerStatus
	statusCommand.providerRef = providerRef
	return statusCommand, nil
}

// WithProviderStatus returns a copy of the command carrying the provider's
// raw status string, for operator-driven transitions that relay provider
// context, like an admin confirming PAID from the provider dashboard.
func (c ChangeOrderStatusCommand) WithProviderStatus(providerStatus string) ChangeOrderStatusCommand {
	c.providerStatus = providerStatus
	return c
}

// Validate ensures the command was created through a constructor.
// Returns ErrChangeOrderStatusCommandIsNotConstructed if validation fails.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested target status.
func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}

// Note returns the optional human-readable note for the timeline.
func (c ChangeOrderStatusCommand) Note() string {
	return c.note
}

// ActorID returns the acting user, or nil for system-driven transitions.
func (c ChangeOrderStatusCommand) ActorID() *kernel.UUID {
	return c.actorID
}

// ProviderStatus returns the provider's raw status string, if any.
func (c ChangeOrderStatusCommand) ProviderStatus() string {
	return c.providerStatus
}

// ProviderRef returns the provider-side intent reference, if any.
func (c ChangeOrderStatusCommand) ProviderRef() string {
	return c.providerRef
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *ChangeOrderStatusCommand) validateActor() error {
	if c.actorID == nil {
		return nil
	}
	return c.actorID.Validate()
}

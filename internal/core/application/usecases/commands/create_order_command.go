package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a buyer's request to place an order against
// one seller. Line items carry listing references only; prices are resolved
// server-side from listing snapshots.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(buyerID, sellerID,
//	    []services.ItemRequest{{ListingID: listingID}},
//	    "USD", 500, 250, nil, nil, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order request: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
//	fmt.Printf("Order %s placed", result.Number)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	buyerID  kernel.UUID
	sellerID kernel.UUID
	items    []services.ItemRequest

	// currency is the caller-requested order currency; empty leaves the
	// choice to the listings
	currency string

	shippingCents int64
	feeCents      int64

	shippingAddressID *kernel.UUID
	billingAddressID  *kernel.UUID

	metadata map[string]string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates that buyer and seller ids are valid, at least one item is
// requested, the requested currency (when supplied) is a 3-letter uppercase
// code, and the shipping and fee charges are non-negative.
func NewCreateOrderCommand(
	buyerID kernel.UUID,
	sellerID kernel.UUID,
	items []services.ItemRequest,
	currency string,
	shippingCents int64,
	feeCents int64,
	shippingAddressID *kernel.UUID,
	billingAddressID *kernel.UUID,
	metadata map[string]string,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		shippingAddressID: shippingAddressID,
		billingAddressID:  billingAddressID,
		metadata:          metadata,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setParties(buyerID, sellerID),
		orderCommand.setItems(items),
		orderCommand.setCurrency(currency),
		orderCommand.setCharges(shippingCents, feeCents),
		orderCommand.validateAddresses(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// BuyerID returns the buyer placing the order.
func (c CreateOrderCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

// SellerID returns the seller the order is placed against.
func (c CreateOrderCommand) SellerID() kernel.UUID {
	return c.sellerID
}

// Items returns the requested line items.
func (c CreateOrderCommand) Items() []services.ItemRequest {
	return c.items
}

// Currency returns the caller-requested order currency, empty when the
// caller left the choice to the listings.
func (c CreateOrderCommand) Currency() string {
	return c.currency
}

// ShippingCents returns the shipping charge in minor units.
func (c CreateOrderCommand) ShippingCents() int64 {
	return c.shippingCents
}

// FeeCents returns the marketplace fee in minor units.
func (c CreateOrderCommand) FeeCents() int64 {
	return c.feeCents
}

// ShippingAddressID returns the optional shipping address reference.
func (c CreateOrderCommand) ShippingAddressID() *kernel.UUID {
	return c.shippingAddressID
}

// BillingAddressID returns the optional billing address reference.
func (c CreateOrderCommand) BillingAddressID() *kernel.UUID {
	return c.billingAddressID
}

// Metadata returns the caller-supplied metadata, possibly nil.
func (c CreateOrderCommand) Metadata() map[string]string {
	return c.metadata
}

func (c *CreateOrderCommand) setParties(buyerID, sellerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}
	if err := sellerID.Validate(); err != nil {
		return err
	}

	c.buyerID = buyerID
	c.sellerID = sellerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []services.ItemRequest) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setCurrency(currency string) error {
	if currency == "" {
		return nil
	}
	if len(currency) != 3 {
		return errs.NewValueIsInvalidError("currency")
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return errs.NewValueIsInvalidError("currency")
		}
	}

	c.currency = currency
	return nil
}

func (c *CreateOrderCommand) setCharges(shippingCents, feeCents int64) error {
	if shippingCents < 0 {
		return errs.NewValueIsInvalidError("shippingCents")
	}
	if feeCents < 0 {
		return errs.NewValueIsInvalidError("feeCents")
	}

	c.shippingCents = shippingCents
	c.feeCents = feeCents
	return nil
}

func (c *CreateOrderCommand) validateAddresses() error {
	if c.shippingAddressID != nil {
		if err := c.shippingAddressID.Validate(); err != nil {
			return err
		}
	}
	if c.billingAddressID != nil {
		if err := c.billingAddressID.Validate(); err != nil {
			return err
		}
	}
	return nil
}

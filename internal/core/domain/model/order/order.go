package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory functions.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order represents a buyer's purchase from a single seller. It is the
// aggregate root that manages the order lifecycle from placement through
// settlement.
//
// Order follows these invariants:
//   - every item shares the order currency
//   - totalItemCents equals the exact sum of item subtotals
//   - status only changes through TransitionTo, which enforces the state machine
//   - orders are never physically deleted; history lives in the timeline
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// number is the short human-shareable order number, e.g. "ORD-1A2B3C4D"
	number string

	buyerID  kernel.UUID
	sellerID kernel.UUID

	// status is the current state in the order lifecycle
	status Status

	// paymentStatus mirrors the payment transaction's internal status
	paymentStatus payment.Status

	// items are the line items snapshotted at purchase time, immutable
	items []*Item

	// totalItemCents is the sum of item subtotals; fixed at construction
	totalItemCents int64

	shippingCents int64
	feeCents      int64

	// currency is shared by the order and every item
	currency string

	placedAt    time.Time
	paidAt      *time.Time
	fulfilledAt *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time

	shippingAddressID *kernel.UUID
	billingAddressID  *kernel.UUID

	// metadata carries free-form caller-supplied context
	metadata map[string]string

	isConstructed bool
}

// NewOrder assembles an order from priced line items. The currency is derived
// from the items, which must all agree; totalItemCents is computed as the
// exact sum of unitPriceCents * quantity. The order starts in Pending with
// payment status Pending and placedAt set to now.
func NewOrder(
	id kernel.UUID,
	number string,
	buyerID kernel.UUID,
	sellerID kernel.UUID,
	items []*Item,
	shippingCents int64,
	feeCents int64,
	metadata map[string]string,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: payment.Pending,
		placedAt:      time.Now().UTC(),
		metadata:      metadata,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setParties(buyerID, sellerID),
		o.setItems(items),
		o.setCharges(shippingCents, feeCents),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrderParams carries the persisted state needed to rebuild an order.
type RestoreOrderParams struct {
	ID                kernel.UUID
	Number            string
	BuyerID           kernel.UUID
	SellerID          kernel.UUID
	Status            Status
	PaymentStatus     payment.Status
	Items             []*Item
	ShippingCents     int64
	FeeCents          int64
	PlacedAt          time.Time
	PaidAt            *time.Time
	FulfilledAt       *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	ShippingAddressID *kernel.UUID
	BillingAddressID  *kernel.UUID
	Metadata          map[string]string
}

// RestoreOrder reconstructs an order aggregate from persistence.
// The persisted status and timestamps are trusted; item and currency
// invariants are re-checked.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	o := &Order{
		paymentStatus:     p.PaymentStatus,
		placedAt:          p.PlacedAt,
		paidAt:            p.PaidAt,
		fulfilledAt:       p.FulfilledAt,
		deliveredAt:       p.DeliveredAt,
		cancelledAt:       p.CancelledAt,
		shippingAddressID: p.ShippingAddressID,
		billingAddressID:  p.BillingAddressID,
		metadata:          p.Metadata,
		isConstructed:     true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setNumber(p.Number),
		o.setParties(p.BuyerID, p.SellerID),
		o.setItems(p.Items),
		o.setCharges(p.ShippingCents, p.FeeCents),
		p.Status.Validate(),
		p.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	o.status = p.Status
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-shareable order number.
func (o *Order) Number() string {
	return o.number
}

// BuyerID returns the buyer's identifier.
func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

// SellerID returns the seller's identifier.
func (o *Order) SellerID() kernel.UUID {
	return o.sellerID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// PaymentStatus returns the mirrored payment status.
func (o *Order) PaymentStatus() payment.Status {
	return o.paymentStatus
}

// Items returns the line items of the order.
func (o *Order) Items() []*Item {
	return o.items
}

// TotalItemCents returns the sum of item subtotals.
func (o *Order) TotalItemCents() int64 {
	return o.totalItemCents
}

// ShippingCents returns the shipping charge.
func (o *Order) ShippingCents() int64 {
	return o.shippingCents
}

// FeeCents returns the marketplace fee.
func (o *Order) FeeCents() int64 {
	return o.feeCents
}

// Currency returns the order currency shared by all items.
func (o *Order) Currency() string {
	return o.currency
}

// GrandTotalCents returns totalItemCents + shippingCents + feeCents,
// the amount charged to the buyer and held in escrow.
func (o *Order) GrandTotalCents() int64 {
	return o.totalItemCents + o.shippingCents + o.feeCents
}

// GrandTotal returns the grand total as a Money value.
func (o *Order) GrandTotal() (kernel.Money, error) {
	return kernel.NewMoney(o.GrandTotalCents(), o.currency)
}

// PlacedAt returns when the order was placed.
func (o *Order) PlacedAt() time.Time {
	return o.placedAt
}

// PaidAt returns when the order entered Paid, or nil.
func (o *Order) PaidAt() *time.Time {
	return o.paidAt
}

// FulfilledAt returns when the order entered Fulfilled, or nil.
func (o *Order) FulfilledAt() *time.Time {
	return o.fulfilledAt
}

// DeliveredAt returns when the order entered Delivered, or nil.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// CancelledAt returns when the order entered Cancelled, or nil.
func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// ShippingAddressID returns the shipping address reference, or nil.
func (o *Order) ShippingAddressID() *kernel.UUID {
	return o.shippingAddressID
}

// BillingAddressID returns the billing address reference, or nil.
func (o *Order) BillingAddressID() *kernel.UUID {
	return o.billingAddressID
}

// Metadata returns the caller-supplied metadata, possibly nil.
func (o *Order) Metadata() map[string]string {
	return o.metadata
}

// AttachAddresses sets the optional shipping and billing address references.
// Only meaningful before the order is persisted.
func (o *Order) AttachAddresses(shippingAddressID, billingAddressID *kernel.UUID) error {
	if shippingAddressID != nil {
		if err := shippingAddressID.Validate(); err != nil {
			return err
		}
	}
	if billingAddressID != nil {
		if err := billingAddressID.Validate(); err != nil {
			return err
		}
	}

	o.shippingAddressID = shippingAddressID
	o.billingAddressID = billingAddressID
	return nil
}

// TransitionTo moves the order to target if the state machine allows it,
// stamping the status-specific timestamp (Paid, Fulfilled, Delivered and
// Cancelled each have one; Completed, Refunded and Disputed record history
// only through the timeline).
//
// Returns an error unwrapping to errs.ErrInvalidState when target is not
// reachable from the current status.
func (o *Order) TransitionTo(target Status) error {
	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	switch newStatus {
	case Paid:
		o.paidAt = &now
	case Fulfilled:
		o.fulfilledAt = &now
	case Delivered:
		o.deliveredAt = &now
	case Cancelled:
		o.cancelledAt = &now
	default:
	}

	o.status = newStatus
	return nil
}

// SetPaymentStatus mirrors the payment transaction's status onto the order.
func (o *Order) SetPaymentStatus(status payment.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.paymentStatus = status
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	o.number = number
	return nil
}

func (o *Order) setParties(buyerID, sellerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return fmt.Errorf("buyer: %w", err)
	}
	if err := sellerID.Validate(); err != nil {
		return fmt.Errorf("seller: %w", err)
	}
	o.buyerID = buyerID
	o.sellerID = sellerID
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("at least one line item is required")
	}

	var total int64
	currency := ""
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if currency == "" {
			currency = item.UnitPrice().Currency()
		} else if currency != item.UnitPrice().Currency() {
			return errs.NewValueIsInvalidErrorWithCause("currency",
				fmt.Errorf("items are priced in both %s and %s", currency, item.UnitPrice().Currency()))
		}
		total += item.SubtotalCents()
	}

	o.items = items
	o.totalItemCents = total
	o.currency = currency
	return nil
}

func (o *Order) setCharges(shippingCents, feeCents int64) error {
	if shippingCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("shippingCents",
			fmt.Errorf("%d is negative", shippingCents))
	}
	if feeCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("feeCents",
			fmt.Errorf("%d is negative", feeCents))
	}
	o.shippingCents = shippingCents
	o.feeCents = feeCents
	return nil
}

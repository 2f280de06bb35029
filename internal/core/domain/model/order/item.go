package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem or RestoreItem factory functions.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a line item of an order. It snapshots the listing title, variant
// and unit price at purchase time, so later changes to the listing never
// alter a placed order. Items are immutable after order creation.
type Item struct {
	// id is the unique identifier for the line item
	id kernel.UUID

	// listingID references the purchased listing
	listingID kernel.UUID

	// listingTitle is the listing title snapshotted at purchase time
	listingTitle string

	// variantID references the purchased variant, nil when none was chosen
	variantID *kernel.UUID

	// variantLabel is the variant label snapshot, empty when no variant
	variantLabel string

	// quantity is the number of units purchased (at least 1)
	quantity int

	// unitPrice is the per-unit price snapshotted at purchase time
	unitPrice kernel.Money

	isConstructed bool
}

// NewItem creates a validated line item.
//
// Validation rules:
//   - id and listingID must be valid UUIDs
//   - listingTitle must not be empty
//   - quantity must be at least 1
//   - unitPrice must be a constructed Money value
func NewItem(
	id kernel.UUID,
	listingID kernel.UUID,
	listingTitle string,
	variantID *kernel.UUID,
	variantLabel string,
	quantity int,
	unitPrice kernel.Money,
) (*Item, error) {
	item := &Item{isConstructed: true}

	if err := errors.Join(
		item.setID(id),
		item.setListing(listingID, listingTitle),
		item.setVariant(variantID, variantLabel),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// RestoreItem reconstructs a line item from persistence without re-running
// business validation beyond structural checks.
func RestoreItem(
	id kernel.UUID,
	listingID kernel.UUID,
	listingTitle string,
	variantID *kernel.UUID,
	variantLabel string,
	quantity int,
	unitPrice kernel.Money,
) (*Item, error) {
	return NewItem(id, listingID, listingTitle, variantID, variantLabel, quantity, unitPrice)
}

// Validate ensures the Item was created through a factory function.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the line item's unique identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// ListingID returns the purchased listing's identifier.
func (i *Item) ListingID() kernel.UUID {
	return i.listingID
}

// ListingTitle returns the listing title snapshotted at purchase time.
func (i *Item) ListingTitle() string {
	return i.listingTitle
}

// VariantID returns the purchased variant's identifier, or nil.
func (i *Item) VariantID() *kernel.UUID {
	return i.variantID
}

// VariantLabel returns the variant label snapshot, empty when no variant.
func (i *Item) VariantLabel() string {
	return i.variantLabel
}

// Quantity returns the number of units purchased.
func (i *Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the per-unit price snapshot.
func (i *Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// SubtotalCents returns unitPriceCents * quantity.
func (i *Item) SubtotalCents() int64 {
	return i.unitPrice.AmountCents() * int64(i.quantity)
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setListing(listingID kernel.UUID, title string) error {
	if err := listingID.Validate(); err != nil {
		return err
	}
	if title == "" {
		return errs.NewValueIsRequiredError("listingTitle")
	}
	i.listingID = listingID
	i.listingTitle = title
	return nil
}

func (i *Item) setVariant(variantID *kernel.UUID, label string) error {
	if variantID != nil {
		if err := variantID.Validate(); err != nil {
			return err
		}
	}
	i.variantID = variantID
	i.variantLabel = label
	return nil
}

// maxItemQuantity bounds a single line item; anything larger is a client bug.
const maxItemQuantity = 1_000_000

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 || quantity > maxItemQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, maxItemQuantity)
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.Validate(); err != nil {
		return fmt.Errorf("unit price: %w", err)
	}
	i.unitPrice = unitPrice
	return nil
}

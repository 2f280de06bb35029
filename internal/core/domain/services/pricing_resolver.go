package services

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ItemRequest is a buyer-supplied line item request. Prices are never taken
// from the client; only listing identity, an optional variant and a quantity.
// A nil Quantity means the buyer left it out and gets one unit; an explicit
// zero is a rejected request, not a default.
type ItemRequest struct {
	ListingID kernel.UUID
	VariantID *kernel.UUID
	Quantity  *int
}

// PricingResolver is a domain service responsible for turning buyer-supplied
// item requests into priced order line items using listing snapshots as the
// sole source of truth for prices.
//
// Key responsibilities:
//   - Resolving the authoritative unit price for each requested line item
//   - Rejecting listings that do not belong to the order's seller
//   - Enforcing a single currency across the whole order
//
// Business rules:
//   - Client-supplied prices are ignored; snapshots decide
//   - A variant price overrides the listing's base price
//   - An omitted quantity defaults to one unit; an explicit zero is rejected
//   - All line items must share one currency, and match the caller-requested
//     order currency when one was supplied
//
// Example usage:
//
//	resolver := NewPricingResolver()
//	items, currency, err := resolver.Resolve(sellerID, requests, snapshots, "")
//	if err != nil {
//	    // Reject the order request
//	    return
//	}
//	// items carry snapshot-resolved unit prices in a uniform currency
type PricingResolver struct{}

// NewPricingResolver creates a new PricingResolver instance.
func NewPricingResolver() PricingResolver {
	return PricingResolver{}
}

// Resolve prices the requested line items against the given listing snapshots.
//
// Parameters:
//   - sellerID: The seller the order is being placed against
//   - requests: Buyer-supplied line item requests (at least one)
//   - snapshots: Listing snapshots fetched for the requested listing ids
//   - requestedCurrency: Optional caller-supplied order currency; empty
//     means the listings decide
//
// Returns:
//   - []*order.Item: Priced line items ready for order construction
//   - string: The uniform currency shared by all line items
//   - error: errs.ErrObjectNotFound when a requested listing or variant is
//     absent from the snapshots, errs.ErrValueIsInvalid when a listing belongs
//     to a different seller or currencies diverge (including against the
//     requested order currency), errs.ErrValueIsOutOfRange when a quantity
//     is zero or negative
func (p PricingResolver) Resolve(sellerID kernel.UUID, requests []ItemRequest,
	snapshots []ports.ListingSnapshot, requestedCurrency string) ([]*order.Item, string, error) {
	if len(requests) == 0 {
		return nil, "", errs.NewValueIsRequiredError("items")
	}

	byID := make(map[kernel.UUID]ports.ListingSnapshot, len(snapshots))
	for _, s := range snapshots {
		byID[s.ID] = s
	}

	items := make([]*order.Item, 0, len(requests))
	currency := ""

	for _, request := range requests {
		listing, ok := byID[request.ListingID]
		if !ok {
			return nil, "", errs.NewObjectNotFoundError("listing", request.ListingID)
		}

		if !listing.SellerID.IsEqual(sellerID) {
			return nil, "", errs.NewValueIsInvalidError(
				fmt.Sprintf("listing %s does not belong to seller %s", listing.ID, sellerID))
		}

		item, err := p.resolveItem(request, listing)
		if err != nil {
			return nil, "", err
		}

		if currency == "" {
			currency = item.UnitPrice().Currency()
		} else if currency != item.UnitPrice().Currency() {
			return nil, "", errs.NewValueIsInvalidError(
				fmt.Sprintf("currency %s for listing %s, order currency is %s",
					item.UnitPrice().Currency(), listing.ID, currency))
		}

		items = append(items, item)
	}

	if requestedCurrency != "" && requestedCurrency != currency {
		return nil, "", errs.NewValueIsInvalidError(
			fmt.Sprintf("order requested in %s, listings are priced in %s",
				requestedCurrency, currency))
	}

	return items, currency, nil
}

// resolveItem builds one priced line item from a request and its snapshot.
// A variant reference shifts both the price and the label to the variant.
func (p PricingResolver) resolveItem(request ItemRequest, listing ports.ListingSnapshot) (*order.Item, error) {
	quantity := 1
	if request.Quantity != nil {
		quantity = *request.Quantity
	}

	priceCents := listing.PriceCents
	currency := listing.Currency
	var variantLabel string

	if request.VariantID != nil {
		variant, found := listing.Variant(*request.VariantID)
		if !found {
			return nil, errs.NewObjectNotFoundError("listing variant", *request.VariantID)
		}
		priceCents = variant.PriceCents
		if variant.Currency != "" {
			currency = variant.Currency
		}
		variantLabel = variant.Label
	}

	unitPrice, err := kernel.NewMoney(priceCents, currency)
	if err != nil {
		return nil, err
	}

	return order.NewItem(kernel.NewUUID(), listing.ID, listing.Title,
		request.VariantID, variantLabel, quantity, unitPrice)
}

package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// VariantSnapshot is the priced variant view exposed by the listing collaborator.
type VariantSnapshot struct {
	ID         kernel.UUID
	Label      string
	PriceCents int64
	Currency   string
}

// ListingSnapshot is the read-only listing view the pricing resolver consumes.
// Soft-deleted listings are never returned by the catalog.
type ListingSnapshot struct {
	ID         kernel.UUID
	SellerID   kernel.UUID
	Title      string
	PriceCents int64
	Currency   string
	Variants   []VariantSnapshot
}

// Variant looks up a variant snapshot by id.
func (l ListingSnapshot) Variant(id kernel.UUID) (VariantSnapshot, bool) {
	for _, v := range l.Variants {
		if v.ID.IsEqual(id) {
			return v, true
		}
	}
	return VariantSnapshot{}, false
}

// ListingCatalog is the narrow read interface onto the listing collaborator.
// It is consulted only to price line items; listing management lives outside
// this system.
type ListingCatalog interface {
	// GetByIDs returns snapshots for the requested listing ids.
	// Unknown or soft-deleted ids are simply absent from the result.
	GetByIDs(ctx context.Context, ids []kernel.UUID) ([]ListingSnapshot, error)
}

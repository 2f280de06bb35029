// Package listingcatalog provides the read-only GORM adapter onto the listing
// collaborator's tables. It serves pricing snapshots only; listing management
// lives outside this system and soft-deleted rows are excluded via GORM's
// DeletedAt handling.
package listingcatalog

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListingDTO represents the database structure of a sellable listing.
type ListingDTO struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SellerID   uuid.UUID      `gorm:"type:uuid;index"`
	Title      string
	PriceCents int64
	Currency   string
	DeletedAt  gorm.DeletedAt `gorm:"index"`
	Variants   []VariantDTO   `gorm:"foreignKey:ListingID"`
}

// TableName specifies the database table name for listings.
func (ListingDTO) TableName() string {
	return "listings"
}

// VariantDTO represents one purchasable variant of a listing.
type VariantDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID  uuid.UUID `gorm:"type:uuid;index"`
	Label      string
	PriceCents int64
	Currency   string
}

// TableName specifies the database table name for listing variants.
func (VariantDTO) TableName() string {
	return "listing_variants"
}

// toSnapshot converts a database DTO to the read-only snapshot consumed by
// the pricing resolver.
func toSnapshot(dto ListingDTO) (ports.ListingSnapshot, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.ListingSnapshot{}, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return ports.ListingSnapshot{}, err
	}

	variants := make([]ports.VariantSnapshot, 0, len(dto.Variants))
	for _, variantDTO := range dto.Variants {
		variantID, variantErr := kernel.UUIDFromBytes(variantDTO.ID[:])
		if variantErr != nil {
			return ports.ListingSnapshot{}, variantErr
		}
		variants = append(variants, ports.VariantSnapshot{
			ID:         variantID,
			Label:      variantDTO.Label,
			PriceCents: variantDTO.PriceCents,
			Currency:   variantDTO.Currency,
		})
	}

	return ports.ListingSnapshot{
		ID:         id,
		SellerID:   sellerID,
		Title:      dto.Title,
		PriceCents: dto.PriceCents,
		Currency:   dto.Currency,
		Variants:   variants,
	}, nil
}

package listingcatalog

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormListingCatalog implements ListingCatalog using GORM.
// Reads run outside any unit of work; the catalog never writes.
type GormListingCatalog struct {
	db *gorm.DB
}

// NewGormListingCatalog creates a new GORM listing catalog.
func NewGormListingCatalog(db *gorm.DB) *GormListingCatalog {
	return &GormListingCatalog{db: db}
}

// GetByIDs returns snapshots for the requested listing ids.
// Unknown or soft-deleted ids are simply absent from the result.
func (c *GormListingCatalog) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]ports.ListingSnapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rawIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		rawIDs = append(rawIDs, id.Bytes())
	}

	var dtos []ListingDTO
	if err := c.db.WithContext(ctx).Preload("Variants").Find(&dtos, "id IN ?", rawIDs).Error; err != nil {
		return nil, err
	}

	snapshots := make([]ports.ListingSnapshot, 0, len(dtos))
	for _, dto := range dtos {
		snapshot, err := toSnapshot(dto)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

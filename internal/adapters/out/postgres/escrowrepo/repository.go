package escrowrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormEscrowRepository implements EscrowRepository using GORM.
type GormEscrowRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormEscrowRepository creates a new GORM escrow repository.
func NewGormEscrowRepository(db *gorm.DB, tracker aggregateTracker) *GormEscrowRepository {
	return &GormEscrowRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new escrow holding to the database.
// A second holding for the same order violates the unique order id constraint
// and surfaces as an invalid state error, relying on GORM error translation
// (gorm.Config{TranslateError: true}).
func (r *GormEscrowRepository) Add(ctx context.Context, aggregate *escrow.Holding) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewInvalidStateErrorWithCause("escrow holding already exists for order", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing escrow holding to the database.
func (r *GormEscrowRepository) Update(ctx context.Context, aggregate *escrow.Holding) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&HoldingDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByOrderID retrieves the escrow holding for an order.
func (r *GormEscrowRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*escrow.Holding, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto HoldingDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("escrow holding", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// AppendTransaction appends one ledger entry for a holding movement.
func (r *GormEscrowRepository) AppendTransaction(ctx context.Context, transaction *escrow.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return err
	}

	dto := transactionFromDomain(transaction)
	return r.db.WithContext(ctx).Create(&dto).Error
}

package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"
)

// PaymentRepository defines the persistence contract for payment transactions.
// At most one transaction exists per order; the unique order id constraint is
// enforced by the storage layer even under concurrent webhook delivery.
type PaymentRepository interface {
	// Add persists a new payment transaction.
	Add(ctx context.Context, aggregate *payment.Transaction) error

	// Update persists changes to an existing payment transaction.
	Update(ctx context.Context, aggregate *payment.Transaction) error

	// GetByOrderID retrieves the payment transaction for an order.
	// Returns an error unwrapping to errs.ErrObjectNotFound when none exists.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payment.Transaction, error)
}

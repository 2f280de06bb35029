package ports

import (
	"context"

	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
)

// EscrowRepository defines the persistence contract for escrow holdings and
// their append-only transaction ledger.
type EscrowRepository interface {
	// Add persists a new holding. Returns an error unwrapping to
	// errs.ErrInvalidState when a holding already exists for the order
	// (one holding per order, enforced by a unique constraint).
	Add(ctx context.Context, aggregate *escrow.Holding) error

	// Update persists changes to an existing holding.
	Update(ctx context.Context, aggregate *escrow.Holding) error

	// GetByOrderID retrieves the holding for an order.
	// Returns an error unwrapping to errs.ErrObjectNotFound when none exists.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*escrow.Holding, error)

	// AppendTransaction appends one ledger entry for a holding movement.
	AppendTransaction(ctx context.Context, transaction *escrow.Transaction) error
}

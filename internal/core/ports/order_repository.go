package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates and
// their append-only timeline.
type OrderRepository interface {
	// Add persists a new order aggregate together with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// Line items are immutable and are not rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order while taking a row-level write lock, so
	// concurrent status transitions on the same order serialize and the loser
	// observes the winner's state. Only meaningful inside a transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// AppendTimelineEvent appends one timeline entry for an applied transition.
	AppendTimelineEvent(ctx context.Context, event *order.TimelineEvent) error
}

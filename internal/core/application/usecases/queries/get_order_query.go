// Package queries contains read operations for the CQRS architecture.
// Query handlers bypass the domain aggregates and read hydrated views
// directly from the database for optimal read performance.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves one order with its line items, timeline, payment
// state and escrow state.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	order, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // 404
//	}
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query to retrieve one order by id.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order to retrieve.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderItemResponse is one line item of a hydrated order view.
type OrderItemResponse struct {
	ID             kernel.UUID
	ListingID      kernel.UUID
	ListingTitle   string
	VariantLabel   string
	Quantity       int
	UnitPriceCents int64
	SubtotalCents  int64
}

// TimelineEventResponse is one status history entry of a hydrated order view.
type TimelineEventResponse struct {
	Status    string
	Note      string
	ActorID   *kernel.UUID
	CreatedAt time.Time
}

// PaymentTransactionResponse is one payment transaction of a hydrated order
// view.
type PaymentTransactionResponse struct {
	ID             kernel.UUID
	Provider       string
	Status         string
	ProviderStatus string
	AmountCents    int64
	Currency       string
	ProviderRef    string
	ProcessedAt    *time.Time
}

// EscrowTransactionResponse is one escrow ledger movement of a hydrated order
// view.
type EscrowTransactionResponse struct {
	ID          kernel.UUID
	Type        string
	AmountCents int64
	Currency    string
	Note        string
	ActorID     *kernel.UUID
	CreatedAt   time.Time
}

// EscrowResponse is the escrow holding of a hydrated order view together with
// its append-only ledger.
type EscrowResponse struct {
	ID           kernel.UUID
	Status       string
	AmountCents  int64
	Currency     string
	ReleaseAfter *time.Time
	ReleasedAt   *time.Time
	Transactions []EscrowTransactionResponse
}

// GetOrderQueryResponse is the hydrated read model of one order.
// Status fields use the API representation, e.g. "PAID" and "HOLDING".
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	Number        string
	BuyerID       kernel.UUID
	SellerID      kernel.UUID
	Status        string
	PaymentStatus string

	TotalItemCents  int64
	ShippingCents   int64
	FeeCents        int64
	GrandTotalCents int64
	Currency        string

	PlacedAt    time.Time
	PaidAt      *time.Time
	FulfilledAt *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time

	Items    []OrderItemResponse
	Timeline []TimelineEventResponse

	// Payments holds the order's payment transactions, empty before any
	// intent was recorded
	Payments []PaymentTransactionResponse

	// Escrow is nil when no holding was opened yet
	Escrow *EscrowResponse

	// EscrowStatus duplicates Escrow.Status at the top level, empty when
	// no holding was opened yet
	EscrowStatus string

	// ProviderRef is the provider-side payment reference, empty when the
	// payment transaction does not exist yet
	ProviderRef string
}

package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var (
	ErrGetAllOrdersQueryIsNotConstructed = errors.New(
		"GetAllOrdersQuery must be created via NewGetAllOrdersQuery constructor",
	)
)

// Pagination bounds for order listings.
const (
	defaultOrdersLimit = 20
	maxOrdersLimit     = 100
)

// GetAllOrdersQuery retrieves a page of order summaries, optionally filtered
// by buyer, seller and status. Results are newest first.
//
// Example:
//
//	query, err := NewGetAllOrdersQuery(&buyerID, nil, "PAID", 20, 0)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetAllOrdersQuery struct {
	buyerID  *kernel.UUID
	sellerID *kernel.UUID
	status   string
	limit    int
	offset   int

	guard guard.ConstructorGuard
}

// NewGetAllOrdersQuery creates a query to list orders.
// A zero limit falls back to the default page size; status may be empty or a
// valid API status name like "PAID".
func NewGetAllOrdersQuery(
	buyerID *kernel.UUID,
	sellerID *kernel.UUID,
	status string,
	limit int,
	offset int,
) (GetAllOrdersQuery, error) {
	listQuery := GetAllOrdersQuery{
		buyerID:  buyerID,
		sellerID: sellerID,
		status:   status,
		limit:    limit,
		offset:   offset,
		guard:    guard.NewConstructorGuard(),
	}

	if err := listQuery.validateInputs(); err != nil {
		return GetAllOrdersQuery{}, err
	}

	if listQuery.limit <= 0 {
		listQuery.limit = defaultOrdersLimit
	}
	if listQuery.limit > maxOrdersLimit {
		listQuery.limit = maxOrdersLimit
	}
	if listQuery.offset < 0 {
		listQuery.offset = 0
	}

	return listQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAllOrdersQueryIsNotConstructed if validation fails.
func (q GetAllOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllOrdersQueryIsNotConstructed)
}

// BuyerID returns the optional buyer filter.
func (q GetAllOrdersQuery) BuyerID() *kernel.UUID {
	return q.buyerID
}

// SellerID returns the optional seller filter.
func (q GetAllOrdersQuery) SellerID() *kernel.UUID {
	return q.sellerID
}

// Status returns the optional status filter, empty for all statuses.
func (q GetAllOrdersQuery) Status() string {
	return q.status
}

// Limit returns the page size.
func (q GetAllOrdersQuery) Limit() int {
	return q.limit
}

// Offset returns the page offset.
func (q GetAllOrdersQuery) Offset() int {
	return q.offset
}

func (q GetAllOrdersQuery) validateInputs() error {
	if q.buyerID != nil {
		if err := q.buyerID.Validate(); err != nil {
			return err
		}
	}
	if q.sellerID != nil {
		if err := q.sellerID.Validate(); err != nil {
			return err
		}
	}
	if q.status != "" {
		if _, err := order.StatusFromString(q.status); err != nil {
			return err
		}
	}
	return nil
}

// GetAllOrdersQueryResponse is one order summary row of a listing.
type GetAllOrdersQueryResponse struct {
	ID              kernel.UUID
	Number          string
	BuyerID         kernel.UUID
	SellerID        kernel.UUID
	Status          string
	PaymentStatus   string
	GrandTotalCents int64
	Currency        string
	PlacedAt        time.Time
}

package queries

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAllOrdersQueryHandler retrieves order summaries from the database.
// Uses direct SQL for optimal read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetAllOrdersQueryHandler(db)
//	query, _ := NewGetAllOrdersQuery(nil, &sellerID, "", 20, 0)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to list orders: %v", err)
//	    return err
//	}
//	fmt.Printf("Found %d orders\n", len(orders))
type GetAllOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAllOrdersQueryHandler creates a handler for order listing queries.
// Requires a GORM database connection for query execution.
func NewGetAllOrdersQueryHandler(db *gorm.DB) GetAllOrdersQueryHandler {
	return GetAllOrdersQueryHandler{db: db}
}

// Handle executes the query to list orders, newest first.
// Optional buyer, seller and status filters combine with AND.
func (h GetAllOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAllOrdersQuery,
) ([]GetAllOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			number,
			buyer_id,
			seller_id,
			status,
			payment_status,
			total_item_cents + shipping_cents + fee_cents,
			currency,
			placed_at
		FROM orders
		WHERE 1=1
	`
	args := make([]any, 0, 5)

	if buyerID := query.BuyerID(); buyerID != nil {
		sql += " AND buyer_id = ?"
		args = append(args, buyerID.Bytes())
	}
	if sellerID := query.SellerID(); sellerID != nil {
		sql += " AND seller_id = ?"
		args = append(args, sellerID.Bytes())
	}
	if status := query.Status(); status != "" {
		sql += " AND status = ?"
		args = append(args, status)
	}

	sql += " ORDER BY placed_at DESC LIMIT ? OFFSET ?"
	args = append(args, query.Limit(), query.Offset())

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetAllOrdersQueryResponse, 0)
	for rows.Next() {
		var summary GetAllOrdersQueryResponse
		var id, buyerID, sellerID uuid.UUID

		err = rows.Scan(
			&id,
			&summary.Number,
			&buyerID,
			&sellerID,
			&summary.Status,
			&summary.PaymentStatus,
			&summary.GrandTotalCents,
			&summary.Currency,
			&summary.PlacedAt,
		)
		if err != nil {
			return nil, err
		}

		if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if summary.BuyerID, err = kernel.UUIDFromBytes(buyerID[:]); err != nil {
			return nil, err
		}
		if summary.SellerID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
			return nil, err
		}
		orders = append(orders, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

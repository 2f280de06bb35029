package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves one hydrated order view from the database.
// Reads the order row, its line items, its timeline and the related payment
// and escrow rows with direct SQL, bypassing the aggregates.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery(orderID)
//
//	order, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s is %s\n", order.Number, order.Status)
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query to retrieve one order.
// Returns an error unwrapping to errs.ErrObjectNotFound when no order exists
// under the given id.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response, err := h.readOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.Items, err = h.readItems(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.Timeline, err = h.readTimeline(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.Payments, err = h.readPayments(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.Escrow, err = h.readEscrow(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return response, nil
}

func (h GetOrderQueryHandler) readOrder(ctx context.Context, orderID kernel.UUID) (GetOrderQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.number,
			o.buyer_id,
			o.seller_id,
			o.status,
			o.payment_status,
			o.total_item_cents,
			o.shipping_cents,
			o.fee_cents,
			o.currency,
			o.placed_at,
			o.paid_at,
			o.fulfilled_at,
			o.delivered_at,
			o.cancelled_at,
			e.status,
			p.provider_ref
		FROM orders o
		LEFT JOIN escrow_holdings e ON e.order_id = o.id
		LEFT JOIN payment_transactions p ON p.order_id = o.id
		WHERE o.id = ?
	`, orderID.Bytes()).Row()

	var response GetOrderQueryResponse
	var id, buyerID, sellerID uuid.UUID
	var escrowStatus, providerRef sql.NullString
	var paidAt, fulfilledAt, deliveredAt, cancelledAt sql.NullTime

	err := row.Scan(
		&id,
		&response.Number,
		&buyerID,
		&sellerID,
		&response.Status,
		&response.PaymentStatus,
		&response.TotalItemCents,
		&response.ShippingCents,
		&response.FeeCents,
		&response.Currency,
		&response.PlacedAt,
		&paidAt,
		&fulfilledAt,
		&deliveredAt,
		&cancelledAt,
		&escrowStatus,
		&providerRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundErrorWithCause("order", orderID, err)
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.BuyerID, err = kernel.UUIDFromBytes(buyerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.SellerID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.GrandTotalCents = response.TotalItemCents + response.ShippingCents + response.FeeCents
	response.PaidAt = nullableTime(paidAt)
	response.FulfilledAt = nullableTime(fulfilledAt)
	response.DeliveredAt = nullableTime(deliveredAt)
	response.CancelledAt = nullableTime(cancelledAt)
	if escrowStatus.Valid {
		response.EscrowStatus = escrowStatus.String
	}
	if providerRef.Valid {
		response.ProviderRef = providerRef.String
	}

	return response, nil
}

func (h GetOrderQueryHandler) readItems(ctx context.Context, orderID kernel.UUID) ([]OrderItemResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			listing_id,
			listing_title,
			variant_label,
			quantity,
			unit_price_cents
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemResponse, 0)
	for rows.Next() {
		var item OrderItemResponse
		var id, listingID uuid.UUID
		var variantLabel sql.NullString

		err = rows.Scan(
			&id,
			&listingID,
			&item.ListingTitle,
			&variantLabel,
			&item.Quantity,
			&item.UnitPriceCents,
		)
		if err != nil {
			return nil, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.ListingID, err = kernel.UUIDFromBytes(listingID[:]); err != nil {
			return nil, err
		}
		if variantLabel.Valid {
			item.VariantLabel = variantLabel.String
		}
		item.SubtotalCents = item.UnitPriceCents * int64(item.Quantity)
		items = append(items, item)
	}

	return items, rows.Err()
}

func (h GetOrderQueryHandler) readTimeline(ctx context.Context, orderID kernel.UUID) ([]TimelineEventResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			note,
			actor_id,
			created_at
		FROM order_timeline_events
		WHERE order_id = ?
		ORDER BY created_at, id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timeline := make([]TimelineEventResponse, 0)
	for rows.Next() {
		var event TimelineEventResponse
		var actorID uuid.NullUUID
		var note sql.NullString

		if err = rows.Scan(&event.Status, &note, &actorID, &event.CreatedAt); err != nil {
			return nil, err
		}

		if note.Valid {
			event.Note = note.String
		}
		if actorID.Valid {
			actor, actorErr := kernel.UUIDFromBytes(actorID.UUID[:])
			if actorErr != nil {
				return nil, actorErr
			}
			event.ActorID = &actor
		}
		timeline = append(timeline, event)
	}

	return timeline, rows.Err()
}

func (h GetOrderQueryHandler) readPayments(
	ctx context.Context, orderID kernel.UUID,
) ([]PaymentTransactionResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			provider,
			status,
			provider_status,
			amount_cents,
			currency,
			provider_ref,
			processed_at
		FROM payment_transactions
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]PaymentTransactionResponse, 0)
	for rows.Next() {
		var paymentTx PaymentTransactionResponse
		var id uuid.UUID
		var processedAt sql.NullTime

		err = rows.Scan(
			&id,
			&paymentTx.Provider,
			&paymentTx.Status,
			&paymentTx.ProviderStatus,
			&paymentTx.AmountCents,
			&paymentTx.Currency,
			&paymentTx.ProviderRef,
			&processedAt,
		)
		if err != nil {
			return nil, err
		}

		if paymentTx.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		paymentTx.ProcessedAt = nullableTime(processedAt)
		payments = append(payments, paymentTx)
	}

	return payments, rows.Err()
}

// readEscrow reads the order's escrow holding with its ledger.
// Returns nil without error when no holding was opened yet.
func (h GetOrderQueryHandler) readEscrow(ctx context.Context, orderID kernel.UUID) (*EscrowResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			amount_cents,
			currency,
			release_after,
			released_at
		FROM escrow_holdings
		WHERE order_id = ?
	`, orderID.Bytes()).Row()

	var holding EscrowResponse
	var id uuid.UUID
	var releaseAfter, releasedAt sql.NullTime

	err := row.Scan(
		&id,
		&holding.Status,
		&holding.AmountCents,
		&holding.Currency,
		&releaseAfter,
		&releasedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if holding.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return nil, err
	}
	holding.ReleaseAfter = nullableTime(releaseAfter)
	holding.ReleasedAt = nullableTime(releasedAt)

	if holding.Transactions, err = h.readEscrowTransactions(ctx, holding.ID); err != nil {
		return nil, err
	}

	return &holding, nil
}

func (h GetOrderQueryHandler) readEscrowTransactions(
	ctx context.Context, escrowID kernel.UUID,
) ([]EscrowTransactionResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			type,
			amount_cents,
			currency,
			note,
			actor_id,
			created_at
		FROM escrow_transactions
		WHERE escrow_id = ?
		ORDER BY created_at, id
	`, escrowID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]EscrowTransactionResponse, 0)
	for rows.Next() {
		var transaction EscrowTransactionResponse
		var id uuid.UUID
		var actorID uuid.NullUUID
		var note sql.NullString

		err = rows.Scan(
			&id,
			&transaction.Type,
			&transaction.AmountCents,
			&transaction.Currency,
			&note,
			&actorID,
			&transaction.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if transaction.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if note.Valid {
			transaction.Note = note.String
		}
		if actorID.Valid {
			actor, actorErr := kernel.UUIDFromBytes(actorID.UUID[:])
			if actorErr != nil {
				return nil, actorErr
			}
			transaction.ActorID = &actor
		}
		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}

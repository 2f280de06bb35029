package http

import (
	"time"

	"marketplace/internal/core/application/usecases/queries"
)

// Error is the uniform error body returned by every endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderItemRequest is one requested line item; the price always comes from
// the listing snapshot, never from the client. An omitted quantity means one
// unit; an explicit zero is rejected.
type OrderItemRequest struct {
	ListingID string  `json:"listingId"`
	VariantID *string `json:"variantId,omitempty"`
	Quantity  *int    `json:"quantity,omitempty"`
}

// CreateOrderRequest is the POST /orders body. Currency optionally pins the
// order currency; placement fails when it disagrees with the listings.
type CreateOrderRequest struct {
	BuyerID           string             `json:"buyerId"`
	SellerID          string             `json:"sellerId"`
	Items             []OrderItemRequest `json:"items"`
	Currency          string             `json:"currency,omitempty"`
	ShippingCents     int64              `json:"shippingCents"`
	FeeCents          int64              `json:"feeCents"`
	ShippingAddressID *string            `json:"shippingAddressId,omitempty"`
	BillingAddressID  *string            `json:"billingAddressId,omitempty"`
	Metadata          map[string]string  `json:"metadata,omitempty"`
}

// CreateOrderResponse is the hydrated placed order plus the client secret of
// the payment intent the buyer's client confirms.
type CreateOrderResponse struct {
	Order
	ClientSecret string `json:"clientSecret,omitempty"`
}

// ListOrdersParams are the GET /orders query parameters.
type ListOrdersParams struct {
	BuyerID  *string `query:"buyerId"`
	SellerID *string `query:"sellerId"`
	Status   string  `query:"status"`
	Limit    int     `query:"limit"`
	Offset   int     `query:"offset"`
}

// ChangeOrderStatusRequest is the PATCH /orders/:orderId/status body.
// ProviderStatus carries the provider's raw status string when the caller
// relays provider context alongside the transition.
type ChangeOrderStatusRequest struct {
	Status         string  `json:"status"`
	Note           string  `json:"note,omitempty"`
	ActorID        *string `json:"actorId,omitempty"`
	ProviderStatus string  `json:"providerStatus,omitempty"`
}

// WebhookAck is the acknowledgement body returned to the payment provider.
type WebhookAck struct {
	Received bool `json:"received"`
}

// OrderSummary is one row of the order list view.
type OrderSummary struct {
	ID              string    `json:"id"`
	Number          string    `json:"number"`
	BuyerID         string    `json:"buyerId"`
	SellerID        string    `json:"sellerId"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"paymentStatus"`
	GrandTotalCents int64     `json:"grandTotalCents"`
	Currency        string    `json:"currency"`
	PlacedAt        time.Time `json:"placedAt"`
}

// OrderItem is one line item of the hydrated order view.
type OrderItem struct {
	ID             string `json:"id"`
	ListingID      string `json:"listingId"`
	ListingTitle   string `json:"listingTitle"`
	VariantLabel   string `json:"variantLabel,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	SubtotalCents  int64  `json:"subtotalCents"`
}

// TimelineEvent is one status history entry of the hydrated order view.
type TimelineEvent struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	ActorID   *string   `json:"actorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaymentTransaction is one payment transaction of the hydrated order view.
type PaymentTransaction struct {
	ID             string     `json:"id"`
	Provider       string     `json:"provider"`
	Status         string     `json:"status"`
	ProviderStatus string     `json:"providerStatus,omitempty"`
	AmountCents    int64      `json:"amountCents"`
	Currency       string     `json:"currency"`
	ProviderRef    string     `json:"providerRef,omitempty"`
	ProcessedAt    *time.Time `json:"processedAt,omitempty"`
}

// EscrowTransaction is one escrow ledger movement of the hydrated order view.
type EscrowTransaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Note        string    `json:"note,omitempty"`
	ActorID     *string   `json:"actorId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Escrow is the escrow holding of the hydrated order view with its ledger.
type Escrow struct {
	ID           string              `json:"id"`
	Status       string              `json:"status"`
	AmountCents  int64               `json:"amountCents"`
	Currency     string              `json:"currency"`
	ReleaseAfter *time.Time          `json:"releaseAfter,omitempty"`
	ReleasedAt   *time.Time          `json:"releasedAt,omitempty"`
	Transactions []EscrowTransaction `json:"transactions"`
}

// Order is the hydrated single order view.
type Order struct {
	ID            string `json:"id"`
	Number        string `json:"number"`
	BuyerID       string `json:"buyerId"`
	SellerID      string `json:"sellerId"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`

	TotalItemCents  int64  `json:"totalItemCents"`
	ShippingCents   int64  `json:"shippingCents"`
	FeeCents        int64  `json:"feeCents"`
	GrandTotalCents int64  `json:"grandTotalCents"`
	Currency        string `json:"currency"`

	PlacedAt    time.Time  `json:"placedAt"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	FulfilledAt *time.Time `json:"fulfilledAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	Items    []OrderItem          `json:"items"`
	Timeline []TimelineEvent      `json:"timeline"`
	Payments []PaymentTransaction `json:"payments"`
	Escrow   *Escrow              `json:"escrow,omitempty"`

	EscrowStatus string `json:"escrowStatus,omitempty"`
	ProviderRef  string `json:"providerRef,omitempty"`
}

func toOrderResponse(view queries.GetOrderQueryResponse) Order {
	items := make([]OrderItem, len(view.Items))
	for i, item := range view.Items {
		items[i] = OrderItem{
			ID:             item.ID.String(),
			ListingID:      item.ListingID.String(),
			ListingTitle:   item.ListingTitle,
			VariantLabel:   item.VariantLabel,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.SubtotalCents,
		}
	}

	timeline := make([]TimelineEvent, len(view.Timeline))
	for i, event := range view.Timeline {
		var actorID *string
		if event.ActorID != nil {
			raw := event.ActorID.String()
			actorID = &raw
		}
		timeline[i] = TimelineEvent{
			Status:    event.Status,
			Note:      event.Note,
			ActorID:   actorID,
			CreatedAt: event.CreatedAt,
		}
	}

	payments := make([]PaymentTransaction, len(view.Payments))
	for i, paymentTx := range view.Payments {
		payments[i] = PaymentTransaction{
			ID:             paymentTx.ID.String(),
			Provider:       paymentTx.Provider,
			Status:         paymentTx.Status,
			ProviderStatus: paymentTx.ProviderStatus,
			AmountCents:    paymentTx.AmountCents,
			Currency:       paymentTx.Currency,
			ProviderRef:    paymentTx.ProviderRef,
			ProcessedAt:    paymentTx.ProcessedAt,
		}
	}

	var holding *Escrow
	if view.Escrow != nil {
		transactions := make([]EscrowTransaction, len(view.Escrow.Transactions))
		for i, transaction := range view.Escrow.Transactions {
			var actorID *string
			if transaction.ActorID != nil {
				raw := transaction.ActorID.String()
				actorID = &raw
			}
			transactions[i] = EscrowTransaction{
				ID:          transaction.ID.String(),
				Type:        transaction.Type,
				AmountCents: transaction.AmountCents,
				Currency:    transaction.Currency,
				Note:        transaction.Note,
				ActorID:     actorID,
				CreatedAt:   transaction.CreatedAt,
			}
		}
		holding = &Escrow{
			ID:           view.Escrow.ID.String(),
			Status:       view.Escrow.Status,
			AmountCents:  view.Escrow.AmountCents,
			Currency:     view.Escrow.Currency,
			ReleaseAfter: view.Escrow.ReleaseAfter,
			ReleasedAt:   view.Escrow.ReleasedAt,
			Transactions: transactions,
		}
	}

	return Order{
		ID:              view.ID.String(),
		Number:          view.Number,
		BuyerID:         view.BuyerID.String(),
		SellerID:        view.SellerID.String(),
		Status:          view.Status,
		PaymentStatus:   view.PaymentStatus,
		TotalItemCents:  view.TotalItemCents,
		ShippingCents:   view.ShippingCents,
		FeeCents:        view.FeeCents,
		GrandTotalCents: view.GrandTotalCents,
		Currency:        view.Currency,
		PlacedAt:        view.PlacedAt,
		PaidAt:          view.PaidAt,
		FulfilledAt:     view.FulfilledAt,
		DeliveredAt:     view.DeliveredAt,
		CancelledAt:     view.CancelledAt,
		Items:           items,
		Timeline:        timeline,
		Payments:        payments,
		Escrow:          holding,
		EscrowStatus:    view.EscrowStatus,
		ProviderRef:     view.ProviderRef,
	}
}

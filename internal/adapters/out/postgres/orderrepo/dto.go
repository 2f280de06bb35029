// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Statuses are stored as their API strings (e.g. "PAID") so rows stay readable
// in ad-hoc queries and the enum can grow without renumbering.
type OrderDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number            string     `gorm:"uniqueIndex"`
	BuyerID           uuid.UUID  `gorm:"type:uuid;index"`
	SellerID          uuid.UUID  `gorm:"type:uuid;index"`
	Status            string     `gorm:"index"`
	PaymentStatus     string
	TotalItemCents    int64
	ShippingCents     int64
	FeeCents          int64
	Currency          string
	PlacedAt          time.Time
	PaidAt            *time.Time
	FulfilledAt       *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	ShippingAddressID *uuid.UUID `gorm:"type:uuid"`
	BillingAddressID  *uuid.UUID `gorm:"type:uuid"`
	Metadata          string     `gorm:"type:text"`
	Items             []ItemDTO  `gorm:"foreignKey:OrderID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one immutable order line item row. Items are written once
// with the order and never updated.
type ItemDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"type:uuid;index"`
	ListingID      uuid.UUID  `gorm:"type:uuid"`
	ListingTitle   string
	VariantID      *uuid.UUID `gorm:"type:uuid"`
	VariantLabel   string
	Quantity       int
	UnitPriceCents int64
	Currency       string
}

// TableName specifies the database table name for order line items.
func (ItemDTO) TableName() string {
	return "order_items"
}

// TimelineEventDTO represents one append-only order history row.
type TimelineEventDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID  `gorm:"type:uuid;index"`
	Status    string
	Note      string
	ActorID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}

// TableName specifies the database table name for order timeline events.
func (TimelineEventDTO) TableName() string {
	return "order_timeline_events"
}

func rawOptionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUIDFromRaw(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// fromDomain converts an order domain aggregate to its database representation.
// Metadata is stored as a JSON document; an empty map collapses to an empty string.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	metadata := ""
	if len(aggregate.Metadata()) > 0 {
		encoded, err := json.Marshal(aggregate.Metadata())
		if err != nil {
			return OrderDTO{}, err
		}
		metadata = string(encoded)
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			ID:             item.ID().Bytes(),
			OrderID:        aggregate.ID().Bytes(),
			ListingID:      item.ListingID().Bytes(),
			ListingTitle:   item.ListingTitle(),
			VariantID:      rawOptionalUUID(item.VariantID()),
			VariantLabel:   item.VariantLabel(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().AmountCents(),
			Currency:       item.UnitPrice().Currency(),
		})
	}

	return OrderDTO{
		ID:                aggregate.ID().Bytes(),
		Number:            aggregate.Number(),
		BuyerID:           aggregate.BuyerID().Bytes(),
		SellerID:          aggregate.SellerID().Bytes(),
		Status:            aggregate.Status().String(),
		PaymentStatus:     aggregate.PaymentStatus().String(),
		TotalItemCents:    aggregate.TotalItemCents(),
		ShippingCents:     aggregate.ShippingCents(),
		FeeCents:          aggregate.FeeCents(),
		Currency:          aggregate.Currency(),
		PlacedAt:          aggregate.PlacedAt(),
		PaidAt:            aggregate.PaidAt(),
		FulfilledAt:       aggregate.FulfilledAt(),
		DeliveredAt:       aggregate.DeliveredAt(),
		CancelledAt:       aggregate.CancelledAt(),
		ShippingAddressID: rawOptionalUUID(aggregate.ShippingAddressID()),
		BillingAddressID:  rawOptionalUUID(aggregate.BillingAddressID()),
		Metadata:          metadata,
		Items:             items,
	}, nil
}

// timelineFromDomain converts a timeline event to its database representation.
func timelineFromDomain(event *order.TimelineEvent) TimelineEventDTO {
	return TimelineEventDTO{
		ID:        event.ID().Bytes(),
		OrderID:   event.OrderID().Bytes(),
		Status:    event.Status().String(),
		Note:      event.Note(),
		ActorID:   rawOptionalUUID(event.ActorID()),
		CreatedAt: event.CreatedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including line items using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := payment.StatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	shippingAddressID, err := optionalUUIDFromRaw(dto.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	billingAddressID, err := optionalUUIDFromRaw(dto.BillingAddressID)
	if err != nil {
		return nil, err
	}

	var metadata map[string]string
	if dto.Metadata != "" {
		if err = json.Unmarshal([]byte(dto.Metadata), &metadata); err != nil {
			return nil, err
		}
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:                id,
		Number:            dto.Number,
		BuyerID:           buyerID,
		SellerID:          sellerID,
		Status:            status,
		PaymentStatus:     paymentStatus,
		Items:             items,
		ShippingCents:     dto.ShippingCents,
		FeeCents:          dto.FeeCents,
		PlacedAt:          dto.PlacedAt,
		PaidAt:            dto.PaidAt,
		FulfilledAt:       dto.FulfilledAt,
		DeliveredAt:       dto.DeliveredAt,
		CancelledAt:       dto.CancelledAt,
		ShippingAddressID: shippingAddressID,
		BillingAddressID:  billingAddressID,
		Metadata:          metadata,
	})
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	listingID, err := kernel.UUIDFromBytes(dto.ListingID[:])
	if err != nil {
		return nil, err
	}
	variantID, err := optionalUUIDFromRaw(dto.VariantID)
	if err != nil {
		return nil, err
	}
	unitPrice, err := kernel.NewMoney(dto.UnitPriceCents, dto.Currency)
	if err != nil {
		return nil, err
	}

	return order.RestoreItem(id, listingID, dto.ListingTitle, variantID, dto.VariantLabel, dto.Quantity, unitPrice)
}

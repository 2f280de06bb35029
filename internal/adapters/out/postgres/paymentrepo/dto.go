// Package paymentrepo provides data transfer objects and mapping functions for
// payment transaction persistence. The unique order id index enforces the
// one-transaction-per-order rule at the storage layer.
package paymentrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// TransactionDTO represents the database structure for persisting payment transactions.
type TransactionDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Provider       string
	Status         string
	ProviderStatus string
	AmountCents    int64
	Currency       string
	ProviderRef    string
	ProcessedAt    *time.Time
}

// TableName specifies the database table name for payment transactions.
func (TransactionDTO) TableName() string {
	return "payment_transactions"
}

// fromDomain converts a payment transaction to its database representation.
func fromDomain(aggregate *payment.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:             aggregate.ID().Bytes(),
		OrderID:        aggregate.OrderID().Bytes(),
		Provider:       aggregate.Provider(),
		Status:         aggregate.Status().String(),
		ProviderStatus: aggregate.ProviderStatus(),
		AmountCents:    aggregate.Amount().AmountCents(),
		Currency:       aggregate.Amount().Currency(),
		ProviderRef:    aggregate.ProviderRef(),
		ProcessedAt:    aggregate.ProcessedAt(),
	}
}

// toDomain converts a database DTO to a payment transaction aggregate.
func toDomain(dto TransactionDTO) (*payment.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := payment.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.AmountCents, dto.Currency)
	if err != nil {
		return nil, err
	}

	return payment.RestoreTransaction(id, orderID, dto.Provider, status,
		dto.ProviderStatus, amount, dto.ProviderRef, dto.ProcessedAt)
}

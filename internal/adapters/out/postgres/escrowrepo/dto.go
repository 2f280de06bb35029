// Package escrowrepo provides data transfer objects and mapping functions for
// escrow persistence: one holding row per order plus an append-only ledger of
// its movements.
package escrowrepo

import (
	"time"

	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// HoldingDTO represents the database structure for persisting escrow holdings.
// The unique order id index enforces the one-holding-per-order rule even under
// concurrent webhook delivery.
type HoldingDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Status       string
	AmountCents  int64
	Currency     string
	ReleaseAfter *time.Time
	ReleasedAt   *time.Time
}

// TableName specifies the database table name for escrow holdings.
func (HoldingDTO) TableName() string {
	return "escrow_holdings"
}

// TransactionDTO represents one append-only escrow ledger row.
// Ledger rows are written once and never updated or deleted.
type TransactionDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EscrowID    uuid.UUID  `gorm:"type:uuid;index"`
	Type        string
	AmountCents int64
	Currency    string
	Note        string
	ActorID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}

// TableName specifies the database table name for escrow ledger entries.
func (TransactionDTO) TableName() string {
	return "escrow_transactions"
}

// fromDomain converts an escrow holding to its database representation.
func fromDomain(aggregate *escrow.Holding) HoldingDTO {
	return HoldingDTO{
		ID:           aggregate.ID().Bytes(),
		OrderID:      aggregate.OrderID().Bytes(),
		Status:       aggregate.Status().String(),
		AmountCents:  aggregate.Amount().AmountCents(),
		Currency:     aggregate.Amount().Currency(),
		ReleaseAfter: aggregate.ReleaseAfter(),
		ReleasedAt:   aggregate.ReleasedAt(),
	}
}

// transactionFromDomain converts a ledger entry to its database representation.
func transactionFromDomain(transaction *escrow.Transaction) TransactionDTO {
	var actorID *uuid.UUID
	if id := transaction.ActorID(); id != nil {
		raw := id.Bytes()
		actorID = &raw
	}

	return TransactionDTO{
		ID:          transaction.ID().Bytes(),
		EscrowID:    transaction.EscrowID().Bytes(),
		Type:        transaction.Type().String(),
		AmountCents: transaction.Amount().AmountCents(),
		Currency:    transaction.Amount().Currency(),
		Note:        transaction.Note(),
		ActorID:     actorID,
		CreatedAt:   transaction.CreatedAt(),
	}
}

// toDomain converts a database DTO to an escrow holding aggregate.
func toDomain(dto HoldingDTO) (*escrow.Holding, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := escrow.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.AmountCents, dto.Currency)
	if err != nil {
		return nil, err
	}

	return escrow.RestoreHolding(id, orderID, status, amount, dto.ReleaseAfter, dto.ReleasedAt)
}

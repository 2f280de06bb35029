package escrow

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrEscrowTransactionIsNotConstructed is returned when a Transaction was not
// created through a factory function.
var ErrEscrowTransactionIsNotConstructed = errors.New("escrow Transaction must be created via NewTransaction constructor")

// TransactionType classifies a ledger entry.
type TransactionType int

const (
	// TypeUnknown represents an invalid or undefined type.
	TypeUnknown TransactionType = iota

	// TypeHold records funds entering the holding.
	TypeHold

	// TypeRelease records funds paid out to the seller.
	TypeRelease

	// TypeRefund records funds returned to the buyer.
	TypeRefund
)

func getTypeStrings() map[TransactionType]string {
	return map[TransactionType]string{
		TypeUnknown: "UNKNOWN",
		TypeHold:    "HOLD",
		TypeRelease: "RELEASE",
		TypeRefund:  "REFUND",
	}
}

// TypeFromString parses the API representation of a type (e.g. "RELEASE").
// Returns an error for unknown values.
func TypeFromString(s string) (TransactionType, error) {
	for txType, str := range getTypeStrings() {
		if str == s && txType != TypeUnknown {
			return txType, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("escrow transaction type",
		fmt.Errorf("%q is not a valid escrow transaction type", s))
}

// Validate checks if the type is a defined, non-Unknown value.
func (t TransactionType) Validate() error {
	if t != TypeHold && t != TypeRelease && t != TypeRefund {
		return errs.NewValueIsInvalidErrorWithCause("escrow transaction type",
			fmt.Errorf("%d is not a valid escrow transaction type", t))
	}
	return nil
}

// String returns the API name of the type, e.g. "RELEASE".
func (t TransactionType) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "UNKNOWN"
}

// Transaction is one append-only ledger entry recording a movement of an
// escrow holding's state. Entries are never updated or deleted; the holding's
// current status must always be consistent with its most recent entry.
type Transaction struct {
	id       kernel.UUID
	escrowID kernel.UUID
	txType   TransactionType
	amount   kernel.Money
	note     string

	// actorID is the acting user, nil for system-driven movements
	actorID *kernel.UUID

	createdAt time.Time

	isConstructed bool
}

// NewTransaction creates a ledger entry for a holding movement.
func NewTransaction(
	escrowID kernel.UUID,
	txType TransactionType,
	amount kernel.Money,
	note string,
	actorID *kernel.UUID,
) (*Transaction, error) {
	if err := errors.Join(escrowID.Validate(), txType.Validate(), amount.Validate()); err != nil {
		return nil, err
	}
	if actorID != nil {
		if err := actorID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Transaction{
		id:            kernel.NewUUID(),
		escrowID:      escrowID,
		txType:        txType,
		amount:        amount,
		note:          note,
		actorID:       actorID,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreTransaction reconstructs a ledger entry from persistence.
func RestoreTransaction(
	id kernel.UUID,
	escrowID kernel.UUID,
	txType TransactionType,
	amount kernel.Money,
	note string,
	actorID *kernel.UUID,
	createdAt time.Time,
) (*Transaction, error) {
	if err := errors.Join(id.Validate(), escrowID.Validate(), txType.Validate(), amount.Validate()); err != nil {
		return nil, err
	}

	return &Transaction{
		id:            id,
		escrowID:      escrowID,
		txType:        txType,
		amount:        amount,
		note:          note,
		actorID:       actorID,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the transaction was created through a factory function.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrEscrowTransactionIsNotConstructed
	}
	return nil
}

// ID returns the ledger entry's unique identifier.
func (t *Transaction) ID() kernel.UUID {
	return t.id
}

// EscrowID returns the holding the entry belongs to.
func (t *Transaction) EscrowID() kernel.UUID {
	return t.escrowID
}

// Type returns the movement type.
func (t *Transaction) Type() TransactionType {
	return t.txType
}

// Amount returns the moved amount.
func (t *Transaction) Amount() kernel.Money {
	return t.amount
}

// Note returns the human-readable note.
func (t *Transaction) Note() string {
	return t.note
}

// ActorID returns the acting user, or nil for system movements.
func (t *Transaction) ActorID() *kernel.UUID {
	return t.actorID
}

// CreatedAt returns when the movement was recorded.
func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

// Package payment contains the payment transaction aggregate.
//
// Exactly one Transaction exists per order ("ensure exists, else create, else
// update"); the row is created lazily on the first capture-relevant event and
// then updated in place. MarkCaptured and MarkRefunded are idempotent so
// duplicate provider deliveries cannot double-apply a payment state.
package payment

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrTransactionIsNotConstructed is returned when a Transaction was not
// created through a factory function.
var ErrTransactionIsNotConstructed = errors.New("Transaction must be created via NewTransaction constructor")

// Transaction records the payment state of one order against the external
// provider: internal status, the provider's free-text status string, the
// charged amount, and the provider reference of the payment intent.
type Transaction struct {
	id kernel.UUID

	// orderID links the transaction to its order; unique per order
	orderID kernel.UUID

	// provider names the external payment provider, e.g. "STRIPE"
	provider string

	status Status

	// providerStatus is the provider's raw status string, informational only
	providerStatus string

	amount kernel.Money

	// providerRef is the provider-side intent/charge reference
	providerRef string

	processedAt *time.Time

	isConstructed bool
}

// NewTransaction creates a pending payment transaction for an order.
// providerStatus and providerRef come from the minted payment intent and may
// be empty when the intent was synthesized locally.
func NewTransaction(
	id kernel.UUID,
	orderID kernel.UUID,
	provider string,
	amount kernel.Money,
	providerStatus string,
	providerRef string,
) (*Transaction, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), amount.Validate()); err != nil {
		return nil, err
	}
	if provider == "" {
		return nil, errs.NewValueIsRequiredError("provider")
	}

	return &Transaction{
		id:             id,
		orderID:        orderID,
		provider:       provider,
		status:         Pending,
		providerStatus: providerStatus,
		amount:         amount,
		providerRef:    providerRef,
		isConstructed:  true,
	}, nil
}

// RestoreTransaction reconstructs a payment transaction from persistence.
func RestoreTransaction(
	id kernel.UUID,
	orderID kernel.UUID,
	provider string,
	status Status,
	providerStatus string,
	amount kernel.Money,
	providerRef string,
	processedAt *time.Time,
) (*Transaction, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate(), amount.Validate()); err != nil {
		return nil, err
	}

	return &Transaction{
		id:             id,
		orderID:        orderID,
		provider:       provider,
		status:         status,
		providerStatus: providerStatus,
		amount:         amount,
		providerRef:    providerRef,
		processedAt:    processedAt,
		isConstructed:  true,
	}, nil
}

// Validate ensures the transaction was created through a factory function.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// ID returns the transaction's unique identifier.
func (t *Transaction) ID() kernel.UUID {
	return t.id
}

// OrderID returns the order the transaction belongs to.
func (t *Transaction) OrderID() kernel.UUID {
	return t.orderID
}

// Provider returns the external provider name.
func (t *Transaction) Provider() string {
	return t.provider
}

// Status returns the internal payment status.
func (t *Transaction) Status() Status {
	return t.status
}

// ProviderStatus returns the provider's raw status string.
func (t *Transaction) ProviderStatus() string {
	return t.providerStatus
}

// Amount returns the charged amount.
func (t *Transaction) Amount() kernel.Money {
	return t.amount
}

// ProviderRef returns the provider-side payment intent reference.
func (t *Transaction) ProviderRef() string {
	return t.providerRef
}

// ProcessedAt returns when the payment reached a settled state, or nil.
func (t *Transaction) ProcessedAt() *time.Time {
	return t.processedAt
}

// MarkCaptured moves the transaction to Captured.
// A no-op when already captured, so duplicate webhook deliveries are safe.
// An empty providerStatus defaults to "succeeded".
func (t *Transaction) MarkCaptured(providerStatus string) {
	if t.status == Captured {
		return
	}
	if providerStatus == "" {
		providerStatus = "succeeded"
	}

	now := time.Now().UTC()
	t.status = Captured
	t.providerStatus = providerStatus
	t.processedAt = &now
}

// MarkRefunded moves the transaction to Refunded.
// A no-op when already refunded. An empty providerStatus defaults to "canceled".
func (t *Transaction) MarkRefunded(providerStatus string) {
	if t.status == Refunded {
		return
	}
	if providerStatus == "" {
		providerStatus = "canceled"
	}

	now := time.Now().UTC()
	t.status = Refunded
	t.providerStatus = providerStatus
	t.processedAt = &now
}

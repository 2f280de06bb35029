package escrow

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrHoldingIsNotConstructed is returned when a Holding instance was not
// created through the OpenHolding or RestoreHolding factory functions.
var ErrHoldingIsNotConstructed = errors.New("Holding must be created via OpenHolding constructor")

// Holding reserves the funds of one order until fulfillment is confirmed.
// There is exactly one holding per order. Status moves only through the
// Release, Refund and Freeze methods, each of which the caller must pair with
// exactly one ledger Transaction in the same unit of work.
type Holding struct {
	id kernel.UUID

	// orderID links the holding to its order; unique per order
	orderID kernel.UUID

	status Status

	// amount is the full buyer charge: items + shipping + fees
	amount kernel.Money

	// releaseAfter optionally schedules an automatic release time
	releaseAfter *time.Time

	// releasedAt is set when funds leave the holding (release or refund)
	releasedAt *time.Time

	isConstructed bool
}

// OpenHolding creates a holding in Held state for the full order amount.
func OpenHolding(id kernel.UUID, orderID kernel.UUID, amount kernel.Money) (*Holding, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), amount.Validate()); err != nil {
		return nil, err
	}

	return &Holding{
		id:            id,
		orderID:       orderID,
		status:        Held,
		amount:        amount,
		isConstructed: true,
	}, nil
}

// RestoreHolding reconstructs a holding from persistence.
func RestoreHolding(
	id kernel.UUID,
	orderID kernel.UUID,
	status Status,
	amount kernel.Money,
	releaseAfter *time.Time,
	releasedAt *time.Time,
) (*Holding, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate(), amount.Validate()); err != nil {
		return nil, err
	}

	return &Holding{
		id:            id,
		orderID:       orderID,
		status:        status,
		amount:        amount,
		releaseAfter:  releaseAfter,
		releasedAt:    releasedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the holding was created through a factory function.
func (h *Holding) Validate() error {
	if h == nil || !h.isConstructed {
		return ErrHoldingIsNotConstructed
	}
	return nil
}

// ID returns the holding's unique identifier.
func (h *Holding) ID() kernel.UUID {
	return h.id
}

// OrderID returns the order the holding belongs to.
func (h *Holding) OrderID() kernel.UUID {
	return h.orderID
}

// Status returns the current holding status.
func (h *Holding) Status() Status {
	return h.status
}

// Amount returns the held amount.
func (h *Holding) Amount() kernel.Money {
	return h.amount
}

// ReleaseAfter returns the scheduled automatic release time, or nil.
func (h *Holding) ReleaseAfter() *time.Time {
	return h.releaseAfter
}

// ReleasedAt returns when funds left the holding, or nil.
func (h *Holding) ReleasedAt() *time.Time {
	return h.releasedAt
}

// ScheduleRelease sets the automatic release time.
func (h *Holding) ScheduleRelease(at time.Time) {
	h.releaseAfter = &at
}

// Release moves held funds to the seller.
// Fails unless the holding is in Held state; frozen or already settled
// funds never release implicitly.
func (h *Holding) Release() error {
	if h.status != Held {
		return errs.NewInvalidStateErrorWithCause("escrow release",
			fmt.Errorf("holding is %s, expected %s", h.status, Held))
	}

	now := time.Now().UTC()
	h.status = Released
	h.releasedAt = &now
	return nil
}

// Refund returns held funds to the buyer.
// Allowed from Held and from Disputed (dispute resolved in the buyer's favor).
func (h *Holding) Refund() error {
	if h.status != Held && h.status != Disputed {
		return errs.NewInvalidStateErrorWithCause("escrow refund",
			fmt.Errorf("holding is %s, expected %s or %s", h.status, Held, Disputed))
	}

	now := time.Now().UTC()
	h.status = Refunded
	h.releasedAt = &now
	return nil
}

// Unfreeze returns a disputed holding to Held state, for disputes resolved
// in the seller's favor. The caller is expected to follow up with Release.
func (h *Holding) Unfreeze() error {
	if h.status != Disputed {
		return errs.NewInvalidStateErrorWithCause("escrow unfreeze",
			fmt.Errorf("holding is %s, expected %s", h.status, Disputed))
	}

	h.status = Held
	return nil
}

// Freeze marks the holding as disputed; no funds move until resolution.
// Fails unless the holding is in Held state.
func (h *Holding) Freeze() error {
	if h.status != Held {
		return errs.NewInvalidStateErrorWithCause("escrow freeze",
			fmt.Errorf("holding is %s, expected %s", h.status, Held))
	}

	h.status = Disputed
	return nil
}

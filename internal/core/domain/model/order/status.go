package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure orders
// follow the correct settlement workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Paid ──> Fulfilled ──> Delivered ──> Completed
//	                           │           │             │
//	                           └───────────┴─────────────┴──> Disputed ──> Completed | Refunded
//
// Cancelled and Refunded are reachable from every non-terminal state.
// Completed, Cancelled and Refunded are terminal. Orders cannot move past
// Paid without funds being captured first, and Completed is only reachable
// once payment has been captured (Paid or later).
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status assigned when an order is placed.
	Pending

	// Confirmed indicates the seller acknowledged the order.
	Confirmed

	// Paid indicates the payment was captured; entering it opens the escrow hold.
	Paid

	// Fulfilled indicates the seller handed the goods to the carrier.
	Fulfilled

	// Delivered indicates the buyer received the goods.
	Delivered

	// Completed indicates the escrow was released to the seller. Terminal.
	Completed

	// Cancelled indicates the order was abandoned before completion. Terminal.
	Cancelled

	// Refunded indicates funds were returned to the buyer. Terminal.
	Refunded

	// Disputed freezes the escrow until a human resolves the dispute.
	Disputed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Confirmed: "CONFIRMED",
		Paid:      "PAID",
		Fulfilled: "FULFILLED",
		Delivered: "DELIVERED",
		Completed: "COMPLETED",
		Cancelled: "CANCELLED",
		Refunded:  "REFUNDED",
		Disputed:  "DISPUTED",
	}
}

// getTransitions returns the allowed target statuses per source status.
// Cancelled and Refunded appear on every non-terminal source; Completed only
// appears once payment has been captured.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Confirmed, Paid, Cancelled, Refunded},
		Confirmed: {Paid, Cancelled, Refunded},
		Paid:      {Fulfilled, Delivered, Completed, Disputed, Cancelled, Refunded},
		Fulfilled: {Delivered, Completed, Disputed, Cancelled, Refunded},
		Delivered: {Completed, Disputed, Cancelled, Refunded},
		Disputed:  {Completed, Cancelled, Refunded},
		Completed: {},
		Cancelled: {},
		Refunded:  {},
	}
}

// StatusFromString parses the API representation of a status (e.g. "PAID").
// Returns an error for unknown values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is a defined, non-Unknown status.
func (s Status) Validate() error {
	if _, ok := getTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the API name of the status, e.g. "PAID".
// Implements fmt.Stringer and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Refunded
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo validates and performs the transition to target.
//
// Returns:
//   - (target, nil) on a valid transition
//   - (0, error) when target is not reachable from s; the error unwraps to
//     errs.ErrInvalidState so callers can map it to a conflict
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if !s.CanTransitionTo(target) {
		return 0, errs.NewInvalidStateErrorWithCause("order status transition",
			fmt.Errorf("cannot transition from %s to %s", s, target))
	}

	return target, nil
}

package payment

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents the internal payment state of an order, decoupled from
// whatever vocabulary the external provider uses. Provider status strings are
// translated at the gateway adapter and never drive logic here.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending means an intent exists but funds were not captured yet.
	Pending

	// Captured means the provider confirmed the charge; escrow may hold funds.
	Captured

	// Refunded means captured funds were returned to the buyer.
	Refunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "UNKNOWN",
		Pending:  "PENDING",
		Captured: "CAPTURED",
		Refunded: "REFUNDED",
	}
}

// StatusFromString parses the API representation of a status (e.g. "CAPTURED").
// Returns an error for unknown values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("payment status",
		fmt.Errorf("%q is not a valid payment status", s))
}

// Validate checks if the Status value is a defined, non-Unknown status.
func (s Status) Validate() error {
	if s != Pending && s != Captured && s != Refunded {
		return errs.NewValueIsInvalidErrorWithCause("payment status",
			fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// String returns the API name of the status, e.g. "CAPTURED".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

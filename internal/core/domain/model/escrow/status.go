package escrow

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents the state of an escrow holding.
//
// State transitions:
//
//	Held ──> Released
//	   │
//	   ├──> Disputed ──> Refunded
//	   │        │
//	   │        └──> Held (unfreeze)
//	   │
//	   └──> Refunded
//
// Released and Refunded are final. A Disputed holding can be refunded
// directly; releasing it takes an explicit Unfreeze back to Held first, so
// frozen money never moves to the seller by accident.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Held means funds are reserved against the order.
	Held

	// Released means funds were paid out to the seller. Final.
	Released

	// Refunded means funds were returned to the buyer. Final.
	Refunded

	// Disputed means funds are frozen pending human resolution.
	Disputed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "UNKNOWN",
		Held:     "HOLDING",
		Released: "RELEASED",
		Refunded: "REFUNDED",
		Disputed: "DISPUTED",
	}
}

// StatusFromString parses the API representation of a status (e.g. "HOLDING").
// Returns an error for unknown values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("escrow status",
		fmt.Errorf("%q is not a valid escrow status", s))
}

// Validate checks if the Status value is a defined, non-Unknown status.
func (s Status) Validate() error {
	if s != Held && s != Released && s != Refunded && s != Disputed {
		return errs.NewValueIsInvalidErrorWithCause("escrow status",
			fmt.Errorf("%d is not a valid escrow status", s))
	}
	return nil
}

// String returns the API name of the status, e.g. "HOLDING".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

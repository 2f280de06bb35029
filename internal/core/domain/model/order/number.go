package order

import (
	"strings"

	"github.com/google/uuid"
)

// NewOrderNumber generates a short, human-shareable order number of the form
// "ORD-1A2B3C4D". The suffix is the first group of a random version 4 UUID,
// which keeps collisions negligible while staying readable over the phone.
func NewOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}

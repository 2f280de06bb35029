package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// PaymentIntent is the provider-side handle of an in-progress charge attempt.
type PaymentIntent struct {
	// ID is the provider reference, e.g. "pi_…"
	ID string

	// Status is the provider's raw status string for the intent
	Status string

	// ClientSecret lets the buyer's client confirm the intent, may be empty
	ClientSecret string

	AmountCents int64
	Currency    string

	// Synthesized marks a locally minted degraded-mode intent created because
	// the provider was unreachable; it carries no provider-side state.
	Synthesized bool
}

// ProviderEventKind is the adapter-local translation of provider event types.
// Raw provider strings never cross this boundary into the state machine.
type ProviderEventKind int

const (
	// EventKindUnknown covers event types this system does not react to.
	EventKindUnknown ProviderEventKind = iota

	// EventKindPaymentSucceeded maps to the order entering Paid.
	EventKindPaymentSucceeded

	// EventKindPaymentCanceled maps to the order entering Cancelled.
	EventKindPaymentCanceled

	// EventKindPaymentFailed maps to the order entering Refunded.
	EventKindPaymentFailed
)

// ProviderEvent is a verified, provider-neutral inbound webhook event.
type ProviderEvent struct {
	// ID is the provider-assigned event id used for deduplication
	ID string

	// Name is the provider's event type string, kept for the durable record
	Name string

	Kind ProviderEventKind

	// OrderID is the order referenced by the event's metadata, nil when the
	// event does not concern an order this system knows how to resolve
	OrderID *kernel.UUID

	// ProviderStatus is the raw intent status carried by the event
	ProviderStatus string

	// Payload is the raw envelope as delivered, for the durable record
	Payload string
}

// PaymentGateway wraps the single external payment provider.
type PaymentGateway interface {
	// MintIntent creates a payment intent for the order amount. The call has
	// a bounded timeout; when the provider is unreachable it returns a
	// synthesized pending intent (Synthesized=true) instead of an error, so
	// order creation never blocks on provider availability.
	MintIntent(ctx context.Context, orderID kernel.UUID, amountCents int64, currency string) (PaymentIntent, error)

	// VerifyAndParse authenticates an inbound webhook payload against the
	// configured signing secret and translates it into a ProviderEvent.
	// Returns an error unwrapping to errs.ErrValueIsInvalid on a bad
	// signature. With no secret configured the payload is trusted as-is;
	// that relaxation is for development environments only.
	VerifyAndParse(rawBody []byte, signatureHeader string) (ProviderEvent, error)

	// ParseEvent translates a payload into a ProviderEvent without signature
	// verification, for replaying durably recorded events that were already
	// verified on first receipt.
	ParseEvent(rawBody []byte) (ProviderEvent, error)
}

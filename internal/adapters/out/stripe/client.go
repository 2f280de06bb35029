// Package stripe wraps the Stripe REST API behind the PaymentGateway port.
//
// The adapter owns every provider-specific detail: the form-encoded intent
// creation call, the webhook signature scheme and the translation of Stripe
// event types into provider-neutral kinds. Raw Stripe vocabulary never
// crosses this boundary into the state machine.
//
// Without an API key, or when Stripe is unreachable, MintIntent degrades to a
// locally synthesized intent so order creation never blocks on provider
// availability.
package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	defaultBaseURL = "https://api.stripe.com"
	defaultTimeout = 5 * time.Second

	// signatureTolerance bounds how stale a signed webhook timestamp may be.
	signatureTolerance = 5 * time.Minute
)

// Client implements the PaymentGateway port against the Stripe REST API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	webhookSecret string
	now           func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the Stripe API base URL, for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithClock overrides the time source used for signature tolerance checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a Stripe gateway client.
// An empty apiKey puts the client in degraded mode where every intent is
// synthesized locally. An empty webhookSecret disables signature checks;
// that relaxation is for development environments only.
func NewClient(apiKey, webhookSecret string, opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: defaultTimeout},
		baseURL:       defaultBaseURL,
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// intentResponse is the subset of Stripe's payment intent object this system reads.
type intentResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// MintIntent creates a Stripe payment intent carrying the order id in its
// metadata, so webhook events can be routed back to the order. Transport
// failures and timeouts degrade to a synthesized local intent instead of
// failing the checkout; a reachable Stripe rejecting the request is a real
// error and is surfaced.
func (c *Client) MintIntent(
	ctx context.Context,
	orderID kernel.UUID,
	amountCents int64,
	currency string,
) (ports.PaymentIntent, error) {
	if err := orderID.Validate(); err != nil {
		return ports.PaymentIntent{}, err
	}
	if c.apiKey == "" {
		return synthesizeIntent(amountCents, currency), nil
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("metadata[orderId]", orderID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return ports.PaymentIntent{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return synthesizeIntent(amountCents, currency), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return synthesizeIntent(amountCents, currency), nil
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return synthesizeIntent(amountCents, currency), nil
	}
	if resp.StatusCode != http.StatusOK {
		return ports.PaymentIntent{}, errs.NewProviderUnavailableErrorWithCause("stripe",
			fmt.Errorf("payment_intents returned %d: %s", resp.StatusCode, body))
	}

	var intent intentResponse
	if err = json.Unmarshal(body, &intent); err != nil {
		return ports.PaymentIntent{}, errs.NewProviderUnavailableErrorWithCause("stripe", err)
	}

	return ports.PaymentIntent{
		ID:           intent.ID,
		Status:       intent.Status,
		ClientSecret: intent.ClientSecret,
		AmountCents:  amountCents,
		Currency:     currency,
	}, nil
}

// synthesizeIntent mints a local pending intent for degraded mode.
// The pi_local_ prefix makes these rows easy to find during reconciliation.
func synthesizeIntent(amountCents int64, currency string) ports.PaymentIntent {
	return ports.PaymentIntent{
		ID:           "pi_local_" + uuid.NewString(),
		Status:       "requires_payment_method",
		ClientSecret: "cs_local_" + uuid.NewString(),
		AmountCents:  amountCents,
		Currency:     currency,
		Synthesized:  true,
	}
}

// VerifyAndParse authenticates an inbound webhook payload against the signing
// secret using Stripe's v1 scheme: the header carries "t=<unix>,v1=<hex hmac>"
// where the HMAC-SHA256 is computed over "<t>.<payload>". With no secret
// configured the payload is trusted as-is.
func (c *Client) VerifyAndParse(rawBody []byte, signatureHeader string) (ports.ProviderEvent, error) {
	if c.webhookSecret != "" {
		if err := c.verifySignature(rawBody, signatureHeader); err != nil {
			return ports.ProviderEvent{}, err
		}
	}
	return c.ParseEvent(rawBody)
}

func (c *Client) verifySignature(rawBody []byte, signatureHeader string) error {
	var timestamp string
	var signatures []string
	for _, part := range strings.Split(signatureHeader, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return errs.NewValueIsInvalidError("webhook signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("webhook signature timestamp", err)
	}
	age := c.now().UTC().Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return errs.NewValueIsInvalidErrorWithCause("webhook signature timestamp",
			fmt.Errorf("timestamp outside tolerance of %s", signatureTolerance))
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(expected), []byte(signature)) {
			return nil
		}
	}

	return errs.NewValueIsInvalidError("webhook signature")
}

// eventEnvelope is the subset of Stripe's event object this system reads.
type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string `json:"id"`
			Status   string `json:"status"`
			Metadata struct {
				OrderID string `json:"orderId"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// ParseEvent translates a Stripe event payload into a provider-neutral event
// without signature verification, for replaying durably recorded events.
func (c *Client) ParseEvent(rawBody []byte) (ports.ProviderEvent, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return ports.ProviderEvent{}, errs.NewValueIsInvalidErrorWithCause("webhook payload", err)
	}
	if envelope.ID == "" {
		return ports.ProviderEvent{}, errs.NewValueIsRequiredError("webhook event id")
	}

	providerStatus := envelope.Data.Object.Status
	if providerStatus == "" {
		providerStatus = envelope.Type
	}

	var orderID *kernel.UUID
	if raw := envelope.Data.Object.Metadata.OrderID; raw != "" {
		if id, err := kernel.UUIDFromString(raw); err == nil {
			orderID = &id
		}
	}

	return ports.ProviderEvent{
		ID:             envelope.ID,
		Name:           envelope.Type,
		Kind:           kindForEventType(envelope.Type),
		OrderID:        orderID,
		ProviderStatus: providerStatus,
		Payload:        string(rawBody),
	}, nil
}

// kindForEventType maps Stripe event types onto the kinds this system reacts to.
// Everything else is recorded and acknowledged without side effects.
func kindForEventType(eventType string) ports.ProviderEventKind {
	switch eventType {
	case "payment_intent.succeeded", "charge.succeeded":
		return ports.EventKindPaymentSucceeded
	case "payment_intent.canceled":
		return ports.EventKindPaymentCanceled
	case "payment_intent.payment_failed", "charge.refunded":
		return ports.EventKindPaymentFailed
	default:
		return ports.EventKindUnknown
	}
}

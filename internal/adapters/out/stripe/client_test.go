package stripe_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"marketplace/internal/adapters/out/stripe"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_MintIntent_Success(t *testing.T) {
	orderID := kernel.NewUUID()

	var gotPath, gotAuth string
	var gotForm map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "pi_123",
			"status": "requires_payment_method",
			"client_secret": "pi_123_secret_456",
			"amount": 25750,
			"currency": "usd"
		}`)
	}))
	defer server.Close()

	client := stripe.NewClient("sk_test_abc", "", stripe.WithBaseURL(server.URL))

	intent, err := client.MintIntent(context.Background(), orderID, 25750, "USD")
	require.NoError(t, err)

	assert.Equal(t, "/v1/payment_intents", gotPath)
	assert.Equal(t, "Bearer sk_test_abc", gotAuth)
	assert.Equal(t, []string{"25750"}, gotForm["amount"])
	assert.Equal(t, []string{"usd"}, gotForm["currency"])
	assert.Equal(t, []string{orderID.String()}, gotForm["metadata[orderId]"])

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "requires_payment_method", intent.Status)
	assert.Equal(t, "pi_123_secret_456", intent.ClientSecret)
	assert.Equal(t, int64(25750), intent.AmountCents)
	assert.Equal(t, "USD", intent.Currency)
	assert.False(t, intent.Synthesized)
}

func TestClient_MintIntent_WithoutAPIKeySynthesizes(t *testing.T) {
	client := stripe.NewClient("", "")

	intent, err := client.MintIntent(context.Background(), kernel.NewUUID(), 1000, "EUR")
	require.NoError(t, err)

	assert.True(t, intent.Synthesized)
	assert.Contains(t, intent.ID, "pi_local_")
	assert.Contains(t, intent.ClientSecret, "cs_local_")
	assert.Equal(t, "requires_payment_method", intent.Status)
	assert.Equal(t, int64(1000), intent.AmountCents)
	assert.Equal(t, "EUR", intent.Currency)
}

func TestClient_MintIntent_UnreachableProviderSynthesizes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := stripe.NewClient("sk_test_abc", "", stripe.WithBaseURL(server.URL))

	intent, err := client.MintIntent(context.Background(), kernel.NewUUID(), 1000, "USD")
	require.NoError(t, err)
	assert.True(t, intent.Synthesized)
	assert.Contains(t, intent.ID, "pi_local_")
}

func TestClient_MintIntent_ServerErrorSynthesizes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := stripe.NewClient("sk_test_abc", "", stripe.WithBaseURL(server.URL))

	intent, err := client.MintIntent(context.Background(), kernel.NewUUID(), 1000, "USD")
	require.NoError(t, err)
	assert.True(t, intent.Synthesized)
}

func TestClient_MintIntent_RejectedRequestFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error": {"message": "Your card was declined."}}`)
	}))
	defer server.Close()

	client := stripe.NewClient("sk_test_abc", "", stripe.WithBaseURL(server.URL))

	_, err := client.MintIntent(context.Background(), kernel.NewUUID(), 1000, "USD")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrProviderUnavailable)
}

func TestClient_MintIntent_InvalidOrderID(t *testing.T) {
	client := stripe.NewClient("", "")

	_, err := client.MintIntent(context.Background(), kernel.UUID{}, 1000, "USD")
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func signPayload(secret string, timestamp time.Time, payload []byte) string {
	ts := strconv.FormatInt(timestamp.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(eventID, eventType, orderID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": %q,
		"data": {"object": {"id": "pi_123", "status": "succeeded", "metadata": {"orderId": %q}}}
	}`, eventID, eventType, orderID))
}

func TestClient_VerifyAndParse_ValidSignature(t *testing.T) {
	now := time.Now()
	orderID := kernel.NewUUID()
	payload := eventPayload("evt_1", "payment_intent.succeeded", orderID.String())
	client := stripe.NewClient("", "whsec_test", stripe.WithClock(func() time.Time { return now }))

	event, err := client.VerifyAndParse(payload, signPayload("whsec_test", now, payload))
	require.NoError(t, err)

	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "payment_intent.succeeded", event.Name)
	assert.Equal(t, ports.EventKindPaymentSucceeded, event.Kind)
	require.NotNil(t, event.OrderID)
	assert.True(t, event.OrderID.IsEqual(orderID))
	assert.Equal(t, "succeeded", event.ProviderStatus)
	assert.Equal(t, string(payload), event.Payload)
}

func TestClient_VerifyAndParse_BadSignature(t *testing.T) {
	now := time.Now()
	payload := eventPayload("evt_1", "payment_intent.succeeded", kernel.NewUUID().String())
	client := stripe.NewClient("", "whsec_test", stripe.WithClock(func() time.Time { return now }))

	_, err := client.VerifyAndParse(payload, signPayload("whsec_other", now, payload))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestClient_VerifyAndParse_StaleTimestamp(t *testing.T) {
	now := time.Now()
	payload := eventPayload("evt_1", "payment_intent.succeeded", kernel.NewUUID().String())
	client := stripe.NewClient("", "whsec_test", stripe.WithClock(func() time.Time { return now }))

	_, err := client.VerifyAndParse(payload, signPayload("whsec_test", now.Add(-10*time.Minute), payload))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestClient_VerifyAndParse_MalformedHeader(t *testing.T) {
	payload := eventPayload("evt_1", "payment_intent.succeeded", kernel.NewUUID().String())
	client := stripe.NewClient("", "whsec_test")

	_, err := client.VerifyAndParse(payload, "garbage")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestClient_VerifyAndParse_NoSecretTrustsPayload(t *testing.T) {
	payload := eventPayload("evt_1", "payment_intent.succeeded", kernel.NewUUID().String())
	client := stripe.NewClient("", "")

	event, err := client.VerifyAndParse(payload, "")
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
}

func TestClient_ParseEvent_KindTranslation(t *testing.T) {
	client := stripe.NewClient("", "")

	tests := []struct {
		eventType string
		want      ports.ProviderEventKind
	}{
		{"payment_intent.succeeded", ports.EventKindPaymentSucceeded},
		{"charge.succeeded", ports.EventKindPaymentSucceeded},
		{"payment_intent.canceled", ports.EventKindPaymentCanceled},
		{"payment_intent.payment_failed", ports.EventKindPaymentFailed},
		{"charge.refunded", ports.EventKindPaymentFailed},
		{"customer.created", ports.EventKindUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.eventType, func(t *testing.T) {
			event, err := client.ParseEvent(eventPayload("evt_1", tc.eventType, kernel.NewUUID().String()))
			require.NoError(t, err)
			assert.Equal(t, tc.want, event.Kind)
		})
	}
}

func TestClient_ParseEvent_MissingEventID(t *testing.T) {
	client := stripe.NewClient("", "")

	_, err := client.ParseEvent([]byte(`{"type": "payment_intent.succeeded"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestClient_ParseEvent_MalformedPayload(t *testing.T) {
	client := stripe.NewClient("", "")

	_, err := client.ParseEvent([]byte("not json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestClient_ParseEvent_UnresolvableOrderReference(t *testing.T) {
	client := stripe.NewClient("", "")

	event, err := client.ParseEvent(eventPayload("evt_1", "payment_intent.succeeded", "not-a-uuid"))
	require.NoError(t, err)
	assert.Nil(t, event.OrderID)
}

func TestClient_ParseEvent_FallsBackToEventTypeForStatus(t *testing.T) {
	client := stripe.NewClient("", "")

	event, err := client.ParseEvent([]byte(`{
		"id": "evt_2",
		"type": "payment_intent.canceled",
		"data": {"object": {"id": "pi_1", "metadata": {}}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "payment_intent.canceled", event.ProviderStatus)
}

package webhook_test

import (
	"errors"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/webhook"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	t.Run("should record pending event", func(t *testing.T) {
		event, err := webhook.NewEvent("evt_1", "payment_intent.succeeded", `{"id":"evt_1"}`)

		require.NoError(t, err)
		require.NoError(t, event.Validate())
		assert.Equal(t, "evt_1", event.ID())
		assert.Equal(t, "payment_intent.succeeded", event.EventName())
		assert.Equal(t, webhook.StatusPending, event.Status())
		assert.Equal(t, `{"id":"evt_1"}`, event.Payload())
		assert.False(t, event.IsProcessed())
		assert.False(t, event.ReceivedAt().IsZero())
	})

	t.Run("should fail with empty id", func(t *testing.T) {
		_, err := webhook.NewEvent("", "payment_intent.succeeded", "{}")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with empty event name", func(t *testing.T) {
		_, err := webhook.NewEvent("evt_1", "", "{}")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestEvent_ProcessingLifecycle(t *testing.T) {
	t.Run("mark processed clears prior failure", func(t *testing.T) {
		event, err := webhook.NewEvent("evt_1", "payment_intent.succeeded", "{}")
		require.NoError(t, err)

		event.MarkFailed(errors.New("order not found"))
		assert.Equal(t, webhook.StatusFailed, event.Status())
		assert.Equal(t, "order not found", event.LastError())

		event.MarkProcessed()
		assert.True(t, event.IsProcessed())
		assert.Empty(t, event.LastError())
	})

	t.Run("mark failed with nil error keeps message empty", func(t *testing.T) {
		event, err := webhook.NewEvent("evt_1", "payment_intent.succeeded", "{}")
		require.NoError(t, err)

		event.MarkFailed(nil)

		assert.Equal(t, webhook.StatusFailed, event.Status())
		assert.Empty(t, event.LastError())
	})
}

func TestRestoreEvent(t *testing.T) {
	receivedAt := time.Now().UTC().Add(-time.Minute)

	t.Run("should trust persisted state", func(t *testing.T) {
		event, err := webhook.RestoreEvent("evt_1", "charge.refunded",
			webhook.StatusFailed, "{}", "order not found", receivedAt)

		require.NoError(t, err)
		assert.Equal(t, webhook.StatusFailed, event.Status())
		assert.Equal(t, "order not found", event.LastError())
		assert.Equal(t, receivedAt, event.ReceivedAt())
	})

	t.Run("should fail with invalid status", func(t *testing.T) {
		_, err := webhook.RestoreEvent("evt_1", "charge.refunded",
			webhook.StatusUnknown, "{}", "", receivedAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatusFromString(t *testing.T) {
	for _, want := range []webhook.EventStatus{
		webhook.StatusPending, webhook.StatusProcessed, webhook.StatusFailed,
	} {
		got, err := webhook.StatusFromString(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := webhook.StatusFromString("RETRYING")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

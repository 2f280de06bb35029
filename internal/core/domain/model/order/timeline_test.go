package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimelineEvent(t *testing.T) {
	t.Run("should create event with explicit note and actor", func(t *testing.T) {
		actorID := kernel.NewUUID()

		event, err := order.NewTimelineEvent(kernel.NewUUID(), order.Fulfilled,
			"Shipped via carrier X", &actorID)

		require.NoError(t, err)
		require.NoError(t, event.Validate())
		assert.Equal(t, order.Fulfilled, event.Status())
		assert.Equal(t, "Shipped via carrier X", event.Note())
		require.NotNil(t, event.ActorID())
		assert.True(t, event.ActorID().IsEqual(actorID))
		assert.False(t, event.CreatedAt().IsZero())
	})

	t.Run("should fall back to the default note", func(t *testing.T) {
		tests := []struct {
			status order.Status
			note   string
		}{
			{order.Pending, "Order created"},
			{order.Completed, "Escrow released to seller"},
			{order.Cancelled, "Escrow refunded to buyer"},
			{order.Refunded, "Escrow refunded to buyer"},
			{order.Paid, ""},
		}

		for _, tt := range tests {
			event, err := order.NewTimelineEvent(kernel.NewUUID(), tt.status, "", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.note, event.Note(), "status %s", tt.status)
		}
	})

	t.Run("should allow nil actor for system transitions", func(t *testing.T) {
		event, err := order.NewTimelineEvent(kernel.NewUUID(), order.Paid, "", nil)

		require.NoError(t, err)
		assert.Nil(t, event.ActorID())
	})

	t.Run("should fail with invalid status", func(t *testing.T) {
		_, err := order.NewTimelineEvent(kernel.NewUUID(), order.Unknown, "", nil)

		require.Error(t, err)
	})

	t.Run("should fail with invalid actor", func(t *testing.T) {
		_, err := order.NewTimelineEvent(kernel.NewUUID(), order.Paid, "", &kernel.UUID{})

		require.Error(t, err)
	})
}

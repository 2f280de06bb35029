package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	price, err := kernel.NewMoney(12500, "USD")
	require.NoError(t, err)

	t.Run("should create valid item", func(t *testing.T) {
		variantID := kernel.NewUUID()

		item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(),
			"Hand-thrown vase", &variantID, "Glazed blue", 3, price)

		require.NoError(t, err)
		require.NoError(t, item.Validate())
		assert.Equal(t, "Hand-thrown vase", item.ListingTitle())
		assert.Equal(t, "Glazed blue", item.VariantLabel())
		assert.Equal(t, 3, item.Quantity())
		assert.Equal(t, int64(37500), item.SubtotalCents())
	})

	t.Run("should allow missing variant", func(t *testing.T) {
		item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(),
			"Hand-thrown vase", nil, "", 1, price)

		require.NoError(t, err)
		assert.Nil(t, item.VariantID())
		assert.Empty(t, item.VariantLabel())
	})

	t.Run("should fail with empty title", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(),
			"", nil, "", 1, price)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with out-of-range quantity", func(t *testing.T) {
		for _, quantity := range []int{0, -1, 1_000_001} {
			_, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(),
				"Hand-thrown vase", nil, "", quantity, price)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange, "quantity %d", quantity)
		}
	})

	t.Run("should fail with zero-value unit price", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(),
			"Hand-thrown vase", nil, "", 1, kernel.Money{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unit price")
	})

	t.Run("should fail with invalid variant id", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(),
			"Hand-thrown vase", &kernel.UUID{}, "", 1, price)

		require.Error(t, err)
	})
}

func TestItem_Validate(t *testing.T) {
	var item *order.Item
	require.ErrorIs(t, item.Validate(), order.ErrItemIsNotConstructed)
	require.ErrorIs(t, (&order.Item{}).Validate(), order.ErrItemIsNotConstructed)
}

package kernel_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("should create valid money", func(t *testing.T) {
		m, err := kernel.NewMoney(1750, "USD")

		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.Equal(t, int64(1750), m.AmountCents())
		assert.Equal(t, "USD", m.Currency())
		assert.Equal(t, "1750 USD", m.String())
	})

	t.Run("should accept zero amount", func(t *testing.T) {
		m, err := kernel.NewMoney(0, "EUR")

		require.NoError(t, err)
		assert.Equal(t, int64(0), m.AmountCents())
	})

	t.Run("should fail with negative amount", func(t *testing.T) {
		_, err := kernel.NewMoney(-1, "USD")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "amountCents")
	})

	t.Run("should fail with lowercase currency", func(t *testing.T) {
		_, err := kernel.NewMoney(100, "usd")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should fail with wrong-length currency", func(t *testing.T) {
		for _, currency := range []string{"", "US", "USDD"} {
			_, err := kernel.NewMoney(100, currency)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, "currency %q", currency)
		}
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("should add same-currency values", func(t *testing.T) {
		a, _ := kernel.NewMoney(1000, "USD")
		b, _ := kernel.NewMoney(750, "USD")

		sum, err := a.Add(b)

		require.NoError(t, err)
		assert.Equal(t, int64(1750), sum.AmountCents())
		assert.Equal(t, "USD", sum.Currency())
	})

	t.Run("should fail across currencies", func(t *testing.T) {
		a, _ := kernel.NewMoney(1000, "USD")
		b, _ := kernel.NewMoney(750, "EUR")

		_, err := a.Add(b)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should fail on zero-value money", func(t *testing.T) {
		a, _ := kernel.NewMoney(1000, "USD")
		var b kernel.Money

		_, err := a.Add(b)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestMoney_Validate(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var m kernel.Money

		require.ErrorIs(t, m.Validate(), errs.ErrValueIsRequired)
	})
}

func TestMoney_IsEqual(t *testing.T) {
	a, _ := kernel.NewMoney(100, "USD")
	b, _ := kernel.NewMoney(100, "USD")
	c, _ := kernel.NewMoney(100, "EUR")

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}

package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_TransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    order.Status
		to      order.Status
		allowed bool
	}{
		{"pending to confirmed", order.Pending, order.Confirmed, true},
		{"pending straight to paid", order.Pending, order.Paid, true},
		{"pending to cancelled", order.Pending, order.Cancelled, true},
		{"pending cannot skip to fulfilled", order.Pending, order.Fulfilled, false},
		{"pending cannot complete unpaid", order.Pending, order.Completed, false},
		{"confirmed to paid", order.Confirmed, order.Paid, true},
		{"confirmed cannot complete unpaid", order.Confirmed, order.Completed, false},
		{"paid to fulfilled", order.Paid, order.Fulfilled, true},
		{"paid skips to delivered", order.Paid, order.Delivered, true},
		{"paid to completed", order.Paid, order.Completed, true},
		{"paid to disputed", order.Paid, order.Disputed, true},
		{"paid to refunded", order.Paid, order.Refunded, true},
		{"fulfilled to delivered", order.Fulfilled, order.Delivered, true},
		{"fulfilled cannot go back to paid", order.Fulfilled, order.Paid, false},
		{"delivered to completed", order.Delivered, order.Completed, true},
		{"delivered to disputed", order.Delivered, order.Disputed, true},
		{"disputed to completed", order.Disputed, order.Completed, true},
		{"disputed to refunded", order.Disputed, order.Refunded, true},
		{"disputed cannot re-dispute", order.Disputed, order.Disputed, false},
		{"completed is terminal", order.Completed, order.Refunded, false},
		{"cancelled is terminal", order.Cancelled, order.Confirmed, false},
		{"refunded is terminal", order.Refunded, order.Completed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.from.TransitionTo(tt.to)

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, result)
			} else {
				require.ErrorIs(t, err, errs.ErrInvalidState)
			}
		})
	}

	t.Run("should reject unknown target", func(t *testing.T) {
		_, err := order.Pending.TransitionTo(order.Unknown)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Completed.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.True(t, order.Refunded.IsTerminal())

	assert.False(t, order.Pending.IsTerminal())
	assert.False(t, order.Paid.IsTerminal())
	assert.False(t, order.Disputed.IsTerminal())
}

func TestStatusFromString(t *testing.T) {
	t.Run("should parse every defined status", func(t *testing.T) {
		statuses := []order.Status{
			order.Pending, order.Confirmed, order.Paid, order.Fulfilled,
			order.Delivered, order.Completed, order.Cancelled, order.Refunded,
			order.Disputed,
		}
		for _, want := range statuses {
			got, err := order.StatusFromString(want.String())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		for _, s := range []string{"", "paid", "SHIPPED", "UNKNOWN"} {
			_, err := order.StatusFromString(s)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, "input %q", s)
		}
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "PAID", order.Paid.String())
	assert.Equal(t, "DISPUTED", order.Disputed.String())
	assert.Equal(t, "UNKNOWN", order.Status(42).String())
}

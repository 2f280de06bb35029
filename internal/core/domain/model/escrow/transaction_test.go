package escrow_test

import (
	"testing"

	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	amount, err := kernel.NewMoney(25750, "USD")
	require.NoError(t, err)

	t.Run("should create ledger entry", func(t *testing.T) {
		actorID := kernel.NewUUID()

		tx, err := escrow.NewTransaction(kernel.NewUUID(), escrow.TypeRelease,
			amount, "Dispute resolved for seller", &actorID)

		require.NoError(t, err)
		require.NoError(t, tx.Validate())
		assert.Equal(t, escrow.TypeRelease, tx.Type())
		assert.Equal(t, "Dispute resolved for seller", tx.Note())
		require.NotNil(t, tx.ActorID())
		assert.True(t, tx.ActorID().IsEqual(actorID))
		assert.False(t, tx.CreatedAt().IsZero())
	})

	t.Run("should allow nil actor for system movements", func(t *testing.T) {
		tx, err := escrow.NewTransaction(kernel.NewUUID(), escrow.TypeHold,
			amount, "Funds held in escrow", nil)

		require.NoError(t, err)
		assert.Nil(t, tx.ActorID())
	})

	t.Run("should fail with unknown type", func(t *testing.T) {
		_, err := escrow.NewTransaction(kernel.NewUUID(), escrow.TypeUnknown,
			amount, "", nil)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should fail with zero-value amount", func(t *testing.T) {
		_, err := escrow.NewTransaction(kernel.NewUUID(), escrow.TypeRefund,
			kernel.Money{}, "", nil)

		require.Error(t, err)
	})
}

func TestTypeFromString(t *testing.T) {
	for _, want := range []escrow.TransactionType{escrow.TypeHold, escrow.TypeRelease, escrow.TypeRefund} {
		got, err := escrow.TypeFromString(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := escrow.TypeFromString("CAPTURE")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

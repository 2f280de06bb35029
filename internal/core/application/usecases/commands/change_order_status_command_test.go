package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeOrderStatusCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	actorID := kernel.NewUUID()

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, order.Fulfilled, "Shipped via DHL", &actorID)
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, order.Fulfilled, cmd.Target())
	assert.Equal(t, "Shipped via DHL", cmd.Note())
	require.NotNil(t, cmd.ActorID())
	assert.True(t, cmd.ActorID().IsEqual(actorID))
	assert.Empty(t, cmd.ProviderStatus())
}

func TestNewChangeOrderStatusCommand_SystemActor(t *testing.T) {
	cmd, err := commands.NewChangeOrderStatusCommand(kernel.NewUUID(), order.Paid, "", nil)
	require.NoError(t, err)
	assert.Nil(t, cmd.ActorID())
}

func TestNewChangeOrderStatusCommand_InvalidOrderID(t *testing.T) {
	invalidID := kernel.UUID{} // zero value, should trigger validation error
	_, err := commands.NewChangeOrderStatusCommand(invalidID, order.Paid, "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewChangeOrderStatusCommand_InvalidTarget(t *testing.T) {
	_, err := commands.NewChangeOrderStatusCommand(kernel.NewUUID(), order.Unknown, "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestChangeOrderStatusCommand_WithProviderStatus(t *testing.T) {
	orderID := kernel.NewUUID()
	actorID := kernel.NewUUID()

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, order.Paid, "Confirmed manually", &actorID)
	require.NoError(t, err)

	cmd = cmd.WithProviderStatus("succeeded")
	require.NoError(t, cmd.Validate())
	assert.Equal(t, "succeeded", cmd.ProviderStatus())
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, "Confirmed manually", cmd.Note())
	require.NotNil(t, cmd.ActorID())
	assert.True(t, cmd.ActorID().IsEqual(actorID))
}

func TestNewProviderStatusCommand(t *testing.T) {
	orderID := kernel.NewUUID()

	cmd, err := commands.NewProviderStatusCommand(orderID, order.Paid, "succeeded", "pi_123")
	require.NoError(t, err)
	assert.Equal(t, order.Paid, cmd.Target())
	assert.Equal(t, "succeeded", cmd.ProviderStatus())
	assert.Equal(t, "pi_123", cmd.ProviderRef())
	assert.Nil(t, cmd.ActorID())
}

func TestChangeOrderStatusCommand_Validate_NotConstructed(t *testing.T) {
	cmd := commands.ChangeOrderStatusCommand{}
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrChangeOrderStatusCommandIsNotConstructed)
}

package commands_test

import (
	"testing"
	"time"

	"rxdelivery/internal/core/application/usecases/commands"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdvanceDeliveryCommand(t *testing.T) {
	t.Run("should build command", func(t *testing.T) {
		cmd, err := commands.NewAdvanceDeliveryCommand("ORD-001", order.PickedUp, assignedAt)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "ORD-001", cmd.OrderID().String())
		assert.Equal(t, order.PickedUp, cmd.Target())
		assert.Equal(t, assignedAt, cmd.At())
	})

	t.Run("should accept any valid target", func(t *testing.T) {
		// legality depends on the current status and is checked by the manager
		_, err := commands.NewAdvanceDeliveryCommand("ORD-001", order.Assigned, assignedAt)

		require.NoError(t, err)
	})

	t.Run("should join validation errors", func(t *testing.T) {
		_, err := commands.NewAdvanceDeliveryCommand("", order.Unknown, time.Time{})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "transition time")
	})

	t.Run("should fail validation when not constructed", func(t *testing.T) {
		assert.ErrorIs(t, commands.AdvanceDeliveryCommand{}.Validate(),
			commands.ErrAdvanceDeliveryCommandIsNotConstructed)
	})
}

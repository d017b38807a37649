package commands_test

import (
	"testing"

	"rxdelivery/internal/core/application/usecases/commands"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/core/domain/services"
	"rxdelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDeliveryCommandHandler_Handle(t *testing.T) {
	t.Run("should register order as active", func(t *testing.T) {
		manager := services.NewLifecycleManager()
		h := commands.NewRegisterDeliveryCommandHandler(manager)
		cmd, err := commands.NewRegisterDeliveryCommand("ORD-001",
			"John Doe", "123 Main St", "(123) 456-7890", validItems(), "34.97", assignedAt)
		require.NoError(t, err)

		o, err := h.Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		active := manager.ListActive()
		require.Len(t, active, 1)
		assert.Equal(t, "ORD-001", active[0].ID().String())
	})

	t.Run("should reject duplicate id", func(t *testing.T) {
		manager := services.NewLifecycleManager()
		h := commands.NewRegisterDeliveryCommandHandler(manager)
		cmd, _ := commands.NewRegisterDeliveryCommand("ORD-001",
			"John Doe", "123 Main St", "(123) 456-7890", validItems(), "34.97", assignedAt)
		_, err := h.Handle(t.Context(), cmd)
		require.NoError(t, err)

		_, err = h.Handle(t.Context(), cmd)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Len(t, manager.ListActive(), 1)
	})

	t.Run("should fail for unconstructed command", func(t *testing.T) {
		h := commands.NewRegisterDeliveryCommandHandler(services.NewLifecycleManager())

		_, err := h.Handle(t.Context(), commands.RegisterDeliveryCommand{})

		assert.ErrorIs(t, err, commands.ErrRegisterDeliveryCommandIsNotConstructed)
	})
}

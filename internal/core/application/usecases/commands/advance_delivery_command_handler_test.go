package commands_test

import (
	"testing"
	"time"

	"rxdelivery/internal/core/application/usecases/commands"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManagerWith(t *testing.T, orders ...*order.Order) *services.LifecycleManager {
	t.Helper()

	manager := services.NewLifecycleManager()
	require.NoError(t, manager.Load(orders...))
	return manager
}

func collectTransitions(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	result := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "delivery.transitions" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				status, _ := dp.Attributes.Value("status")
				result[status.AsString()] += dp.Value
			}
		}
	}
	return result
}

func TestAdvanceDeliveryCommandHandler_Handle(t *testing.T) {
	t.Run("should advance and count transition", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
		manager := newManagerWith(t, newOrder(t, "ORD-001"))
		h := commands.NewAdvanceDeliveryCommandHandler(manager, meter)
		at := assignedAt.Add(30 * time.Minute)
		cmd, _ := commands.NewAdvanceDeliveryCommand("ORD-001", order.PickedUp, at)

		updated, err := h.Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, order.PickedUp, updated.Status())
		assert.Equal(t, at, *updated.PickedUpAt())
		assert.Equal(t, map[string]int64{"picked_up": 1}, collectTransitions(t, reader))
	})

	t.Run("should not count refused transitions", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
		manager := newManagerWith(t, newOrder(t, "ORD-001"))
		h := commands.NewAdvanceDeliveryCommandHandler(manager, meter)
		skip, _ := commands.NewAdvanceDeliveryCommand("ORD-001", order.InTransit, assignedAt)
		unknown, _ := commands.NewAdvanceDeliveryCommand("ORD-999", order.PickedUp, assignedAt)

		_, err := h.Handle(t.Context(), skip)
		require.ErrorIs(t, err, order.ErrIllegalTransition)
		_, err = h.Handle(t.Context(), unknown)
		require.ErrorIs(t, err, services.ErrUnknownOrder)

		assert.Empty(t, collectTransitions(t, reader))
	})

	t.Run("should work without meter", func(t *testing.T) {
		h := commands.NewAdvanceDeliveryCommandHandler(newManagerWith(t, newOrder(t, "ORD-001")), nil)
		cmd, _ := commands.NewAdvanceDeliveryCommand("ORD-001", order.PickedUp, assignedAt)

		_, err := h.Handle(t.Context(), cmd)

		require.NoError(t, err)
	})

	t.Run("should fail for unconstructed command", func(t *testing.T) {
		h := commands.NewAdvanceDeliveryCommandHandler(services.NewLifecycleManager(), nil)

		_, err := h.Handle(t.Context(), commands.AdvanceDeliveryCommand{})

		assert.ErrorIs(t, err, commands.ErrAdvanceDeliveryCommandIsNotConstructed)
	})
}

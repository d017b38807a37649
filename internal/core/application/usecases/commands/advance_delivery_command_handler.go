package commands

import (
	"context"

	"rxdelivery/internal/core/domain/model/order"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const transitionsMetric = "delivery.transitions"

// AdvanceDeliveryCommandHandler applies a status transition and counts successful ones
// per target status.
//
// Example:
//
//	handler := NewAdvanceDeliveryCommandHandler(manager, otel.Meter("rxdelivery"))
//	cmd, _ := NewAdvanceDeliveryCommand("ORD-001", order.PickedUp, time.Now())
//	updated, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrIllegalTransition) {
//	    // stale button, ask the agent to refresh
//	}
type AdvanceDeliveryCommandHandler struct {
	lifecycle   DeliveryLifecycle
	transitions metric.Int64Counter
}

// NewAdvanceDeliveryCommandHandler falls back to a no-op counter when meter is nil or
// the instrument cannot be created.
func NewAdvanceDeliveryCommandHandler(lifecycle DeliveryLifecycle, meter metric.Meter) AdvanceDeliveryCommandHandler {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("rxdelivery")
	}

	counter, err := meter.Int64Counter(transitionsMetric,
		metric.WithDescription("Delivery status transitions applied, by target status"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		counter, _ = noop.NewMeterProvider().Meter("rxdelivery").Int64Counter(transitionsMetric)
	}

	return AdvanceDeliveryCommandHandler{
		lifecycle:   lifecycle,
		transitions: counter,
	}
}

// Handle returns the updated order. Errors from the lifecycle manager are returned as is,
// so callers can match services.ErrUnknownOrder and order.ErrIllegalTransition.
func (h AdvanceDeliveryCommandHandler) Handle(ctx context.Context, cmd AdvanceDeliveryCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	updated, err := h.lifecycle.Advance(ctx, cmd.OrderID(), cmd.Target(), cmd.At())
	if err != nil {
		return nil, err
	}

	h.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", cmd.Target().Code())))
	return updated, nil
}

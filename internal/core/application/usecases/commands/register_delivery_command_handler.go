package commands

import (
	"context"

	"rxdelivery/internal/core/domain/model/order"
)

// RegisterDeliveryCommandHandler creates the order and adds it to the active deliveries.
type RegisterDeliveryCommandHandler struct {
	lifecycle DeliveryLifecycle
}

func NewRegisterDeliveryCommandHandler(lifecycle DeliveryLifecycle) RegisterDeliveryCommandHandler {
	return RegisterDeliveryCommandHandler{lifecycle: lifecycle}
}

// Handle returns the registered order in Assigned status.
func (h RegisterDeliveryCommandHandler) Handle(ctx context.Context, cmd RegisterDeliveryCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.Customer(), cmd.Items(), cmd.Total(), cmd.AssignedAt())
	if err != nil {
		return nil, err
	}

	if err = h.lifecycle.Register(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

package commands

import (
	"errors"
	"time"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/pkg/errs"
	"rxdelivery/internal/pkg/guard"
)

var ErrAdvanceDeliveryCommandIsNotConstructed = errors.New(
	"AdvanceDeliveryCommand must be created via NewAdvanceDeliveryCommand constructor",
)

// AdvanceDeliveryCommand requests moving an order to its next status at a given time.
// Whether target is actually the next status is decided by the lifecycle manager.
type AdvanceDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	target  order.Status
	at      time.Time

	guard guard.ConstructorGuard
}

func NewAdvanceDeliveryCommand(orderID string, target order.Status, at time.Time) (AdvanceDeliveryCommand, error) {
	cmd := AdvanceDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setAt(at),
	); err != nil {
		return AdvanceDeliveryCommand{}, err
	}

	return cmd, nil
}

func (c AdvanceDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDeliveryCommandIsNotConstructed)
}

func (c AdvanceDeliveryCommand) OrderID() kernel.OrderID {
	return c.orderID
}

func (c AdvanceDeliveryCommand) Target() order.Status {
	return c.target
}

func (c AdvanceDeliveryCommand) At() time.Time {
	return c.at
}

func (c *AdvanceDeliveryCommand) setOrderID(orderID string) error {
	id, err := kernel.OrderIDFromString(orderID)
	if err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *AdvanceDeliveryCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}

func (c *AdvanceDeliveryCommand) setAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("transition time")
	}
	c.at = at
	return nil
}

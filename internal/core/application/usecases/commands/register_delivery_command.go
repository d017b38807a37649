package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/pkg/errs"
	"rxdelivery/internal/pkg/guard"
)

var ErrRegisterDeliveryCommandIsNotConstructed = errors.New(
	"RegisterDeliveryCommand must be created via NewRegisterDeliveryCommand constructor",
)

// ReservedOrderIDs name the fixed delivery listings (/api/v1/deliveries/<name>) and
// cannot be used as order ids.
var ReservedOrderIDs = []string{"active", "completed", "board"}

// ItemInput is one requested order line.
type ItemInput struct {
	ProductID string
	Name      string
	Quantity  int
}

// RegisterDeliveryCommand hands a new order to the delivery agent.
//
// Example:
//
//	cmd, err := NewRegisterDeliveryCommand("ORD-001",
//	    "John Doe", "123 Main St, Anytown, AT 12345", "(123) 456-7890",
//	    []ItemInput{{ProductID: "P1", Name: "Paracetamol 500mg", Quantity: 2}},
//	    "34.97", time.Now())
//	if err != nil {
//	    return fmt.Errorf("invalid delivery: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type RegisterDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.OrderID
	customer   kernel.Contact
	items      []order.Item
	total      kernel.Money
	assignedAt time.Time

	guard guard.ConstructorGuard
}

// NewRegisterDeliveryCommand validates raw input. An empty orderID gets a generated one.
func NewRegisterDeliveryCommand(
	orderID string,
	customerName, customerAddress, customerPhone string,
	items []ItemInput,
	total string,
	assignedAt time.Time,
) (RegisterDeliveryCommand, error) {
	cmd := RegisterDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomer(customerName, customerAddress, customerPhone),
		cmd.setItems(items),
		cmd.setTotal(total),
		cmd.setAssignedAt(assignedAt),
	); err != nil {
		return RegisterDeliveryCommand{}, err
	}

	return cmd, nil
}

func (c RegisterDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDeliveryCommandIsNotConstructed)
}

func (c RegisterDeliveryCommand) OrderID() kernel.OrderID {
	return c.orderID
}

func (c RegisterDeliveryCommand) Customer() kernel.Contact {
	return c.customer
}

func (c RegisterDeliveryCommand) Items() []order.Item {
	items := make([]order.Item, len(c.items))
	copy(items, c.items)
	return items
}

func (c RegisterDeliveryCommand) Total() kernel.Money {
	return c.total
}

func (c RegisterDeliveryCommand) AssignedAt() time.Time {
	return c.assignedAt
}

func (c *RegisterDeliveryCommand) setOrderID(orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		c.orderID = kernel.NewOrderID()
		return nil
	}

	id, err := kernel.OrderIDFromString(orderID)
	if err != nil {
		return err
	}
	if slices.Contains(ReservedOrderIDs, id.String()) {
		return errs.NewValueIsInvalidErrorWithCause(
			"order ID", fmt.Errorf("%q is reserved", id.String()))
	}
	c.orderID = id
	return nil
}

func (c *RegisterDeliveryCommand) setCustomer(name, address, phone string) error {
	customer, err := kernel.NewContact(name, address, phone)
	if err != nil {
		return err
	}
	c.customer = customer
	return nil
}

func (c *RegisterDeliveryCommand) setItems(inputs []ItemInput) error {
	if len(inputs) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	items := make([]order.Item, 0, len(inputs))
	var itemErrs []error
	for i, in := range inputs {
		item, err := order.NewItem(in.ProductID, in.Name, in.Quantity)
		if err != nil {
			itemErrs = append(itemErrs, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(itemErrs...); err != nil {
		return err
	}

	c.items = items
	return nil
}

func (c *RegisterDeliveryCommand) setTotal(total string) error {
	money, err := kernel.MoneyFromString(total)
	if err != nil {
		return err
	}
	c.total = money
	return nil
}

func (c *RegisterDeliveryCommand) setAssignedAt(assignedAt time.Time) error {
	if assignedAt.IsZero() {
		return errs.NewValueIsRequiredError("assigned at")
	}
	c.assignedAt = assignedAt
	return nil
}

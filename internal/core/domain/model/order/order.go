package order

import (
	"errors"
	"fmt"
	"time"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder
// or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// StatusChange records one applied transition. From is Unknown for a registration.
type StatusChange struct {
	OrderID kernel.OrderID
	From    Status
	To      Status
	At      time.Time
}

// Order is the delivery aggregate root. Everything except the status and the
// timestamps that go with it is fixed at creation.
//
// Order maintains these invariants:
//   - PickedUpAt is set iff the status is PickedUp, InTransit or Delivered
//   - InTransitAt is set iff the status is InTransit or Delivered
//   - DeliveredAt is set iff the status is Delivered
//   - AssignedAt <= PickedUpAt <= InTransitAt <= DeliveredAt
//   - items are non-empty and never change
type Order struct {
	id       kernel.OrderID
	customer kernel.Contact
	items    []Item
	total    kernel.Money
	status   Status
	timeline Timeline

	isConstructed bool
}

// NewOrder creates an order that has just been assigned to the delivery agent.
//
// Example:
//
//	customer, _ := kernel.NewContact("John Doe", "123 Main St", "(123) 456-7890")
//	item, _ := order.NewItem("P1", "Paracetamol 500mg", 2)
//	total, _ := kernel.MoneyFromString("34.97")
//	o, err := order.NewOrder(kernel.MustOrderID("ORD-001"), customer, []order.Item{item}, total, time.Now())
func NewOrder(
	id kernel.OrderID,
	customer kernel.Contact,
	items []Item,
	total kernel.Money,
	assignedAt time.Time,
) (*Order, error) {
	return RestoreOrder(id, customer, items, total, Assigned, Timeline{AssignedAt: assignedAt})
}

// RestoreOrder rebuilds an order in any lifecycle status, e.g. from storage or seed data.
// The timeline is checked against status with Timeline.ValidateFor.
func RestoreOrder(
	id kernel.OrderID,
	customer kernel.Contact,
	items []Item,
	total kernel.Money,
	status Status,
	timeline Timeline,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setCustomer(customer),
		o.setItems(items),
		o.setTotal(total),
		o.setState(status, timeline),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.OrderID {
	return o.id
}

func (o *Order) Customer() kernel.Contact {
	return o.customer
}

// Items returns a copy of the order lines in their original order.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

// Timeline returns a copy of the lifecycle timestamps.
func (o *Order) Timeline() Timeline {
	return o.timeline.Clone()
}

func (o *Order) AssignedAt() time.Time {
	return o.timeline.AssignedAt
}

func (o *Order) PickedUpAt() *time.Time {
	return clonePtr(o.timeline.PickedUpAt)
}

func (o *Order) InTransitAt() *time.Time {
	return clonePtr(o.timeline.InTransitAt)
}

func (o *Order) DeliveredAt() *time.Time {
	return clonePtr(o.timeline.DeliveredAt)
}

// IsActive reports whether the order is still on its way.
func (o *Order) IsActive() bool {
	return o.status.IsActive()
}

// Advance moves the order to target, which must be the successor of the current status.
//
// Effects on success:
//   - PickedUp stamps PickedUpAt with now
//   - InTransit stamps InTransitAt with now
//   - Delivered stamps DeliveredAt with now and backfills PickedUpAt and InTransitAt if unset
//
// A now earlier than the latest recorded timestamp is raised to that timestamp so the
// timeline stays ordered; the returned StatusChange carries the time actually recorded.
//
// On error the order is unchanged and the error is an *IllegalTransitionError.
func (o *Order) Advance(target Status, now time.Time) (StatusChange, error) {
	next, err := o.status.Advance(target)
	if err != nil {
		return StatusChange{}, err
	}

	if latest := o.timeline.Latest(); now.Before(latest) {
		now = latest
	}

	switch next {
	case PickedUp:
		o.timeline.PickedUpAt = stampIfUnset(o.timeline.PickedUpAt, now)
	case InTransit:
		o.timeline.InTransitAt = stampIfUnset(o.timeline.InTransitAt, now)
	case Delivered:
		o.timeline.PickedUpAt = stampIfUnset(o.timeline.PickedUpAt, now)
		o.timeline.InTransitAt = stampIfUnset(o.timeline.InTransitAt, now)
		o.timeline.DeliveredAt = stampIfUnset(o.timeline.DeliveredAt, now)
	case Unknown, Assigned:
		return StatusChange{}, NewIllegalTransitionError(o.status, target)
	}

	change := StatusChange{OrderID: o.id, From: o.status, To: next, At: now}
	o.status = next
	return change, nil
}

// Clone returns a deep copy that can be mutated without affecting o.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	return &Order{
		id:            o.id,
		customer:      o.customer,
		items:         o.Items(),
		total:         o.total,
		status:        o.status,
		timeline:      o.timeline.Clone(),
		isConstructed: o.isConstructed,
	}
}

func (o *Order) setID(id kernel.OrderID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(customer kernel.Contact) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	o.customer = customer
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	o.total = total
	return nil
}

func (o *Order) setState(status Status, timeline Timeline) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := timeline.ValidateFor(status); err != nil {
		return err
	}
	o.status = status
	o.timeline = timeline.Clone()
	return nil
}

func stampIfUnset(ts *time.Time, now time.Time) *time.Time {
	if ts != nil {
		return ts
	}
	return &now
}

// Package queries contains read operations over the delivery board.
// Board queries read the lifecycle manager, the history query reads storage with raw SQL.
package queries

import (
	"time"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/core/domain/services"
)

// DeliveryReader is the read side of services.LifecycleManager.
type DeliveryReader interface {
	ListActive() []*order.Order
	ListCompleted() []*order.Order
	Find(id kernel.OrderID) (*order.Order, error)
	Stats() services.Stats
}

// ItemView is one order line as shown on a delivery card.
type ItemView struct {
	ProductID string
	Name      string
	Quantity  int
}

// DeliveryView is everything a delivery card renders, including the presentation data
// for the current status and the next action.
type DeliveryView struct {
	ID              string
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	Items           []ItemView
	Total           string
	Status          order.Status
	Presentation    order.Descriptor
	AssignedAt      time.Time
	PickedUpAt      *time.Time
	InTransitAt     *time.Time
	DeliveredAt     *time.Time
}

func NewDeliveryView(o *order.Order) DeliveryView {
	items := make([]ItemView, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, ItemView{ProductID: item.ProductID(), Name: item.Name(), Quantity: item.Quantity()})
	}

	customer := o.Customer()
	return DeliveryView{
		ID:              o.ID().String(),
		CustomerName:    customer.Name(),
		CustomerAddress: customer.Address(),
		CustomerPhone:   customer.Phone(),
		Items:           items,
		Total:           o.Total().String(),
		Status:          o.Status(),
		Presentation:    o.Status().Describe(),
		AssignedAt:      o.AssignedAt(),
		PickedUpAt:      o.PickedUpAt(),
		InTransitAt:     o.InTransitAt(),
		DeliveredAt:     o.DeliveredAt(),
	}
}

func newDeliveryViews(orders []*order.Order) []DeliveryView {
	views := make([]DeliveryView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewDeliveryView(o))
	}
	return views
}

// Package orderrepo maps the order aggregate to the delivery_orders and delivery_items tables.
package orderrepo

import (
	"time"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO is one row of delivery_orders. Items live in their own table.
type OrderDTO struct {
	ID              string          `gorm:"type:varchar(64);primaryKey"`
	CustomerName    string          `gorm:"type:varchar(256);not null"`
	CustomerAddress string          `gorm:"type:varchar(256);not null"`
	CustomerPhone   string          `gorm:"type:varchar(256);not null"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status          int             `gorm:"not null;index"`
	AssignedAt      time.Time       `gorm:"not null"`
	PickedUpAt      *time.Time
	InTransitAt     *time.Time
	DeliveredAt     *time.Time `gorm:"index"`
	Items           []ItemDTO  `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "delivery_orders"
}

// ItemDTO is one order line. Position keeps the original item order.
type ItemDTO struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	OrderID   string `gorm:"type:varchar(64);not null;index"`
	Position  int    `gorm:"not null"`
	ProductID string `gorm:"type:varchar(64);not null"`
	Name      string `gorm:"type:varchar(256);not null"`
	Quantity  int    `gorm:"not null"`
}

func (ItemDTO) TableName() string {
	return "delivery_items"
}

func fromDomain(o *order.Order) OrderDTO {
	customer := o.Customer()
	items := make([]ItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, ItemDTO{
			OrderID:   o.ID().String(),
			Position:  i,
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
		})
	}

	return OrderDTO{
		ID:              o.ID().String(),
		CustomerName:    customer.Name(),
		CustomerAddress: customer.Address(),
		CustomerPhone:   customer.Phone(),
		Total:           o.Total().Decimal(),
		Status:          int(o.Status()),
		AssignedAt:      o.AssignedAt().UTC(),
		PickedUpAt:      utc(o.PickedUpAt()),
		InTransitAt:     utc(o.InTransitAt()),
		DeliveredAt:     utc(o.DeliveredAt()),
		Items:           items,
	}
}

// stateColumns holds the only columns a transition changes.
func stateColumns(o *order.Order) map[string]any {
	return map[string]any{
		"status":        int(o.Status()),
		"picked_up_at":  utc(o.PickedUpAt()),
		"in_transit_at": utc(o.InTransitAt()),
		"delivered_at":  utc(o.DeliveredAt()),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.OrderIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	customer, err := kernel.NewContact(dto.CustomerName, dto.CustomerAddress, dto.CustomerPhone)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewItem(itemDTO.ProductID, itemDTO.Name, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(id, customer, items, total, order.Status(dto.Status), order.Timeline{
		AssignedAt:  dto.AssignedAt.UTC(),
		PickedUpAt:  utc(dto.PickedUpAt),
		InTransitAt: utc(dto.InTransitAt),
		DeliveredAt: utc(dto.DeliveredAt),
	})
}

func utc(ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}
	v := ts.UTC()
	return &v
}

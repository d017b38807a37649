// Package transitionrepo stores the status history of orders in delivery_transitions.
package transitionrepo

import (
	"time"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
)

// TransitionDTO is one applied status change. FromStatus is 0 for a registration.
type TransitionDTO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	OrderID    string    `gorm:"type:varchar(64);not null;index"`
	FromStatus int       `gorm:"not null"`
	ToStatus   int       `gorm:"not null"`
	OccurredAt time.Time `gorm:"not null"`
}

func (TransitionDTO) TableName() string {
	return "delivery_transitions"
}

func fromDomain(change order.StatusChange) TransitionDTO {
	return TransitionDTO{
		OrderID:    change.OrderID.String(),
		FromStatus: int(change.From),
		ToStatus:   int(change.To),
		OccurredAt: change.At.UTC(),
	}
}

func toDomain(dto TransitionDTO) (order.StatusChange, error) {
	id, err := kernel.OrderIDFromString(dto.OrderID)
	if err != nil {
		return order.StatusChange{}, err
	}

	to := order.Status(dto.ToStatus)
	if err = to.Validate(); err != nil {
		return order.StatusChange{}, err
	}

	return order.StatusChange{
		OrderID: id,
		From:    order.Status(dto.FromStatus),
		To:      to,
		At:      dto.OccurredAt.UTC(),
	}, nil
}

package queries

import (
	"context"
	"errors"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery fetches one delivery, active or completed.
type GetDeliveryQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	guard   guard.ConstructorGuard
}

func NewGetDeliveryQuery(orderID string) (GetDeliveryQuery, error) {
	id, err := kernel.OrderIDFromString(orderID)
	if err != nil {
		return GetDeliveryQuery{}, err
	}
	return GetDeliveryQuery{orderID: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

func (q GetDeliveryQuery) OrderID() kernel.OrderID {
	return q.orderID
}

type GetDeliveryQueryHandler struct {
	reader DeliveryReader
}

func NewGetDeliveryQueryHandler(reader DeliveryReader) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{reader: reader}
}

// Handle returns services.UnknownOrderError when no such delivery exists.
func (h GetDeliveryQueryHandler) Handle(_ context.Context, query GetDeliveryQuery) (DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return DeliveryView{}, err
	}

	o, err := h.reader.Find(query.OrderID())
	if err != nil {
		return DeliveryView{}, err
	}

	return NewDeliveryView(o), nil
}

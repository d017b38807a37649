package queries

import (
	"context"
	"errors"

	"rxdelivery/internal/pkg/guard"
)

var ErrGetCompletedDeliveriesQueryIsNotConstructed = errors.New(
	"GetCompletedDeliveriesQuery must be created via NewGetCompletedDeliveriesQuery constructor",
)

// GetCompletedDeliveriesQuery lists delivered orders, most recently delivered first.
type GetCompletedDeliveriesQuery struct {
	guard guard.ConstructorGuard
}

func NewGetCompletedDeliveriesQuery() GetCompletedDeliveriesQuery {
	return GetCompletedDeliveriesQuery{guard: guard.NewConstructorGuard()}
}

func (q GetCompletedDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetCompletedDeliveriesQueryIsNotConstructed)
}

type GetCompletedDeliveriesQueryHandler struct {
	reader DeliveryReader
}

func NewGetCompletedDeliveriesQueryHandler(reader DeliveryReader) GetCompletedDeliveriesQueryHandler {
	return GetCompletedDeliveriesQueryHandler{reader: reader}
}

func (h GetCompletedDeliveriesQueryHandler) Handle(
	_ context.Context,
	query GetCompletedDeliveriesQuery,
) ([]DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return newDeliveryViews(h.reader.ListCompleted()), nil
}

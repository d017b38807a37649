package queries

import (
	"context"
	"errors"

	"rxdelivery/internal/pkg/guard"
)

var ErrGetActiveDeliveriesQueryIsNotConstructed = errors.New(
	"GetActiveDeliveriesQuery must be created via NewGetActiveDeliveriesQuery constructor",
)

// GetActiveDeliveriesQuery lists deliveries that are not delivered yet, in the order they
// were assigned to the agent.
type GetActiveDeliveriesQuery struct {
	guard guard.ConstructorGuard
}

func NewGetActiveDeliveriesQuery() GetActiveDeliveriesQuery {
	return GetActiveDeliveriesQuery{guard: guard.NewConstructorGuard()}
}

func (q GetActiveDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveDeliveriesQueryIsNotConstructed)
}

type GetActiveDeliveriesQueryHandler struct {
	reader DeliveryReader
}

func NewGetActiveDeliveriesQueryHandler(reader DeliveryReader) GetActiveDeliveriesQueryHandler {
	return GetActiveDeliveriesQueryHandler{reader: reader}
}

func (h GetActiveDeliveriesQueryHandler) Handle(_ context.Context, query GetActiveDeliveriesQuery) ([]DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return newDeliveryViews(h.reader.ListActive()), nil
}

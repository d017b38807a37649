package queries

import (
	"context"
	"errors"

	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/pkg/guard"
)

var ErrGetDeliveryBoardQueryIsNotConstructed = errors.New(
	"GetDeliveryBoardQuery must be created via NewGetDeliveryBoardQuery constructor",
)

// GetDeliveryBoardQuery returns the tab headings of the delivery board.
type GetDeliveryBoardQuery struct {
	guard guard.ConstructorGuard
}

func NewGetDeliveryBoardQuery() GetDeliveryBoardQuery {
	return GetDeliveryBoardQuery{guard: guard.NewConstructorGuard()}
}

func (q GetDeliveryBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryBoardQueryIsNotConstructed)
}

// BoardView holds the counts and labels of both tabs, e.g. "Active Deliveries (2)".
type BoardView struct {
	ActiveCount    int
	CompletedCount int
	ActiveLabel    string
	CompletedLabel string
}

type GetDeliveryBoardQueryHandler struct {
	reader DeliveryReader
}

func NewGetDeliveryBoardQueryHandler(reader DeliveryReader) GetDeliveryBoardQueryHandler {
	return GetDeliveryBoardQueryHandler{reader: reader}
}

func (h GetDeliveryBoardQueryHandler) Handle(_ context.Context, query GetDeliveryBoardQuery) (BoardView, error) {
	if err := query.Validate(); err != nil {
		return BoardView{}, err
	}

	stats := h.reader.Stats()
	return BoardView{
		ActiveCount:    stats.Active,
		CompletedCount: stats.Completed,
		ActiveLabel:    order.ActiveTabLabel(stats.Active),
		CompletedLabel: order.CompletedTabLabel(stats.Completed),
	}, nil
}

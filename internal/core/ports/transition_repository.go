package ports

import (
	"context"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
)

// TransitionRepository stores the status history of orders. Entries are append-only.
type TransitionRepository interface {
	// Add appends one status change. Registrations are stored with From == order.Unknown.
	Add(ctx context.Context, change order.StatusChange) error

	// GetByOrder returns the history of one order in the order it happened.
	GetByOrder(ctx context.Context, id kernel.OrderID) ([]order.StatusChange, error)
}

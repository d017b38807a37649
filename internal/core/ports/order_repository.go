// Package ports defines the contracts between the delivery domain and infrastructure:
// persistence of orders and their status history, transaction boundaries and the board cache.
package ports

import (
	"context"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its items.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the status and timestamps of an existing order.
	// Customer, items and total never change and are not written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id. Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)

	// GetAllActive retrieves every order that is not delivered, oldest assignment first.
	GetAllActive(ctx context.Context) ([]*order.Order, error)

	// GetAllCompleted retrieves every delivered order, most recently delivered first.
	GetAllCompleted(ctx context.Context) ([]*order.Order, error)
}

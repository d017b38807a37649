// Package commands contains business operations that modify delivery state.
// Commands are constructor-validated values handled by a matching handler; state changes
// go through the lifecycle manager, persistence happens in TransitionJournal.
package commands

import (
	"context"
	"time"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for the journal.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// TransitionRepoFactory provides access to the status history within a transaction.
	TransitionRepoFactory interface {
		TransitionRepository() ports.TransitionRepository
	}

	// UoW writes an order and its status history atomically.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   err = uow.OrderRepository().Update(ctx, o)
	//   err = uow.TransitionRepository().Add(ctx, change)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		TransitionRepoFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)

// DeliveryLifecycle is the state container commands act on. It is implemented by
// services.LifecycleManager.
type DeliveryLifecycle interface {
	Register(ctx context.Context, o *order.Order) error
	Advance(ctx context.Context, id kernel.OrderID, target order.Status, now time.Time) (*order.Order, error)
}

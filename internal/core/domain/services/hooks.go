package services

import (
	"context"

	"rxdelivery/internal/core/domain/model/order"
)

// Transition is a status change together with a snapshot of the order right after it.
// Registrations are reported with From == order.Unknown and To == order.Assigned.
type Transition struct {
	order.StatusChange

	// Order is a copy owned by the hooks; it is shared between them and must not be mutated.
	Order *order.Order
}

// IsRegistration reports whether the transition introduced a new order.
func (t Transition) IsRegistration() bool {
	return t.From == order.Unknown
}

// TransitionCommitter runs inside the manager's critical section before the new state
// becomes visible. A returned error aborts the transition.
type TransitionCommitter interface {
	CommitTransition(ctx context.Context, transition Transition) error
}

// TransitionListener is notified after a transition became visible. It cannot fail
// the operation and should not block for long. Listeners are called one transition at a
// time in commit order and must not call Register or Advance.
type TransitionListener interface {
	OnTransition(ctx context.Context, transition Transition)
}

// CommitterFunc adapts a function to TransitionCommitter.
type CommitterFunc func(ctx context.Context, transition Transition) error

func (f CommitterFunc) CommitTransition(ctx context.Context, transition Transition) error {
	return f(ctx, transition)
}

// ListenerFunc adapts a function to TransitionListener.
type ListenerFunc func(ctx context.Context, transition Transition)

func (f ListenerFunc) OnTransition(ctx context.Context, transition Transition) {
	f(ctx, transition)
}

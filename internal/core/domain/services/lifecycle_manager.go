package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/pkg/errs"
)

// ErrUnknownOrder is the sentinel behind every UnknownOrderError.
var ErrUnknownOrder = errors.New("unknown order")

// UnknownOrderError reports an order id the manager does not hold.
// It matches both ErrUnknownOrder and errs.ErrObjectNotFound.
type UnknownOrderError struct {
	OrderID kernel.OrderID
}

func NewUnknownOrderError(id kernel.OrderID) *UnknownOrderError {
	return &UnknownOrderError{OrderID: id}
}

func (e *UnknownOrderError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownOrder, e.OrderID)
}

func (e *UnknownOrderError) Unwrap() []error {
	return []error{ErrUnknownOrder, errs.ErrObjectNotFound}
}

// Stats holds the sizes of both delivery sets.
type Stats struct {
	Active    int
	Completed int
}

// orderSet is an insertion-ordered set of orders keyed by id.
type orderSet struct {
	byID map[kernel.OrderID]*order.Order
	ids  []kernel.OrderID
}

func newOrderSet() orderSet {
	return orderSet{byID: make(map[kernel.OrderID]*order.Order)}
}

func (s *orderSet) get(id kernel.OrderID) (*order.Order, bool) {
	o, ok := s.byID[id]
	return o, ok
}

func (s *orderSet) add(o *order.Order) {
	s.byID[o.ID()] = o
	s.ids = append(s.ids, o.ID())
}

func (s *orderSet) addFirst(o *order.Order) {
	s.byID[o.ID()] = o
	s.ids = slices.Insert(s.ids, 0, o.ID())
}

func (s *orderSet) replace(o *order.Order) {
	s.byID[o.ID()] = o
}

func (s *orderSet) remove(id kernel.OrderID) {
	delete(s.byID, id)
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
}

func (s *orderSet) len() int {
	return len(s.ids)
}

func (s *orderSet) snapshot() []*order.Order {
	result := make([]*order.Order, 0, len(s.ids))
	for _, id := range s.ids {
		result = append(result, s.byID[id].Clone())
	}
	return result
}

// LifecycleManager owns the active and completed delivery sets. Every order is in
// exactly one of them and moves from active to completed once, when it is delivered.
//
// Orders handed in are copied and orders handed out are copies, so callers can never
// change the manager's state except through Register and Advance.
//
// Example usage:
//
//	manager := services.NewLifecycleManager(services.WithCommitters(journal))
//	if err := manager.Register(ctx, o); err != nil {
//	    return err
//	}
//	updated, err := manager.Advance(ctx, o.ID(), order.PickedUp, time.Now())
//	if errors.Is(err, services.ErrUnknownOrder) {
//	    // no such order
//	}
type LifecycleManager struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	active    orderSet
	completed orderSet

	committers []TransitionCommitter
	listeners  []TransitionListener
}

// ManagerOption configures a LifecycleManager.
type ManagerOption func(*LifecycleManager)

// WithCommitters appends hooks that must succeed before a transition becomes visible.
func WithCommitters(committers ...TransitionCommitter) ManagerOption {
	return func(m *LifecycleManager) {
		m.committers = append(m.committers, committers...)
	}
}

// WithListeners appends hooks notified after a transition became visible.
func WithListeners(listeners ...TransitionListener) ManagerOption {
	return func(m *LifecycleManager) {
		m.listeners = append(m.listeners, listeners...)
	}
}

func NewLifecycleManager(opts ...ManagerOption) *LifecycleManager {
	m := &LifecycleManager{
		active:    newOrderSet(),
		completed: newOrderSet(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load restores existing orders without running hooks. Active orders are appended to the
// active set and delivered ones to the completed set, both in the given order, so
// completed orders should be passed most recent first. Nothing is loaded when any order
// is invalid or its id is already known.
func (m *LifecycleManager) Load(orders ...*order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[kernel.OrderID]struct{}, len(orders))
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return err
		}
		if _, dup := seen[o.ID()]; dup || m.containsLocked(o.ID()) {
			return errs.NewValueIsInvalidErrorWithCause("order ID", fmt.Errorf("%s is already known", o.ID()))
		}
		seen[o.ID()] = struct{}{}
	}

	for _, o := range orders {
		if o.IsActive() {
			m.active.add(o.Clone())
		} else {
			m.completed.add(o.Clone())
		}
	}
	return nil
}

// Register appends a freshly assigned order to the active set. Committers see it as a
// transition from order.Unknown to order.Assigned at the order's assignment time.
func (m *LifecycleManager) Register(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.Status() != order.Assigned {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("only %s orders can be registered, got %s", order.Assigned, o.Status()))
	}

	stored := o.Clone()
	transition := Transition{
		StatusChange: order.StatusChange{
			OrderID: stored.ID(),
			From:    order.Unknown,
			To:      order.Assigned,
			At:      stored.AssignedAt(),
		},
		Order: stored.Clone(),
	}

	m.mu.Lock()
	if m.containsLocked(stored.ID()) {
		m.mu.Unlock()
		return errs.NewValueIsInvalidErrorWithCause("order ID", fmt.Errorf("%s is already registered", stored.ID()))
	}
	if err := m.commitLocked(ctx, transition); err != nil {
		m.mu.Unlock()
		return err
	}
	m.active.add(stored)
	m.notifyLocked(ctx, transition)
	return nil
}

// Advance moves an active order to target and returns a copy of the updated order.
//
// Errors:
//   - *UnknownOrderError when the manager holds no order with this id
//   - *order.IllegalTransitionError when target is not the successor of the current
//     status, including every request for an order that was already delivered
//   - a wrapped committer error when a hook rejected the transition
//
// On error neither set changes.
func (m *LifecycleManager) Advance(
	ctx context.Context, id kernel.OrderID, target order.Status, now time.Time,
) (*order.Order, error) {
	m.mu.Lock()

	current, ok := m.active.get(id)
	if !ok {
		defer m.mu.Unlock()
		if _, done := m.completed.get(id); done {
			return nil, order.NewIllegalTransitionError(order.Delivered, target)
		}
		return nil, NewUnknownOrderError(id)
	}

	updated := current.Clone()
	change, err := updated.Advance(target, now)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	transition := Transition{StatusChange: change, Order: updated.Clone()}
	if err := m.commitLocked(ctx, transition); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	if updated.IsActive() {
		m.active.replace(updated)
	} else {
		m.active.remove(id)
		m.completed.addFirst(updated)
	}
	m.notifyLocked(ctx, transition)
	return updated.Clone(), nil
}

// ListActive returns copies of the active orders in insertion order.
func (m *LifecycleManager) ListActive() []*order.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.active.snapshot()
}

// ListCompleted returns copies of the delivered orders, most recently delivered first.
func (m *LifecycleManager) ListCompleted() []*order.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.completed.snapshot()
}

// Find returns a copy of the order with this id from either set.
func (m *LifecycleManager) Find(id kernel.OrderID) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o, ok := m.active.get(id); ok {
		return o.Clone(), nil
	}
	if o, ok := m.completed.get(id); ok {
		return o.Clone(), nil
	}
	return nil, NewUnknownOrderError(id)
}

// Stats returns the current size of both sets.
func (m *LifecycleManager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{Active: m.active.len(), Completed: m.completed.len()}
}

func (m *LifecycleManager) containsLocked(id kernel.OrderID) bool {
	if _, ok := m.active.get(id); ok {
		return true
	}
	_, ok := m.completed.get(id)
	return ok
}

func (m *LifecycleManager) commitLocked(ctx context.Context, transition Transition) error {
	for _, c := range m.committers {
		if err := c.CommitTransition(ctx, transition); err != nil {
			return fmt.Errorf("commit %s %s -> %s: %w", transition.OrderID, transition.From, transition.To, err)
		}
	}
	return nil
}

// notifyLocked releases mu and runs the listeners. notifyMu is taken before mu is
// released, so listeners see transitions in commit order.
func (m *LifecycleManager) notifyLocked(ctx context.Context, transition Transition) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	m.mu.Unlock()

	for _, l := range m.listeners {
		l.OnTransition(ctx, transition)
	}
}

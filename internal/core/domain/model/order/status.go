package order

import (
	"errors"
	"fmt"

	"rxdelivery/internal/pkg/errs"
)

// ErrIllegalTransition is the sentinel behind every IllegalTransitionError.
var ErrIllegalTransition = errors.New("illegal status transition")

// Status is the lifecycle state of a delivery order.
//
// State transitions (total order, no skipping, no going back):
//
//	Assigned ──> PickedUp ──> InTransit ──> Delivered
//
// Delivered is terminal.
type Status int

const (
	// Unknown (0) catches uninitialized values. It is also the "from" side of a registration.
	Unknown Status = iota

	// Assigned is the initial status: the order has been handed to the delivery agent.
	Assigned

	// PickedUp means the agent collected the order from the pharmacy.
	PickedUp

	// InTransit means the order is on its way to the customer.
	InTransit

	// Delivered is the terminal status.
	Delivered
)

// IllegalTransitionError reports a requested status that is not the unique successor
// of the current one.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func NewIllegalTransitionError(from, to Status) *IllegalTransitionError {
	return &IllegalTransitionError{From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	if next, ok := e.From.Next(); ok {
		return fmt.Sprintf("%s: %s -> %s (expected %s)", ErrIllegalTransition, e.From, e.To, next)
	}
	return fmt.Sprintf("%s: %s -> %s (%s is terminal)", ErrIllegalTransition, e.From, e.To, e.From)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Assigned:  "Assigned",
		PickedUp:  "PickedUp",
		InTransit: "InTransit",
		Delivered: "Delivered",
	}
}

// getStatusCodes maps valid statuses to their wire representation.
func getStatusCodes() map[Status]string {
	//nolint:exhaustive // Unknown has no wire representation
	return map[Status]string{
		Assigned:  "assigned",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
	}
}

// Statuses returns the valid statuses in lifecycle order.
func Statuses() []Status {
	return []Status{Assigned, PickedUp, InTransit, Delivered}
}

// ParseStatus converts a wire code ("picked_up") back into a Status.
func ParseStatus(code string) (Status, error) {
	for status, c := range getStatusCodes() {
		if c == code {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a known status", code))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := getStatusCodes()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the status name, "Unknown" for anything invalid.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Code returns the wire representation, or an empty string for invalid statuses.
func (s Status) Code() string {
	return getStatusCodes()[s]
}

// Next returns the unique legal successor. ok is false for Delivered and invalid statuses.
func (s Status) Next() (Status, bool) {
	switch s {
	case Assigned:
		return PickedUp, true
	case PickedUp:
		return InTransit, true
	case InTransit:
		return Delivered, true
	case Unknown, Delivered:
		return Unknown, false
	default:
		return Unknown, false
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// IsActive reports whether an order in this status belongs to the active set.
func (s Status) IsActive() bool {
	return s == Assigned || s == PickedUp || s == InTransit
}

// Advance validates target against the transition table without side effects.
//
// Returns:
//   - (target, nil) when target is the successor of s
//   - (Unknown, *IllegalTransitionError) otherwise, including every request from Delivered
func (s Status) Advance(target Status) (Status, error) {
	next, ok := s.Next()
	if !ok || next != target {
		return Unknown, NewIllegalTransitionError(s, target)
	}
	return next, nil
}

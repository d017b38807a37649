package order

import (
	"errors"
	"fmt"
	"time"

	"rxdelivery/internal/pkg/errs"
)

// Timeline holds the lifecycle timestamps of an order. Optional stamps are nil until
// the corresponding status is reached.
type Timeline struct {
	AssignedAt  time.Time
	PickedUpAt  *time.Time
	InTransitAt *time.Time
	DeliveredAt *time.Time
}

// Clone returns a copy that shares no pointers with t.
func (t Timeline) Clone() Timeline {
	return Timeline{
		AssignedAt:  t.AssignedAt,
		PickedUpAt:  clonePtr(t.PickedUpAt),
		InTransitAt: clonePtr(t.InTransitAt),
		DeliveredAt: clonePtr(t.DeliveredAt),
	}
}

// Latest returns the most recent timestamp recorded so far.
func (t Timeline) Latest() time.Time {
	latest := t.AssignedAt
	for _, ts := range []*time.Time{t.PickedUpAt, t.InTransitAt, t.DeliveredAt} {
		if ts != nil && ts.After(latest) {
			latest = *ts
		}
	}
	return latest
}

// At returns the timestamp recorded for reaching status, if any.
func (t Timeline) At(status Status) (time.Time, bool) {
	var ts *time.Time
	switch status {
	case Assigned:
		return t.AssignedAt, !t.AssignedAt.IsZero()
	case PickedUp:
		ts = t.PickedUpAt
	case InTransit:
		ts = t.InTransitAt
	case Delivered:
		ts = t.DeliveredAt
	case Unknown:
	}
	if ts == nil {
		return time.Time{}, false
	}
	return *ts, true
}

// ValidateFor checks presence and ordering of the stamps against status:
//   - pickedUpAt is present iff status is PickedUp, InTransit or Delivered
//   - inTransitAt is present iff status is InTransit or Delivered
//   - deliveredAt is present iff status is Delivered
//   - assignedAt <= pickedUpAt <= inTransitAt <= deliveredAt
func (t Timeline) ValidateFor(status Status) error {
	if t.AssignedAt.IsZero() {
		return errs.NewValueIsRequiredError("assigned at")
	}

	if err := errors.Join(
		checkPresence("picked up at", t.PickedUpAt, status >= PickedUp, status),
		checkPresence("in transit at", t.InTransitAt, status >= InTransit, status),
		checkPresence("delivered at", t.DeliveredAt, status >= Delivered, status),
	); err != nil {
		return err
	}

	prev, prevName := t.AssignedAt, "assigned at"
	for _, step := range []struct {
		name string
		ts   *time.Time
	}{
		{"picked up at", t.PickedUpAt},
		{"in transit at", t.InTransitAt},
		{"delivered at", t.DeliveredAt},
	} {
		if step.ts == nil {
			continue
		}
		if step.ts.Before(prev) {
			return errs.NewValueIsInvalidErrorWithCause(step.name,
				fmt.Errorf("%s is before %s %s", step.ts.Format(time.RFC3339), prevName, prev.Format(time.RFC3339)))
		}
		prev, prevName = *step.ts, step.name
	}

	return nil
}

func checkPresence(name string, ts *time.Time, required bool, status Status) error {
	switch {
	case required && ts == nil:
		return errs.NewValueIsRequiredErrorWithCause(name, fmt.Errorf("status is %s", status))
	case !required && ts != nil:
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("must be empty while status is %s", status))
	default:
		return nil
	}
}

func clonePtr(ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}
	v := *ts
	return &v
}

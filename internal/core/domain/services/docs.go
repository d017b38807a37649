// Package services provides the domain services of the delivery system.
//
// The package includes:
//   - LifecycleManager: the state container holding the active and completed delivery sets
//     and applying status transitions to them atomically
//   - TransitionCommitter / TransitionListener: hooks that persist or observe transitions
//
// The manager is independent of any transport or storage. Storage joins in through a
// TransitionCommitter, notifications through a TransitionListener.
package services

// Package order provides the delivery order aggregate and its lifecycle.
//
// The package includes:
//   - Order: the aggregate root holding customer, items, total, status and timeline
//   - Status: the transition table Assigned -> PickedUp -> InTransit -> Delivered
//   - Timeline: the lifecycle timestamps and their presence and ordering rules
//   - Item: one line of a delivery
//   - Descriptor: the display data for each status (label, badge, icon, next action)
//
// Key business rules:
//   - An order can only move to the unique successor of its current status
//   - Delivered is terminal; every further request is an IllegalTransitionError
//   - Each timestamp is set exactly once, when its status is reached
//   - Delivering backfills missing pickup and transit timestamps
package order

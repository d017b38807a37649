package queries

import (
	"context"
	"errors"
	"time"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/pkg/errs"
	"rxdelivery/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrGetDeliveryHistoryQueryIsNotConstructed = errors.New(
	"GetDeliveryHistoryQuery must be created via NewGetDeliveryHistoryQuery constructor",
)

// GetDeliveryHistoryQuery lists the recorded status changes of one delivery.
type GetDeliveryHistoryQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	guard   guard.ConstructorGuard
}

func NewGetDeliveryHistoryQuery(orderID string) (GetDeliveryHistoryQuery, error) {
	id, err := kernel.OrderIDFromString(orderID)
	if err != nil {
		return GetDeliveryHistoryQuery{}, err
	}
	return GetDeliveryHistoryQuery{orderID: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeliveryHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryHistoryQueryIsNotConstructed)
}

func (q GetDeliveryHistoryQuery) OrderID() kernel.OrderID {
	return q.orderID
}

// HistoryEntry is one recorded status change. From is order.Unknown for the registration.
type HistoryEntry struct {
	From order.Status
	To   order.Status
	At   time.Time
}

// GetDeliveryHistoryQueryHandler reads delivery_transitions directly.
type GetDeliveryHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetDeliveryHistoryQueryHandler(db *gorm.DB) GetDeliveryHistoryQueryHandler {
	return GetDeliveryHistoryQueryHandler{db: db}
}

// Handle returns entries oldest first, or errs.ObjectNotFoundError when nothing was
// recorded for the order.
func (h GetDeliveryHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryHistoryQuery,
) ([]HistoryEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			from_status,
			to_status,
			occurred_at
		FROM delivery_transitions
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, query.OrderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var from, to int
		var at time.Time

		if err = rows.Scan(&from, &to, &at); err != nil {
			return nil, err
		}

		entries = append(entries, HistoryEntry{
			From: order.Status(from),
			To:   order.Status(to),
			At:   at.UTC(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	return entries, nil
}

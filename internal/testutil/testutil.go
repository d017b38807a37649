// Package testutil holds fixtures shared by tests of several packages.
package testutil

import (
	"testing"
	"time"

	"rxdelivery/internal/adapters/out/gormstore"
	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// AssignedAt is the assignment time of the ORD-001 fixture.
var AssignedAt = time.Date(2023, 5, 15, 10, 30, 0, 0, time.UTC)

// NewOrder returns an Assigned order for John Doe with two items totalling 34.97.
func NewOrder(t testing.TB, id string, assignedAt time.Time) *order.Order {
	t.Helper()

	customer, err := kernel.NewContact("John Doe", "123 Main St, Anytown, AT 12345", "(123) 456-7890")
	require.NoError(t, err)
	p1, err := order.NewItem("P1", "Paracetamol 500mg", 2)
	require.NoError(t, err)
	p2, err := order.NewItem("P2", "Vitamin C 1000mg", 1)
	require.NoError(t, err)
	total, err := kernel.MoneyFromString("34.97")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.MustOrderID(id), customer, []order.Item{p1, p2}, total, assignedAt)
	require.NoError(t, err)
	return o
}

// AdvanceTo walks o through the lifecycle up to target, one step per step minutes.
func AdvanceTo(t testing.TB, o *order.Order, target order.Status, step time.Duration) *order.Order {
	t.Helper()

	at := o.Timeline().Latest()
	for o.Status() != target {
		next, ok := o.Status().Next()
		require.True(t, ok, "cannot reach %s from %s", target, o.Status())
		at = at.Add(step)
		_, err := o.Advance(next, at)
		require.NoError(t, err)
	}
	return o
}

// OpenSQLite returns a migrated, private in-memory database closed at test cleanup.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gormstore.Open(gormstore.Config{
		Driver: gormstore.DriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, gormstore.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/core/domain/services"
	"rxdelivery/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		LogLevel: "info",
		Seed:     SeedConfig{Enabled: true},
		Jobs:     JobsConfig{SLA: time.Hour},
	}
}

func TestCompositionRoot_Bootstrap(t *testing.T) {
	t.Run("should seed empty storage and load it", func(t *testing.T) {
		db := testutil.OpenSQLite(t)
		root := NewCompositionRoot(testConfig(), db, slog.Default())

		require.NoError(t, root.Bootstrap(t.Context()))

		assert.Equal(t, services.Stats{Active: 2, Completed: 1}, root.Manager().Stats())
		active := root.Manager().ListActive()
		require.Len(t, active, 2)
		assert.Equal(t, "ORD-002", active[0].ID().String(), "active deliveries are ordered by assignment")
	})

	t.Run("should load stored deliveries without seeding again", func(t *testing.T) {
		db := testutil.OpenSQLite(t)
		first := NewCompositionRoot(testConfig(), db, slog.Default())
		require.NoError(t, first.Bootstrap(t.Context()))
		_, err := first.Manager().Advance(t.Context(), kernel.MustOrderID("ORD-001"), order.PickedUp,
			time.Date(2023, 5, 15, 11, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		second := NewCompositionRoot(testConfig(), db, slog.Default())
		require.NoError(t, second.Bootstrap(t.Context()))

		assert.Equal(t, services.Stats{Active: 2, Completed: 1}, second.Manager().Stats())
		o, err := second.Manager().Find(kernel.MustOrderID("ORD-001"))
		require.NoError(t, err)
		assert.Equal(t, order.PickedUp, o.Status())
	})

	t.Run("should leave storage empty when seeding is off", func(t *testing.T) {
		cfg := testConfig()
		cfg.Seed.Enabled = false
		root := NewCompositionRoot(cfg, testutil.OpenSQLite(t), slog.Default())

		require.NoError(t, root.Bootstrap(t.Context()))

		assert.Equal(t, services.Stats{}, root.Manager().Stats())
	})

	t.Run("should seed from a configured file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
deliveries:
  - id: RX-1
    customer: {name: A, address: B, phone: C}
    items: [{id: P1, name: Aspirin, quantity: 1}]
    total: "3.50"
    status: assigned
    assigned_at: 2023-05-15T10:30:00
`), 0o600))

		cfg := testConfig()
		cfg.Seed.File = path
		root := NewCompositionRoot(cfg, testutil.OpenSQLite(t), slog.Default())

		require.NoError(t, root.Bootstrap(t.Context()))

		assert.Equal(t, services.Stats{Active: 1}, root.Manager().Stats())
	})
}

func TestCompositionRoot_Listeners(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []order.Status
	)
	listener := services.ListenerFunc(func(_ context.Context, transition services.Transition) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, transition.To)
	})

	root := NewCompositionRoot(testConfig(), testutil.OpenSQLite(t), slog.Default(), WithListeners(listener))
	require.NoError(t, root.Bootstrap(t.Context()))

	_, err := root.Manager().Advance(t.Context(), kernel.MustOrderID("ORD-001"), order.PickedUp, time.Now())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []order.Status{order.PickedUp}, seen, "loading does not notify listeners")
}

func TestCompositionRoot_CreateHTTPHandler(t *testing.T) {
	root := NewCompositionRoot(testConfig(), testutil.OpenSQLite(t), slog.Default())
	require.NoError(t, root.Bootstrap(t.Context()))

	e, err := root.CreateHTTPHandler(t.Context())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/deliveries/board", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Active Deliveries (2)")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/deliveries/ORD-003/advance",
		strings.NewReader(`{"status":"delivered"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCompositionRoot_CreateJobManager(t *testing.T) {
	root := NewCompositionRoot(testConfig(), testutil.OpenSQLite(t), slog.Default())

	jm := root.CreateJobManager()

	require.NoError(t, jm.StartAll())
	jm.StopAll()
}

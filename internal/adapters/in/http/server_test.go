package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rxdelivery/internal/adapters/out/gormstore"
	"rxdelivery/internal/core/application/usecases/commands"
	"rxdelivery/internal/core/application/usecases/queries"
	"rxdelivery/internal/core/domain/model/kernel"
	"rxdelivery/internal/core/domain/services"
	"rxdelivery/internal/testutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uowFactory struct {
	factory *gormstore.GormUnitOfWorkFactory
}

func (f uowFactory) Create() commands.UoW {
	return f.factory.Create()
}

type fixture struct {
	echo    *echo.Echo
	manager *services.LifecycleManager
	now     time.Time
}

// newFixture serves a manager persisting to in-memory SQLite with ORD-001 and ORD-002
// registered. The clock reads fixture.now.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.OpenSQLite(t)
	journal := commands.NewTransitionJournal(uowFactory{factory: gormstore.NewGormUnitOfWorkFactory(db)})
	manager := services.NewLifecycleManager(services.WithCommitters(journal))

	for i, id := range []string{"ORD-001", "ORD-002"} {
		o := testutil.NewOrder(t, id, testutil.AssignedAt.Add(time.Duration(i)*time.Hour))
		require.NoError(t, manager.Register(t.Context(), o))
	}

	f := &fixture{manager: manager, now: testutil.AssignedAt.Add(3 * time.Hour)}
	server := NewServer(Handlers{
		RegisterDelivery:       commands.NewRegisterDeliveryCommandHandler(manager),
		AdvanceDelivery:        commands.NewAdvanceDeliveryCommandHandler(manager, nil),
		GetActiveDeliveries:    queries.NewGetActiveDeliveriesQueryHandler(manager),
		GetCompletedDeliveries: queries.NewGetCompletedDeliveriesQueryHandler(manager),
		GetDelivery:            queries.NewGetDeliveryQueryHandler(manager),
		GetDeliveryBoard:       queries.NewGetDeliveryBoardQueryHandler(manager),
		GetDeliveryHistory:     queries.NewGetDeliveryHistoryQueryHandler(db),
	}, slog.Default(), WithClock(func() time.Time { return f.now }))

	doc, err := LoadOpenAPI(t.Context())
	require.NoError(t, err)
	f.echo, err = NewRouter(server, doc)
	require.NoError(t, err)
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestServer_GetActiveDeliveries(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/deliveries/active", "")

	require.Equal(t, http.StatusOK, rec.Code)
	deliveries := decode[[]Delivery](t, rec)
	require.Len(t, deliveries, 2)
	assert.Equal(t, "ORD-001", deliveries[0].ID)
	assert.Equal(t, "ORD-002", deliveries[1].ID)

	first := deliveries[0]
	assert.Equal(t, "John Doe", first.Customer.Name)
	assert.Equal(t, "34.97", first.Total)
	assert.Equal(t, []Item{
		{ID: "P1", Name: "Paracetamol 500mg", Quantity: 2},
		{ID: "P2", Name: "Vitamin C 1000mg", Quantity: 1},
	}, first.Items)
	assert.Equal(t, "assigned", first.Status)
	assert.Equal(t, "Assigned to you", first.StatusLabel)
	assert.Equal(t, "info", first.Badge)
	assert.Equal(t, "clock", first.Icon)
	assert.Equal(t, "picked_up", first.NextStatus)
	assert.Equal(t, "Mark as Picked Up", first.NextLabel)
	assert.Equal(t, "truck", first.NextIcon)
	assert.True(t, testutil.AssignedAt.Equal(first.AssignedAt))
	assert.Nil(t, first.PickedUpAt)
}

func TestServer_AdvanceDelivery(t *testing.T) {
	t.Run("should move the delivery to the next status stamped with the server clock", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/deliveries/ORD-001/advance", `{"status":"picked_up"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		delivery := decode[Delivery](t, rec)
		assert.Equal(t, "picked_up", delivery.Status)
		assert.Equal(t, "Picked Up", delivery.StatusLabel)
		assert.Equal(t, "in_transit", delivery.NextStatus)
		require.NotNil(t, delivery.PickedUpAt)
		assert.True(t, f.now.Equal(*delivery.PickedUpAt))
	})

	t.Run("should answer 409 with the legal next status when a step is skipped", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/deliveries/ORD-001/advance", `{"status":"delivered"}`)

		require.Equal(t, http.StatusConflict, rec.Code)
		body := decode[TransitionError](t, rec)
		assert.Equal(t, http.StatusConflict, body.Code)
		assert.Equal(t, "assigned", body.CurrentStatus)
		assert.Equal(t, "picked_up", body.NextStatus)
	})

	t.Run("should answer 409 without next status for a delivered order", func(t *testing.T) {
		f := newFixture(t)
		for _, status := range []string{"picked_up", "in_transit", "delivered"} {
			rec := f.do(t, http.MethodPost, "/api/v1/deliveries/ORD-001/advance", `{"status":"`+status+`"}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		}

		rec := f.do(t, http.MethodPost, "/api/v1/deliveries/ORD-001/advance", `{"status":"delivered"}`)

		require.Equal(t, http.StatusConflict, rec.Code)
		body := decode[TransitionError](t, rec)
		assert.Equal(t, "delivered", body.CurrentStatus)
		assert.Empty(t, body.NextStatus)
	})

	t.Run("should answer 404 for an unknown order", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/deliveries/ORD-999/advance", `{"status":"picked_up"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, 2, f.manager.Stats().Active)
	})

	t.Run("should answer 400 for a status outside the lifecycle", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/deliveries/ORD-001/advance", `{"status":"shipped"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		o, err := f.manager.Find(kernel.MustOrderID("ORD-001"))
		require.NoError(t, err)
		assert.Equal(t, "assigned", o.Status().Code())
	})
}

func TestServer_CompletedAndBoard(t *testing.T) {
	f := newFixture(t)
	for _, status := range []string{"picked_up", "in_transit", "delivered"} {
		f.now = f.now.Add(10 * time.Minute)
		rec := f.do(t, http.MethodPost, "/api/v1/deliveries/ORD-002/advance", `{"status":"`+status+`"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := f.do(t, http.MethodGet, "/api/v1/deliveries/completed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	completed := decode[[]Delivery](t, rec)
	require.Len(t, completed, 1)
	assert.Equal(t, "ORD-002", completed[0].ID)
	assert.Equal(t, "success", completed[0].Badge)
	assert.Equal(t, "check-check", completed[0].Icon)
	assert.Empty(t, completed[0].NextStatus)
	require.NotNil(t, completed[0].DeliveredAt)
	assert.True(t, f.now.Equal(*completed[0].DeliveredAt))

	rec = f.do(t, http.MethodGet, "/api/v1/deliveries/board", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, Board{
		ActiveCount:    1,
		CompletedCount: 1,
		ActiveLabel:    "Active Deliveries (1)",
		CompletedLabel: "Completed (1)",
	}, decode[Board](t, rec))

	rec = f.do(t, http.MethodGet, "/api/v1/deliveries/ORD-002", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "delivered", decode[Delivery](t, rec).Status)
}

func TestServer_RegisterDelivery(t *testing.T) {
	t.Run("should register an assigned delivery", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/deliveries", `{
			"id": "ORD-003",
			"customer": {"name": "Bob Johnson", "address": "789 Pine Rd", "phone": "(555) 123-4567"},
			"items": [{"id": "P5", "name": "Allergy Relief", "quantity": 1}],
			"total": "19.99"
		}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		delivery := decode[Delivery](t, rec)
		assert.Equal(t, "ORD-003", delivery.ID)
		assert.Equal(t, "assigned", delivery.Status)
		assert.Equal(t, "19.99", delivery.Total)
		assert.True(t, f.now.Equal(delivery.AssignedAt))
		assert.Equal(t, 3, f.manager.Stats().Active)
	})

	t.Run("should generate an id when none is given", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/deliveries", `{
			"customer": {"name": "Bob Johnson", "address": "789 Pine Rd", "phone": "(555) 123-4567"},
			"items": [{"id": "P5", "name": "Allergy Relief", "quantity": 1}],
			"total": "19.99",
			"assigned_at": "2023-05-15T08:15:00Z"
		}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		delivery := decode[Delivery](t, rec)
		assert.True(t, strings.HasPrefix(delivery.ID, "ORD-"))
		assert.True(t, time.Date(2023, 5, 15, 8, 15, 0, 0, time.UTC).Equal(delivery.AssignedAt))
	})

	t.Run("should reject a request without items", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/deliveries", `{
			"customer": {"name": "Bob Johnson", "address": "789 Pine Rd", "phone": "(555) 123-4567"},
			"items": [],
			"total": "19.99"
		}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 2, f.manager.Stats().Active)
	})

	t.Run("should reject a duplicate id", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/v1/deliveries", `{
			"id": "ORD-001",
			"customer": {"name": "Bob Johnson", "address": "789 Pine Rd", "phone": "(555) 123-4567"},
			"items": [{"id": "P5", "name": "Allergy Relief", "quantity": 1}],
			"total": "19.99"
		}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 2, f.manager.Stats().Active)
	})
}

func TestServer_RegisterDelivery_Limits(t *testing.T) {
	const customer = `"customer": {"name": "Bob Johnson", "address": "789 Pine Rd", "phone": "(555) 123-4567"}`
	const items = `"items": [{"id": "P5", "name": "Allergy Relief", "quantity": 1}]`

	t.Run("should reject ids taken by the delivery listings", func(t *testing.T) {
		f := newFixture(t)

		for _, id := range []string{"active", "completed", "board"} {
			rec := f.do(t, http.MethodPost, "/api/v1/deliveries",
				`{"id": "`+id+`", `+customer+`, `+items+`, "total": "19.99"}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		}
		assert.Equal(t, 2, f.manager.Stats().Active)

		rec := f.do(t, http.MethodGet, "/api/v1/deliveries/board", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, decode[Board](t, rec).ActiveCount)
	})

	t.Run("should reject an assignment time ahead of the server clock", func(t *testing.T) {
		f := newFixture(t)
		future := f.now.Add(48 * time.Hour).Format(time.RFC3339)

		rec := f.do(t, http.MethodPost, "/api/v1/deliveries",
			`{"id": "ORD-F", `+customer+`, `+items+`, "total": "19.99", "assigned_at": "`+future+`"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[Error](t, rec).Message, "assigned_at")
		assert.Equal(t, 2, f.manager.Stats().Active)
	})

	t.Run("should stamp later transitions with the server clock after a slightly early assignment", func(t *testing.T) {
		f := newFixture(t)
		skewed := f.now.Add(30 * time.Second).Format(time.RFC3339)

		rec := f.do(t, http.MethodPost, "/api/v1/deliveries",
			`{"id": "ORD-S", `+customer+`, `+items+`, "total": "19.99", "assigned_at": "`+skewed+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		f.now = f.now.Add(time.Hour)
		rec = f.do(t, http.MethodPost, "/api/v1/deliveries/ORD-S/advance", `{"status":"picked_up"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		delivery := decode[Delivery](t, rec)
		require.NotNil(t, delivery.PickedUpAt)
		assert.True(t, f.now.Equal(*delivery.PickedUpAt))
	})

	t.Run("should reject values that do not fit storage", func(t *testing.T) {
		f := newFixture(t)
		longID := strings.Repeat("P", 65)

		bodies := []string{
			`{` + customer + `, "items": [{"id": "` + longID + `", "name": "Allergy Relief", "quantity": 1}], "total": "19.99"}`,
			`{` + customer + `, "items": [{"id": "P5", "name": "` + strings.Repeat("n", 257) + `", "quantity": 1}], "total": "19.99"}`,
			`{` + customer + `, ` + items + `, "total": "99999999999999"}`,
		}
		for _, body := range bodies {
			rec := f.do(t, http.MethodPost, "/api/v1/deliveries", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		}
		assert.Equal(t, 2, f.manager.Stats().Active)
	})
}

func TestServer_GetDelivery(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/deliveries/ORD-404", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decode[Error](t, rec).Code)
}

func TestServer_GetDeliveryHistory(t *testing.T) {
	f := newFixture(t)
	f.now = testutil.AssignedAt.Add(15 * time.Minute)
	rec := f.do(t, http.MethodPost, "/api/v1/deliveries/ORD-001/advance", `{"status":"picked_up"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/deliveries/ORD-001/history", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	history := decode[[]HistoryEntry](t, rec)
	require.Len(t, history, 2)
	assert.Empty(t, history[0].From)
	assert.Equal(t, "assigned", history[0].To)
	assert.True(t, testutil.AssignedAt.Equal(history[0].At))
	assert.Equal(t, "assigned", history[1].From)
	assert.Equal(t, "picked_up", history[1].To)
	assert.True(t, f.now.Equal(history[1].At))

	rec = f.do(t, http.MethodGet, "/api/v1/deliveries/ORD-404/history", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// Package http exposes the delivery board over a REST API served by echo.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"rxdelivery/internal/core/application/usecases/commands"
	"rxdelivery/internal/core/application/usecases/queries"
	"rxdelivery/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// maxAssignedAtSkew is how far a caller's assigned_at may run ahead of the server clock.
const maxAssignedAtSkew = time.Minute

// Server maps HTTP requests onto the delivery use cases.
type Server struct {
	// Command handlers
	registerDeliveryHandler commands.RegisterDeliveryCommandHandler
	advanceDeliveryHandler  commands.AdvanceDeliveryCommandHandler

	// Query handlers
	getActiveDeliveriesHandler    queries.GetActiveDeliveriesQueryHandler
	getCompletedDeliveriesHandler queries.GetCompletedDeliveriesQueryHandler
	getDeliveryHandler            queries.GetDeliveryQueryHandler
	getDeliveryBoardHandler       queries.GetDeliveryBoardQueryHandler
	getDeliveryHistoryHandler     queries.GetDeliveryHistoryQueryHandler

	now    func() time.Time
	logger *slog.Logger
}

// Handlers groups the use cases the server depends on.
type Handlers struct {
	RegisterDelivery       commands.RegisterDeliveryCommandHandler
	AdvanceDelivery        commands.AdvanceDeliveryCommandHandler
	GetActiveDeliveries    queries.GetActiveDeliveriesQueryHandler
	GetCompletedDeliveries queries.GetCompletedDeliveriesQueryHandler
	GetDelivery            queries.GetDeliveryQueryHandler
	GetDeliveryBoard       queries.GetDeliveryBoardQueryHandler
	GetDeliveryHistory     queries.GetDeliveryHistoryQueryHandler
}

type ServerOption func(*Server)

// WithClock replaces the clock that timestamps status changes.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		s.now = now
	}
}

func NewServer(handlers Handlers, logger *slog.Logger, opts ...ServerOption) *Server {
	s := &Server{
		registerDeliveryHandler:       handlers.RegisterDelivery,
		advanceDeliveryHandler:        handlers.AdvanceDelivery,
		getActiveDeliveriesHandler:    handlers.GetActiveDeliveries,
		getCompletedDeliveriesHandler: handlers.GetCompletedDeliveries,
		getDeliveryHandler:            handlers.GetDelivery,
		getDeliveryBoardHandler:       handlers.GetDeliveryBoard,
		getDeliveryHistoryHandler:     handlers.GetDeliveryHistory,
		now:                           time.Now,
		logger:                        logger.With("component", "http"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// GetActiveDeliveries handles GET /api/v1/deliveries/active.
func (s *Server) GetActiveDeliveries(ctx echo.Context) error {
	views, err := s.getActiveDeliveriesHandler.Handle(ctx.Request().Context(), queries.NewGetActiveDeliveriesQuery())
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve active deliveries")
	}
	return ctx.JSON(http.StatusOK, toDeliveries(views))
}

// GetCompletedDeliveries handles GET /api/v1/deliveries/completed.
func (s *Server) GetCompletedDeliveries(ctx echo.Context) error {
	views, err := s.getCompletedDeliveriesHandler.Handle(
		ctx.Request().Context(), queries.NewGetCompletedDeliveriesQuery())
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve completed deliveries")
	}
	return ctx.JSON(http.StatusOK, toDeliveries(views))
}

// GetDeliveryBoard handles GET /api/v1/deliveries/board.
func (s *Server) GetDeliveryBoard(ctx echo.Context) error {
	view, err := s.getDeliveryBoardHandler.Handle(ctx.Request().Context(), queries.NewGetDeliveryBoardQuery())
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve delivery board")
	}
	return ctx.JSON(http.StatusOK, toBoard(view))
}

// RegisterDelivery handles POST /api/v1/deliveries.
func (s *Server) RegisterDelivery(ctx echo.Context) error {
	var body NewDelivery
	if err := ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	now := s.now()
	assignedAt := now
	if body.AssignedAt != nil {
		if body.AssignedAt.After(now.Add(maxAssignedAtSkew)) {
			return errorResponse(ctx, http.StatusBadRequest,
				"Invalid delivery data: assigned_at is later than the server clock")
		}
		assignedAt = *body.AssignedAt
	}

	cmd, err := commands.NewRegisterDeliveryCommand(
		body.ID,
		body.Customer.Name,
		body.Customer.Address,
		body.Customer.Phone,
		body.itemInputs(),
		body.Total,
		assignedAt,
	)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid delivery data: "+err.Error())
	}

	o, err := s.registerDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err, "Failed to register delivery")
	}
	return ctx.JSON(http.StatusCreated, toDelivery(queries.NewDeliveryView(o)))
}

// GetDelivery handles GET /api/v1/deliveries/:orderId.
func (s *Server) GetDelivery(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetDeliveryQuery(orderID)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	view, err := s.getDeliveryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve delivery")
	}
	return ctx.JSON(http.StatusOK, toDelivery(view))
}

// AdvanceDelivery handles POST /api/v1/deliveries/:orderId/advance. The transition is
// stamped with the server clock.
func (s *Server) AdvanceDelivery(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	var body AdvanceRequest
	if err := ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	target, err := order.ParseStatus(body.Status)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewAdvanceDeliveryCommand(orderID, target, s.now())
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	o, err := s.advanceDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err, "Failed to advance delivery")
	}
	return ctx.JSON(http.StatusOK, toDelivery(queries.NewDeliveryView(o)))
}

// GetDeliveryHistory handles GET /api/v1/deliveries/:orderId/history.
func (s *Server) GetDeliveryHistory(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	query, err := queries.NewGetDeliveryHistoryQuery(orderID)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	entries, err := s.getDeliveryHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err, "Failed to retrieve delivery history")
	}
	return ctx.JSON(http.StatusOK, toHistory(entries))
}

func bindOrderID(ctx echo.Context) (string, error) {
	var orderID string
	err := runtime.BindStyledParameterWithLocation(
		"simple", false, "orderId", runtime.ParamLocationPath, ctx.Param("orderId"), &orderID)
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter orderId: %w", err)
	}
	return orderID, nil
}

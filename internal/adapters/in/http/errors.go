package http

import (
	"errors"
	"net/http"

	"rxdelivery/internal/core/domain/model/order"
	"rxdelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func errorResponse(c echo.Context, code int, message string) error {
	return c.JSON(code, Error{Code: code, Message: message})
}

// writeError maps domain and validation errors to HTTP statuses:
// unknown delivery 404, illegal transition 409, invalid input 400, anything else 500.
// Internal error details are logged, not returned.
func (s *Server) writeError(c echo.Context, err error, failure string) error {
	var transitionErr *order.IllegalTransitionError
	switch {
	case errors.As(err, &transitionErr):
		return c.JSON(http.StatusConflict, toTransitionError(http.StatusConflict, transitionErr))
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		s.logger.ErrorContext(c.Request().Context(), failure, "error", err)
		return errorResponse(c, http.StatusInternalServerError, failure)
	}
}

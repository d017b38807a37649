package http

import (
	"log/slog"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewRouter builds the echo instance serving s: access log, panic recovery, request
// validation against doc, the API routes and the Swagger UI.
func NewRouter(s *Server, doc *openapi3.T) (*echo.Echo, error) {
	validator, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}
	if err := RegisterSwaggerDoc(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(accessLogConfig(s.logger)))
	e.Use(middleware.Recover())
	e.Use(validator)

	e.GET("/health", s.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1/deliveries")
	api.POST("", s.RegisterDelivery)
	api.GET("/active", s.GetActiveDeliveries)
	api.GET("/completed", s.GetCompletedDeliveries)
	api.GET("/board", s.GetDeliveryBoard)
	api.GET("/:orderId", s.GetDelivery)
	api.POST("/:orderId/advance", s.AdvanceDelivery)
	api.GET("/:orderId/history", s.GetDeliveryHistory)

	return e, nil
}

func accessLogConfig(logger *slog.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				logger.LogAttrs(c.Request().Context(), slog.LevelError, "request failed", attrs...)
				return nil
			}
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	}
}

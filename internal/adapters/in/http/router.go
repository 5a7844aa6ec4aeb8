package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"dispatch/internal/adapters/in/http/openapi"
	"dispatch/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig tunes the ambient middleware.
type RouterConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         *slog.Logger
}

// NewRouter builds the echo instance: operation routes behind document validation, shop
// parsing and per-shop throttling, plus /health, /metrics and /swagger.
func NewRouter(server *Server, cfg RouterConfig) (*echo.Echo, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := openapi.Load()
	if err != nil {
		return nil, err
	}
	validator, err := openapi.RequestValidator(doc, func(c echo.Context, err error) error {
		return badRequest(c, err.Error())
	})
	if err != nil {
		return nil, err
	}
	if err = openapi.Register(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	limiter := NewShopRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	RegisterHandlers(e, server, Tracing(), validator, ShopContext(), limiter.Middleware())

	return e, nil
}

func httpErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			message = fmt.Sprint(he.Message)
		} else {
			logger.ErrorContext(c.Request().Context(), "unhandled error", "path", c.Path(), "error", err)
		}

		if writeErr := c.JSON(status, Error{Code: status, Message: message}); writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", writeErr)
		}
	}
}

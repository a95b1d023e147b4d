package config

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// HTTPRecorder observes finished requests. *metrics.Metrics satisfies it.
type HTTPRecorder interface {
	RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration)
}

func SetupMiddleware(e *echo.Echo, logger *zap.SugaredLogger, recorder HTTPRecorder) {
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if recorder != nil {
				path := c.Path()
				if path == "" {
					path = "unmatched"
				}
				recorder.RecordHTTPRequest(c.Request().Context(), v.Method, path, v.Status, v.Latency)
			}

			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				logger.Warnw("request", append(fields, "error", v.Error)...)
				return nil
			}
			logger.Infow("request", fields...)
			return nil
		},
	}))
}

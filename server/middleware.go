package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gaborage/go-bricks-actionlog/interceptor"
	"github.com/gaborage/go-bricks-actionlog/logger"
	"github.com/gaborage/go-bricks-actionlog/trace"
)

// SetupMiddlewares configures and registers the HTTP middlewares for the Echo server:
// request id correlation, panic recovery and route actions.
func SetupMiddlewares(e *echo.Echo, log logger.Logger, ic *interceptor.Interceptor) {
	// Request ID, before any action is started so every action log carries it
	e.Use(RequestID())

	// Recovery
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error().
				Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Bytes("stack", stack).
				Msg("Panic recovered")
			return err
		},
	}))

	// Route actions
	e.Use(Action(ic))
}

// RequestID resolves the request id from the X-Request-ID header or generates one,
// echoes it in the response and stores it in the request context.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx, requestID := trace.EnsureRequestID(req.Context(), req.Header.Get(trace.HeaderXRequestID))

			c.Response().Header().Set(trace.HeaderXRequestID, requestID)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

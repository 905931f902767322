// Package server provides the echo HTTP server whose routes are logged as actions.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/go-bricks-actionlog/config"
	"github.com/gaborage/go-bricks-actionlog/interceptor"
	"github.com/gaborage/go-bricks-actionlog/logger"
)

// Server wraps an echo instance configured with the action middlewares.
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger logger.Logger
}

// New creates a server whose routes are intercepted by ic.
func New(cfg *config.Config, log logger.Logger, ic *interceptor.Interceptor) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	SetupMiddlewares(e, log, ic)

	return &Server{
		echo:   e,
		cfg:    cfg,
		logger: log,
	}
}

// Echo returns the underlying echo instance for route registration.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.logger.Info().
		Str("service", s.cfg.App.Name).
		Str("version", s.cfg.App.Version).
		Str("env", s.cfg.App.Env).
		Str("address", addr).
		Msg("Starting server...")

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

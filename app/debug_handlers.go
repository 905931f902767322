package app

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/go-bricks-actionlog/config"
	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/interceptor"
	"github.com/gaborage/go-bricks-actionlog/logger"
)

// DebugResponse represents a standard debug endpoint response
type DebugResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Duration  string    `json:"duration"`
	Data      any       `json:"data"`
	Error     string    `json:"error,omitempty"`
}

// TypeInfo describes a registered type and how its methods are logged.
type TypeInfo struct {
	Name     string       `json:"name"`
	Sealed   bool         `json:"sealed,omitempty"`
	Eligible bool         `json:"eligible"`
	Methods  []MethodInfo `json:"methods"`
}

// MethodInfo describes one method of a registered type.
type MethodInfo struct {
	Name      string   `json:"name"`
	Eligible  bool     `json:"eligible"`
	Logged    bool     `json:"logged"`
	Action    string   `json:"action,omitempty"`
	Level     string   `json:"level,omitempty"`
	Nestable  bool     `json:"nestable,omitempty"`
	Params    []string `json:"params,omitempty"`
	Sensitive []string `json:"sensitive,omitempty"`
}

// DebugHandlers manages debug endpoints
type DebugHandlers struct {
	app    *App
	config *config.DebugConfig
	logger logger.Logger
}

// NewDebugHandlers creates a new debug handlers instance
func NewDebugHandlers(app *App, cfg *config.DebugConfig, log logger.Logger) *DebugHandlers {
	return &DebugHandlers{
		app:    app,
		config: cfg,
		logger: log,
	}
}

// RegisterDebugEndpoints registers the action descriptor endpoints if enabled
func (d *DebugHandlers) RegisterDebugEndpoints(e *echo.Echo) {
	if !d.config.Enabled {
		d.logger.Info().Msg("Debug endpoints disabled")
		return
	}

	debugGroup := e.Group(d.config.Path)
	if d.config.BearerToken != "" {
		debugGroup.Use(d.authMiddleware())
	}

	debugGroup.GET("/actions", d.handleActions)
	debugGroup.GET("/actions/:type", d.handleActionType)

	d.logger.Info().
		Str("prefix", d.config.Path).
		Msgf("Debug endpoints registered (auth_enabled=%t)", d.config.BearerToken != "")
}

// authMiddleware provides bearer token authentication
func (d *DebugHandlers) authMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Bearer token required")
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(token), []byte(d.config.BearerToken)) != 1 {
				d.logger.Warn().Str("client_ip", c.RealIP()).Msg("Debug endpoint access denied: invalid token")
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			return next(c)
		}
	}
}

// newDebugResponse creates a standardized debug response
func (d *DebugHandlers) newDebugResponse(start time.Time, data any, err error) *DebugResponse {
	resp := &DebugResponse{
		Timestamp: start,
		Duration:  time.Since(start).String(),
		Data:      data,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// handleActions lists every registered type with its logged methods
func (d *DebugHandlers) handleActions(c echo.Context) error {
	start := time.Now()

	types := d.app.registry.Types()
	infos := make([]TypeInfo, 0, len(types))
	for _, t := range types {
		infos = append(infos, d.describe(t))
	}

	return c.JSON(http.StatusOK, d.newDebugResponse(start, infos, nil))
}

// handleActionType describes a single registered type by name
func (d *DebugHandlers) handleActionType(c echo.Context) error {
	start := time.Now()
	name := c.Param("type")

	for _, t := range d.app.registry.Types() {
		if t.Name == name {
			return c.JSON(http.StatusOK, d.newDebugResponse(start, d.describe(t), nil))
		}
	}

	return c.JSON(http.StatusNotFound, d.newDebugResponse(start, nil, echo.NewHTTPError(http.StatusNotFound, "unknown type "+name)))
}

func (d *DebugHandlers) describe(t *descriptor.Type) TypeInfo {
	info := TypeInfo{
		Name:     t.Name,
		Sealed:   t.Sealed,
		Eligible: interceptor.IsEligible(t),
		Methods:  make([]MethodInfo, 0, len(t.Methods)),
	}

	for _, m := range t.Methods {
		mi := MethodInfo{Name: m.Name, Eligible: m.Eligible()}
		if eff, ok := m.Effective(); ok {
			mi.Logged = true
			mi.Action = d.app.ActionName(m)
			mi.Level = eff.Level.String()
			mi.Nestable = eff.Nestable
		}
		for _, p := range m.Params {
			if p.IsSensitive() {
				mi.Sensitive = append(mi.Sensitive, p.Name)
				continue
			}
			mi.Params = append(mi.Params, p.Name)
		}
		info.Methods = append(info.Methods, mi)
	}
	return info
}

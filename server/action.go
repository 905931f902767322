package server

import (
	"context"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/interceptor"
)

// DefaultRouteTypeName is the type name routes are logged under, giving actions such as
// "HTTP::GET /users/:id".
const DefaultRouteTypeName = "HTTP"

// ActionConfig configures ActionWithConfig.
type ActionConfig struct {
	// Skipper defines a function to skip the middleware.
	Skipper middleware.Skipper

	// TypeName is the declaring type name of route methods. Default: "HTTP".
	TypeName string

	// Descriptor applies to every route. Default: the zero descriptor.
	Descriptor descriptor.Descriptor
}

// Action turns every matched route into an action with the default configuration.
func Action(ic *interceptor.Interceptor) echo.MiddlewareFunc {
	return ActionWithConfig(ic, ActionConfig{})
}

// ActionWithConfig turns every matched route into an action. Path parameters are logged
// as parameters and the response status as the return value. Handler errors are logged
// as throws and returned to echo unchanged.
func ActionWithConfig(ic *interceptor.Interceptor, cfg ActionConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = middleware.DefaultSkipper
	}
	if cfg.TypeName == "" {
		cfg.TypeName = DefaultRouteTypeName
	}
	routes := &routeMethods{cfg: cfg}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) || c.Path() == "" {
				return next(c)
			}

			m, err := routes.method(c.Request().Method, c.Path(), c.ParamNames())
			if err != nil {
				return next(c)
			}

			args := make([]any, 0, len(m.Params))
			for _, p := range m.Params {
				args = append(args, c.Param(p.Name))
			}

			_, err = ic.Invoke(c.Request().Context(), interceptor.Invocation{
				Method: m,
				Args:   args,
				Proceed: func(ctx context.Context) (any, error) {
					c.SetRequest(c.Request().WithContext(ctx))
					if err := next(c); err != nil {
						return nil, err
					}
					return c.Response().Status, nil
				},
			})
			return err
		}
	}
}

// routeMethods defines one method per route on first use and reuses it afterwards.
type routeMethods struct {
	cfg     ActionConfig
	methods sync.Map // "<VERB> <path>" -> *descriptor.Method
}

func (r *routeMethods) method(verb, path string, paramNames []string) (*descriptor.Method, error) {
	name := verb + " " + path
	if m, ok := r.methods.Load(name); ok {
		return m.(*descriptor.Method), nil
	}

	params := make([]descriptor.Param, 0, len(paramNames))
	for _, p := range paramNames {
		params = append(params, descriptor.Param{Name: p})
	}
	d := r.cfg.Descriptor
	m := &descriptor.Method{Name: name, Params: params}
	if _, err := descriptor.Define(&descriptor.Type{
		Name:       r.cfg.TypeName,
		Descriptor: &d,
		Methods:    []*descriptor.Method{m},
	}); err != nil {
		return nil, err
	}

	actual, _ := r.methods.LoadOrStore(name, m)
	return actual.(*descriptor.Method), nil
}

// Package app is the composition root: it assembles the action name resolver chain and
// the log writer chain in precedence order, builds the interceptor and substitutes
// decorated instances for eligible services.
package app

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gaborage/go-bricks-actionlog/action"
	"github.com/gaborage/go-bricks-actionlog/config"
	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/interceptor"
	"github.com/gaborage/go-bricks-actionlog/internal/reflection"
	"github.com/gaborage/go-bricks-actionlog/logger"
	"github.com/gaborage/go-bricks-actionlog/observability"
	"github.com/gaborage/go-bricks-actionlog/writer"
)

// App holds the assembled action logging pipeline.
type App struct {
	cfg         *config.Config
	logger      logger.Logger
	registry    *descriptor.Registry
	names       *action.Chain
	writers     *writer.Chain
	interceptor *interceptor.Interceptor
	checker     *interceptor.Checker
	telemetry   observability.Provider
}

// New assembles the pipeline from cfg. Wiring problems (invalid configuration, unknown
// action log format, no log writer) are returned here rather than on the first call.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}

	log := o.Logger
	if log == nil {
		log = logger.New(cfg.Log.Level, cfg.Log.Pretty)
	}
	registry := o.Registry
	if registry == nil {
		registry = descriptor.DefaultRegistry
	}

	telemetry, err := newTelemetry(cfg, o)
	if err != nil {
		return nil, err
	}

	writers, err := buildWriterChain(cfg, o, log)
	if err != nil {
		_ = observability.Shutdown(telemetry, 0)
		return nil, err
	}
	names := action.NewChain(o.NameResolvers...)

	ic, err := interceptor.New(names, writers)
	if err != nil {
		_ = observability.Shutdown(telemetry, 0)
		return nil, err
	}

	log.Info().
		Str("format", cfg.ActionLog.Format).
		Int("name_resolvers", names.Len()).
		Int("log_writers", writers.Len()).
		Interface("metrics_export", telemetry != nil).
		Msg("Action logging initialized")

	return &App{
		cfg:         cfg,
		logger:      log,
		registry:    registry,
		names:       names,
		writers:     writers,
		interceptor: ic,
		checker:     interceptor.NewChecker(registry),
		telemetry:   telemetry,
	}, nil
}

// newTelemetry creates the metric export pipeline when action metrics are on, export is
// enabled and no meter provider was supplied. It sets o.MeterProvider.
func newTelemetry(cfg *config.Config, o *Options) (observability.Provider, error) {
	if !cfg.ActionLog.Metrics || !cfg.Observability.Enabled || o.MeterProvider != nil {
		return nil, nil
	}
	p, err := observability.NewProvider(cfg.Observability, observability.Service{
		Name:        cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics export: %w", err)
	}
	o.MeterProvider = p.MeterProvider()
	return p, nil
}

// Shutdown flushes and stops the metric export pipeline, if the app created one.
func (a *App) Shutdown(ctx context.Context) error {
	if a.telemetry == nil {
		return nil
	}
	return a.telemetry.Shutdown(ctx)
}

// buildWriterChain orders custom writers first and the default writer last.
func buildWriterChain(cfg *config.Config, o *Options, log logger.Logger) (*writer.Chain, error) {
	writers := make([]writer.LogWriter, 0, len(o.LogWriters)+1)
	writers = append(writers, o.LogWriters...)

	if !o.DisableDefaultWriter {
		resolver, err := writer.NewActionLogResolver(cfg.ActionLog.Format)
		if err != nil {
			ce := config.NewInvalidFieldError("actionlog.format", err.Error(),
				[]string{config.FormatConsole, config.FormatStructured})
			ce.Cause = err
			return nil, ce
		}

		var def writer.LogWriter = writer.NewDefaultLogWriter(log, resolver)
		if cfg.ActionLog.Metrics {
			metered, err := writer.NewMeteredLogWriter(def, o.MeterProvider)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize action metrics: %w", err)
			}
			def = metered
		}
		writers = append(writers, def)
	}

	chain, err := writer.NewChain(writers...)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble log writers: %w", err)
	}
	return chain, nil
}

// Config returns the configuration the app was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the application logger.
func (a *App) Logger() logger.Logger { return a.logger }

// Registry returns the descriptor table used for eligibility checks.
func (a *App) Registry() *descriptor.Registry { return a.registry }

// Interceptor returns the interceptor decorators route their calls through.
func (a *App) Interceptor() *interceptor.Interceptor { return a.interceptor }

// Checker returns the eligibility checker.
func (a *App) Checker() *interceptor.Checker { return a.checker }

// ActionName returns the action name calls of m are logged under.
func (a *App) ActionName(m *descriptor.Method) string {
	if d, ok := m.Effective(); ok && d.HasAction() {
		return d.Action
	}
	return a.names.Resolve(m)
}

// Provide returns the instance callers should use in place of target: the result of wrap
// when target needs action logging, target itself otherwise. Call it once per service at
// construction time.
func Provide[T any](a *App, target T, wrap func(ic *interceptor.Interceptor, next T) T) T {
	typeName := reflection.GetTypeName(reflect.TypeOf(any(target)))
	if !a.checker.NeedsWrapping(any(target)) {
		a.logger.Debug().Str("type", typeName).Msg("Service not eligible for action logging")
		return target
	}
	a.logger.Debug().Str("type", typeName).Msg("Service wrapped for action logging")
	return wrap(a.interceptor, target)
}

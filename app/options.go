package app

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/gaborage/go-bricks-actionlog/action"
	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/logger"
	"github.com/gaborage/go-bricks-actionlog/writer"
)

// Options contains optional dependencies for creating an App instance
type Options struct {
	Logger        logger.Logger
	Registry      *descriptor.Registry
	NameResolvers []action.NameResolver
	LogWriters    []writer.LogWriter
	MeterProvider metric.MeterProvider

	// DisableDefaultWriter removes the always-supporting default writer from the chain.
	// Methods no custom writer supports are then not logged at all.
	DisableDefaultWriter bool
}

// Option configures Options.
type Option func(*Options)

// WithLogger replaces the logger built from the log configuration.
func WithLogger(l logger.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithRegistry uses r instead of descriptor.DefaultRegistry.
func WithRegistry(r *descriptor.Registry) Option {
	return func(o *Options) { o.Registry = r }
}

// WithNameResolvers appends custom action name resolvers in precedence order. The
// default resolver is always consulted last.
func WithNameResolvers(resolvers ...action.NameResolver) Option {
	return func(o *Options) { o.NameResolvers = append(o.NameResolvers, resolvers...) }
}

// WithLogWriters appends custom log writers in precedence order. They are consulted
// before the default writer.
func WithLogWriters(writers ...writer.LogWriter) Option {
	return func(o *Options) { o.LogWriters = append(o.LogWriters, writers...) }
}

// WithoutDefaultWriter removes the default writer from the chain.
func WithoutDefaultWriter() Option {
	return func(o *Options) { o.DisableDefaultWriter = true }
}

// WithMeterProvider sets the provider for action counters when metrics are enabled.
func WithMeterProvider(p metric.MeterProvider) Option {
	return func(o *Options) { o.MeterProvider = p }
}

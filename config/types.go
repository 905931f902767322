// Package config loads and validates the application configuration with koanf:
// built-in defaults, an optional YAML file and environment variables.
package config

import (
	"github.com/knadh/koanf/v2"

	"github.com/gaborage/go-bricks-actionlog/observability"
)

// Config represents the overall application configuration structure.
// The embedded koanf.Koanf instance allows for flexible access to
// additional custom configurations not explicitly defined in the struct.
type Config struct {
	App       AppConfig       `koanf:"app" json:"app" yaml:"app"`
	Server    ServerConfig    `koanf:"server" json:"server" yaml:"server"`
	Log       LogConfig       `koanf:"log" json:"log" yaml:"log"`
	ActionLog ActionLogConfig `koanf:"actionlog" json:"actionlog" yaml:"actionlog"`
	Debug     DebugConfig     `koanf:"debug" json:"debug" yaml:"debug"`

	// Observability configures export of the action metrics enabled by actionlog.metrics.
	Observability observability.Config `koanf:"observability" json:"observability" yaml:"observability"`

	// k holds the underlying Koanf instance for flexible access to custom configurations
	k *koanf.Koanf `json:"-" yaml:"-"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" validate:"required"`
	Version string `koanf:"version" json:"version" yaml:"version" validate:"required"`
	Env     string `koanf:"env" json:"env" yaml:"env" validate:"oneof=development staging production"`
}

// ServerConfig holds the HTTP listener settings used by the demo server.
type ServerConfig struct {
	Host string `koanf:"host" json:"host" yaml:"host"`
	Port int    `koanf:"port" json:"port" yaml:"port" validate:"min=1,max=65535"`
}

// LogConfig holds logging backend settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// ActionLogConfig selects how action logs are rendered.
type ActionLogConfig struct {
	// Format is "console" (default) or "structured".
	Format string `koanf:"format" json:"format" yaml:"format"`

	// Metrics counts action events with OpenTelemetry counters.
	Metrics bool `koanf:"metrics" json:"metrics" yaml:"metrics"`
}

// DebugConfig controls the debug endpoint listing registered action descriptors.
type DebugConfig struct {
	Enabled bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `koanf:"path" json:"path" yaml:"path" validate:"omitempty,startswith=/"`

	// BearerToken, when set, is required in the Authorization header of debug requests.
	BearerToken string `koanf:"bearertoken" json:"-" yaml:"bearertoken"`
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/gaborage/go-bricks-actionlog/observability"
)

// DefaultFile is the YAML file Load reads from the working directory.
const DefaultFile = "config.yaml"

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. config.<env>.yaml, then config.yaml
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	return LoadFile(DefaultFile)
}

// LoadFile is like Load but reads the base YAML file from path. Missing files are skipped.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadOptionalFile(k, path); err != nil {
		return nil, err
	}

	// Environment-specific overlay next to the base file
	if env := k.String("app.env"); env != "" && path != "" {
		base := strings.TrimSuffix(path, ".yaml")
		if err := loadOptionalFile(k, fmt.Sprintf("%s.%s.yaml", base, env)); err != nil {
			return nil, err
		}
	}

	return finish(k)
}

// LoadFromBytes loads configuration from an in-memory YAML document on top of the
// defaults. Environment variables still take precedence.
func LoadFromBytes(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse configuration: %w", err)
		}
	}

	return finish(k)
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	if path == "" {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func finish(k *koanf.Koanf) (*Config, error) {
	// Load environment variables (highest priority)
	if err := k.Load(envprovider.Provider("", ".", func(s string) string {
		// Convert UPPER_CASE to lower.case for koanf
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Store the Koanf instance for flexible access
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":    "actionlog-service",
		"app.version": "v1.0.0",
		"app.env":     EnvDevelopment,

		"server.host": "0.0.0.0",
		"server.port": 8080,

		"log.level":  "info",
		"log.pretty": false,

		"actionlog.format":  FormatConsole,
		"actionlog.metrics": false,

		"debug.enabled": false,
		"debug.path":    "/_debug",

		"observability.enabled":       false,
		"observability.endpoint":      observability.EndpointStdout,
		"observability.protocol":      observability.ProtocolHTTP,
		"observability.interval":      observability.DefaultInterval,
		"observability.exporttimeout": observability.DefaultExportTimeout,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// Package observability builds the OpenTelemetry meter provider that exports action
// metrics, either to stdout for local development or to an OTLP collector.
package observability

import (
	"fmt"
	"strings"
	"time"
)

const (
	// EndpointStdout selects the pretty printing stdout exporter.
	EndpointStdout = "stdout"

	// ProtocolHTTP selects the OTLP/HTTP exporter.
	ProtocolHTTP = "http"
	// ProtocolGRPC selects the OTLP/gRPC exporter.
	ProtocolGRPC = "grpc"

	// DefaultInterval is the default export interval of the periodic reader.
	DefaultInterval = 10 * time.Second
	// DefaultExportTimeout is the default timeout of a single export.
	DefaultExportTimeout = 5 * time.Second
)

// Config configures metric export.
type Config struct {
	// Enabled turns on the SDK meter provider. When false a no-op provider is used.
	Enabled bool `koanf:"enabled" json:"enabled" yaml:"enabled"`

	// Endpoint is "stdout" or the OTLP collector address ("host:port" for gRPC,
	// "http(s)://host:port" for HTTP).
	Endpoint string `koanf:"endpoint" json:"endpoint" yaml:"endpoint"`

	// Protocol is "http" or "grpc". Ignored for the stdout endpoint.
	Protocol string `koanf:"protocol" json:"protocol" yaml:"protocol"`

	// Insecure disables TLS towards the collector.
	Insecure bool `koanf:"insecure" json:"insecure" yaml:"insecure"`

	// Headers are sent with every export, e.g. for authentication.
	Headers map[string]string `koanf:"headers" json:"-" yaml:"headers"`

	Interval      time.Duration `koanf:"interval" json:"interval" yaml:"interval"`
	ExportTimeout time.Duration `koanf:"exporttimeout" json:"exporttimeout" yaml:"exporttimeout"`
}

// Service identifies the application in the exported resource.
type Service struct {
	Name        string
	Version     string
	Environment string
}

// ApplyDefaults fills unset durations and the endpoint and protocol.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = EndpointStdout
	}
	if c.Protocol == "" {
		c.Protocol = ProtocolHTTP
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.ExportTimeout <= 0 {
		c.ExportTimeout = DefaultExportTimeout
	}
}

// Validate checks the export settings. A disabled config is always valid.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if !c.Enabled || c.Endpoint == EndpointStdout {
		return nil
	}

	hasScheme := strings.HasPrefix(c.Endpoint, "http://") || strings.HasPrefix(c.Endpoint, "https://")
	switch c.Protocol {
	case ProtocolHTTP:
		if !hasScheme {
			return fmt.Errorf("%w: http endpoint %q needs an http:// or https:// scheme", ErrInvalidEndpointFormat, c.Endpoint)
		}
	case ProtocolGRPC:
		if hasScheme {
			return fmt.Errorf("%w: grpc endpoint %q must be host:port", ErrInvalidEndpointFormat, c.Endpoint)
		}
	default:
		return fmt.Errorf("metrics protocol '%s': %w", c.Protocol, ErrInvalidProtocol)
	}
	return nil
}

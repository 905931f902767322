package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		expected string
	}{
		{
			name:     "missing_field",
			err:      NewMissingFieldError("app.name"),
			expected: "config_missing: app.name required set APP_NAME env var or add app.name to config.yaml",
		},
		{
			name:     "invalid_with_options",
			err:      NewInvalidFieldError("actionlog.format", `unknown format "xml"`, []string{"console", "structured"}),
			expected: `config_invalid: actionlog.format unknown format "xml" must be one of: console, structured`,
		},
		{
			name:     "validation",
			err:      NewValidationError("server.port", "value 0 out of range"),
			expected: "config_invalid: server.port value 0 out of range",
		},
		{
			name:     "not_configured",
			err:      NewNotConfiguredError("grpc.address"),
			expected: "config_not_configured: grpc.address (optional) to enable: set GRPC_ADDRESS env var or add grpc.address to config.yaml",
		},
		{
			name:     "with_details",
			err:      &ConfigError{Category: "invalid", Field: "log.level", Details: []string{"a", "b"}},
			expected: "config_invalid: log.level a; b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestConfigErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := fmt.Errorf("wrapped: %w", &ConfigError{Category: "invalid", Cause: cause})
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, (&ConfigError{}).Unwrap())
}

func TestIsNotConfigured(t *testing.T) {
	assert.False(t, IsNotConfigured(nil))
	assert.True(t, IsNotConfigured(NewNotConfiguredError("grpc.address")))
	assert.True(t, IsNotConfigured(fmt.Errorf("serve: %w", NewNotConfiguredError("grpc.address"))))
	assert.False(t, IsNotConfigured(NewValidationError("log.level", "bad")))
	assert.False(t, IsNotConfigured(errors.New("other")))
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Categories of ConfigError.
const (
	CategoryMissing       = "missing"
	CategoryInvalid       = "invalid"
	CategoryNotConfigured = "not_configured"
)

// ConfigError describes one configuration problem, keyed by its config.yaml path, with
// a hint on how to fix it.
//
//nolint:revive // config.ConfigError reads better than config.Error at call sites
type ConfigError struct {
	Category string
	Field    string   // config path, e.g. "actionlog.format"
	Message  string   // lowercase
	Action   string   // lowercase fix hint
	Details  []string // extra examples
	Cause    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	write := func(s string) {
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}

	if e.Category != "" {
		write("config_" + e.Category + ":")
	}
	write(e.Field)
	write(e.Message)
	write(e.Action)
	write(strings.Join(e.Details, "; "))
	return b.String()
}

// Unwrap returns Cause so sentinels such as writer.ErrUnknownFormat still match.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// envVarFor maps a config path to the environment variable that overrides it.
func envVarFor(field string) string {
	return strings.ToUpper(strings.ReplaceAll(field, ".", "_"))
}

// NewMissingFieldError reports a required field left empty.
func NewMissingFieldError(field string) *ConfigError {
	return &ConfigError{
		Category: CategoryMissing,
		Field:    field,
		Message:  "required",
		Action:   fmt.Sprintf("set %s env var or add %s to config.yaml", envVarFor(field), field),
	}
}

// NewInvalidFieldError reports a value outside validOptions.
func NewInvalidFieldError(field, message string, validOptions []string) *ConfigError {
	ce := NewValidationError(field, message)
	if len(validOptions) > 0 {
		ce.Action = "must be one of: " + strings.Join(validOptions, ", ")
	}
	return ce
}

// NewValidationError reports an invalid value.
func NewValidationError(field, message string) *ConfigError {
	return &ConfigError{Category: CategoryInvalid, Field: field, Message: message}
}

// NewNotConfiguredError reports an optional feature that was left off. Callers treat it
// as "skip the feature", not as a failure.
func NewNotConfiguredError(field string) *ConfigError {
	return &ConfigError{
		Category: CategoryNotConfigured,
		Field:    field,
		Message:  "(optional)",
		Action:   fmt.Sprintf("to enable: set %s env var or add %s to config.yaml", envVarFor(field), field),
	}
}

// IsNotConfigured reports whether err wraps a not-configured ConfigError.
func IsNotConfigured(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce) && ce.Category == CategoryNotConfigured
}

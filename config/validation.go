package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/gaborage/go-bricks-actionlog/observability"
	"github.com/gaborage/go-bricks-actionlog/writer"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Action log format constants
const (
	FormatConsole    = writer.FormatConsole
	FormatStructured = writer.FormatStructured
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// structValidator reports field paths with their koanf keys (e.g. "log.level").
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks cfg and returns a *ConfigError describing the first problem found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return NewValidationError("config", "configuration is nil")
	}

	if err := structValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return fmt.Errorf("validate configuration: %w", err)
	}

	if err := validateActionLog(&cfg.ActionLog); err != nil {
		return err
	}
	return validateObservability(cfg.Observability)
}

// validateObservability checks the export settings as they will be used, defaults applied.
func validateObservability(cfg observability.Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		field := "observability.endpoint"
		if errors.Is(err, observability.ErrInvalidProtocol) {
			field = "observability.protocol"
		}
		ce := NewValidationError(field, err.Error())
		ce.Cause = err
		return ce
	}
	return nil
}

// validateActionLog fails fast on a format no strategy recognizes.
func validateActionLog(cfg *ActionLogConfig) error {
	if _, err := writer.NewActionLogResolver(cfg.Format); err != nil {
		ce := NewInvalidFieldError("actionlog.format", fmt.Sprintf("unknown format %q", cfg.Format),
			[]string{FormatConsole, FormatStructured})
		ce.Cause = err
		return ce
	}
	return nil
}

// fieldError converts a validator failure into a ConfigError keyed by the config path.
func fieldError(fe validator.FieldError) *ConfigError {
	// Namespace is "Config.<path>"; drop the root struct name
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return NewMissingFieldError(field)
	case "oneof":
		return NewInvalidFieldError(field, fmt.Sprintf("invalid value %q", fe.Value()), strings.Fields(fe.Param()))
	case "min", "max":
		return NewValidationError(field, fmt.Sprintf("value %v out of range (%s=%s)", fe.Value(), fe.Tag(), fe.Param()))
	default:
		return NewValidationError(field, fmt.Sprintf("failed %s validation", fe.Tag()))
	}
}

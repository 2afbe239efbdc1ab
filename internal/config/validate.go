package config

import (
	"fmt"
	"strings"

	"github.com/grahms/docweaver"
)

// FieldError is a validation failure of one configuration field.
type FieldError struct {
	// Field is the dotted path to the field, e.g. "convert.policy".
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks cfg and reports all problems together.
func Validate(cfg *Config) error {
	var errs []FieldError

	if _, err := docweaver.ParseUnknownTagPolicy(cfg.Convert.Policy); err != nil {
		errs = append(errs, FieldError{Field: "convert.policy", Message: "must be error, warn or accept"})
	}
	switch cfg.Convert.Format {
	case FormatMarkdown, FormatHTML:
	default:
		errs = append(errs, FieldError{Field: "convert.format", Message: "must be markdown or html"})
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, FieldError{Field: "watch.debounce", Message: "must not be negative"})
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{Field: "logging.level", Message: "must be debug, info, warn or error"})
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, FieldError{Field: "logging.format", Message: "must be text or json"})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

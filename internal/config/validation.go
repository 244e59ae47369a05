package config

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents a single configuration validation failure.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// ValidationErrors aggregates multiple ValidationError values.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Validate checks that cfg's regex sets compile and its enums are known
// values. Invalid configuration is rejected before it ever reaches a
// Checker, per spec.md §7's "no exception escapes check()" -- bad
// configuration must be caught up front, not mid-trial.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	errs = append(errs, validateRegexSet("exclude_path_regex", cfg.ExcludePathRegex)...)
	errs = append(errs, validateRegexSet("exclude_error_regex", cfg.ExcludeErrorRegex)...)
	errs = append(errs, validateRegexSet("generic_fields", cfg.GenericFields)...)

	switch cfg.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   cfg.Logging.Format,
			Message: "must be 'text' or 'json'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRegexSet(field string, patterns []string) ValidationErrors {
	var errs ValidationErrors
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Value:   p,
				Message: fmt.Sprintf("invalid regex: %v", err),
			})
		}
	}
	return errs
}

package oracle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starkandwayne/goutils/ansi"
	"github.com/wayneeseguin/ctrloracle/internal/log"
)

// MultiError aggregates every problem the CLI's preflight checks find
// (e.g. a missing schema file and a missing trial directory) so they can
// be reported all at once instead of stopping at the first. Adapted from
// the merge engine's own MultiError.
type MultiError struct {
	Errors []error
}

// Error renders every collected error, sorted for deterministic output.
func (e MultiError) Error() string {
	s := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		s = append(s, fmt.Sprintf(" - %s\n", err))
	}
	sort.Strings(s)
	return ansi.Sprintf("@r{%d} error(s) detected while constructing the checker:\n%s\n", len(e.Errors), strings.Join(s, ""))
}

// Count reports how many errors have been collected.
func (e *MultiError) Count() int { return len(e.Errors) }

// Append records err, flattening a nested MultiError instead of nesting it.
func (e *MultiError) Append(err error) {
	if err == nil {
		return
	}
	if mult, ok := err.(MultiError); ok {
		e.Errors = append(e.Errors, mult.Errors...)
		return
	}
	e.Errors = append(e.Errors, err)
}

// ErrOrNil returns e as an error if it collected anything, else nil.
func (e *MultiError) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return *e
}

// WarningError represents a condition the oracle degrades gracefully
// from -- a failed schema lookup in SkipEngine D1, an unparseable regex,
// a malformed analysis path -- per spec.md §7's propagation policy ("no
// exception escapes check()"). It is printed to stderr rather than
// returned, unless silenced.
type WarningError struct {
	warning string
}

var silenceWarnings bool

// NewWarningError builds a WarningError with an ansi-formatted message.
func NewWarningError(format string, args ...interface{}) WarningError {
	return WarningError{warning: ansi.Sprintf(format, args...)}
}

// SilenceWarnings toggles whether Warn prints to stderr. Warnings print
// by default.
func SilenceWarnings(should bool) { silenceWarnings = should }

// Error returns the formatted warning message.
func (e WarningError) Error() string { return e.warning }

// Warn prints the warning to stderr unless silenced.
func (e WarningError) Warn() {
	if !silenceWarnings {
		log.PrintfStdErr(ansi.Sprintf("@Y{warning:} %s\n", e.warning))
	}
}

// ErrorType categorizes a CheckerError the way the merge engine's
// GraftError does, so a caller can switch on what went wrong without
// string-matching Error().
type ErrorType string

const (
	// SchemaError indicates the object schema could not be loaded or
	// walked successfully.
	SchemaError ErrorType = "schema_error"
	// ConfigError indicates an invalid oracle configuration.
	ConfigError ErrorType = "config_error"
	// SnapshotError indicates a malformed or unreadable snapshot.
	SnapshotError ErrorType = "snapshot_error"
	// CollaboratorError indicates a registered collaborator (ParseLog,
	// InvalidInputMessage) panicked or returned an unusable result.
	CollaboratorError ErrorType = "collaborator_error"
)

// CheckerError is the oracle's analogue of the merge engine's GraftError:
// a typed, path-annotated error with an optional cause.
type CheckerError struct {
	Type    ErrorType
	Message string
	Path    string
	Cause   error
}

func (e *CheckerError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: %s", e.Type, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *CheckerError) Unwrap() error { return e.Cause }

// NewSchemaError builds a CheckerError of kind SchemaError.
func NewSchemaError(path, message string, cause error) *CheckerError {
	return &CheckerError{Type: SchemaError, Path: path, Message: message, Cause: cause}
}

// NewConfigError builds a CheckerError of kind ConfigError.
func NewConfigError(message string) *CheckerError {
	return &CheckerError{Type: ConfigError, Message: message}
}

// NewSnapshotError builds a CheckerError of kind SnapshotError.
func NewSnapshotError(message string, cause error) *CheckerError {
	return &CheckerError{Type: SnapshotError, Message: message, Cause: cause}
}

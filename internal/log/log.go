// Package log provides the leveled, printf-style logging used throughout
// ctrloracle. The call-site idiom (DEBUG/TRACE/Printf/Warn/Fatal as package
// level functions) follows the teacher's logging package; the handler is
// built on log/slog the way MacroPower-x/log/log.go wires slog handlers.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// DebugOn enables DEBUG-level output. Mirrors the --debug CLI flag.
var DebugOn bool

// TraceOn enables TRACE-level output (implies DebugOn). Mirrors --trace.
var TraceOn bool

var (
	mu      sync.Mutex
	handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger                = slog.New(handler)
)

// Format selects the slog handler used for structured output.
type Format string

const (
	// FormatText renders human-readable key=value lines.
	FormatText Format = "text"
	// FormatJSON renders one JSON object per line.
	FormatJSON Format = "json"
)

// Configure rebuilds the package logger against w using the given format.
func Configure(w io.Writer, format Format) {
	mu.Lock()
	defer mu.Unlock()

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger = slog.New(handler)
}

// TRACE logs a very verbose diagnostic line, only emitted when TraceOn.
func TRACE(format string, args ...interface{}) {
	if !TraceOn {
		return
	}
	logger.Debug("[TRACE] " + fmt.Sprintf(format, args...))
}

// DEBUG logs a diagnostic line, emitted when DebugOn or TraceOn.
func DEBUG(format string, args ...interface{}) {
	if !DebugOn && !TraceOn {
		return
	}
	logger.Debug(fmt.Sprintf(format, args...))
}

// Infof logs an informational line.
func Infof(format string, args ...interface{}) {
	logger.Info(fmt.Sprintf(format, args...))
}

// Warn logs a warning line. Oracle collaborators use this for the
// "log a warning and degrade gracefully" propagation policy.
func Warn(format string, args ...interface{}) {
	logger.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs an error line without aborting the process.
func Errorf(format string, args ...interface{}) {
	logger.Error(fmt.Sprintf(format, args...))
}

// PrintfStdErr writes directly to stderr, bypassing the leveled logger.
// Used for user-facing CLI error messages, matching the teacher's split
// between structured logs and direct terminal output.
func PrintfStdErr(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// Fatal logs an error and exits the process with status 1.
func Fatal(args ...interface{}) {
	logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}

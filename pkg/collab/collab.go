// Package collab provides default implementations of the oracle core's
// external collaborators (spec.md §2): the log-line parser and the
// invalid-input message classifier. The core itself only depends on the
// oracle.ParseLog / oracle.InvalidInputMessage function signatures; these
// defaults make the module runnable standalone without a project-specific
// log format or error-message grammar plugged in.
package collab

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/wayneeseguin/ctrloracle/pkg/oracle"
)

// DefaultParseLog decodes a structured JSON log line (the shape produced
// by log/slog's JSON handler and most controller-runtime loggers:
// {"level": "...", "msg": "...", ...}). Lines that don't decode as a JSON
// object are reported as unparseable.
func DefaultParseLog(line string) oracle.ParsedLogLine {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed[0] != '{' {
		return oracle.ParsedLogLine{}
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return oracle.ParsedLogLine{}
	}

	level, _ := fields["level"].(string)
	if level == "" {
		level, _ = fields["lvl"].(string)
	}
	if level == "" {
		return oracle.ParsedLogLine{}
	}

	return oracle.ParsedLogLine{Level: level, Fields: fields}
}

// invalidInputPatterns are common Kubernetes API server / controller
// rejection phrasings: admission webhook denials, CRD validation
// failures, and immutable-field rejections.
var invalidInputPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)admission webhook .* denied the request`),
	regexp.MustCompile(`(?i)is invalid:`),
	regexp.MustCompile(`(?i)field is immutable`),
	regexp.MustCompile(`(?i)validation (error|failed)`),
	regexp.MustCompile(`(?i)forbidden:`),
}

// DefaultInvalidInputMessage reports whether message looks like a
// Kubernetes-style rejection of a submitted object, and if so, blames the
// input delta whose path appears earliest in the message -- a heuristic,
// not a guarantee, matching the original's best-effort field attribution.
func DefaultInvalidInputMessage(message string, inputDeltas oracle.InputDeltaSet) (bool, oracle.Path) {
	invalid := false
	for _, re := range invalidInputPatterns {
		if re.MatchString(message) {
			invalid = true
			break
		}
	}
	if !invalid {
		return false, nil
	}

	var blamed oracle.Path
	blamedAt := -1
	for _, d := range inputDeltas.Paths() {
		if at := strings.Index(message, d.Path.String()); at >= 0 && (blamedAt < 0 || at < blamedAt) {
			blamed, blamedAt = d.Path, at
		}
	}
	if blamedAt >= 0 {
		return true, blamed
	}
	return true, nil
}

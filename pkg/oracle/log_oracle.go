package oracle

import (
	"regexp"
	"strings"
)

// LogOracle scans the controller's log output for lines that indicate the
// system rejected the input, or (per spec.md §4.5 step 4 / §9) lines it
// would otherwise have flagged as errors -- that branch is intentionally
// suppressed by default, matching the source's commented-out error path;
// set RaiseOnError to opt back in.
type LogOracle struct {
	ParseLog            ParseLog
	InvalidInputMessage InvalidInputMessage
	ExcludeErrorRegex   []*regexp.Regexp
	// RaiseOnError, when true, turns a non-excluded warn/error/fatal line
	// into an Error verdict instead of Pass. Default false.
	RaiseOnError bool
}

// NewLogOracle constructs a LogOracle with the given collaborators and
// exclude-regex set.
func NewLogOracle(parse ParseLog, classify InvalidInputMessage, excludeErrorRegex []*regexp.Regexp) *LogOracle {
	return &LogOracle{ParseLog: parse, InvalidInputMessage: classify, ExcludeErrorRegex: excludeErrorRegex}
}

var logLevels = map[string]bool{"warn": true, "error": true, "fatal": true}

// Check scans lines for actionable log entries.
func (o *LogOracle) Check(lines []string, inputDeltas InputDeltaSet) Verdict {
	for _, line := range lines {
		if o.ParseLog == nil {
			continue
		}
		parsed := o.ParseLog(line)
		level := strings.ToLower(parsed.Level)
		if parsed.Level == "" || !logLevels[level] {
			continue
		}

		if o.InvalidInputMessage != nil {
			for _, v := range parsed.Fields {
				s, ok := v.(string)
				if !ok || s == "" {
					continue
				}
				if invalid, responsible := o.InvalidInputMessage(s, inputDeltas); invalid {
					return Verdict{
						Tag:              TagLog,
						Result:           RunResult{Kind: ResultInvalidInput},
						Reason:           "invalid input reported in log" + fieldSuffix(responsible),
						InvalidInputPath: nonEmptyPath(responsible),
					}
				}
			}
		}

		if MatchesAnyRegex(o.ExcludeErrorRegex, line) {
			continue
		}

		if o.RaiseOnError {
			return Verdict{Tag: TagLog, Result: RunResult{Kind: ResultError}, Reason: "unexpected " + level + " log line: " + line}
		}
	}
	return Verdict{Tag: TagLog, Result: RunResult{Kind: ResultPass}}
}

package oracle

// The functions in this file are the oracle's external collaborators
// (spec.md §2 "Out of scope (external collaborators)"): the log-line
// parser and the invalid-input classifier. The core depends only on
// their signatures; default implementations usable out of the box live
// in github.com/wayneeseguin/ctrloracle/pkg/collab, mirroring how the
// Python source's checker.py imports parse_log and invalid_input_message
// from sibling modules it does not itself define.

// ParsedLogLine is the structured result of parsing one raw controller
// log line. An empty Level means the line could not be parsed as a
// structured log entry at all.
type ParsedLogLine struct {
	Level  string
	Fields map[string]interface{}
}

// ParseLog decodes one raw log line into its structured fields. Returning
// a zero-value ParsedLogLine (Level == "") signals "not a recognizable
// log line", which LogOracle treats as routinely skippable rather than
// an error.
type ParseLog func(line string) ParsedLogLine

// InvalidInputMessage inspects a free-text message (apply-command stderr,
// or one field's value from a parsed log line) together with the current
// trial's input deltas, and reports whether the message indicates the
// system rejected the input -- and if so, which input field it blames.
type InvalidInputMessage func(message string, inputDeltas InputDeltaSet) (invalid bool, responsiblePath Path)

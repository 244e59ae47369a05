package oracle

// Snapshot is a single observed point-in-time capture of system state:
// the object(s) a reconciler produced plus the side channel data the
// oracle battery reasons over (log lines, health probe result). A trial
// produces two snapshots -- before and after one input change -- which the
// Differ compares to build the SystemDeltaSet StateOracle consumes
// (spec.md §3, §6).
type Snapshot struct {
	// State is the JSON-decoded observed object tree (map[string]interface{}
	// / []interface{} / scalars), as returned by the system under test.
	State interface{}
	// Logs is the raw captured log output since the previous snapshot, one
	// entry per line, handed to the configured collab.ParseLog.
	Logs []string
	// Healthy reports the most recent health probe result, nil when no
	// probe ran for this snapshot.
	Healthy *bool
}

// EmptySnapshot is the zero-value baseline used as "prev" on a trial's
// very first generation, where there is no earlier observed state to
// diff against.
func EmptySnapshot() Snapshot {
	return Snapshot{State: NotPresent}
}

// CLIResult captures the outcome of submitting one input document to the
// system under test: CLI exit behavior, not the reconciled state that
// follows it. InputOracle classifies a trial generation primarily from
// this value (spec.md §6 "RunResult").
type CLIResult struct {
	// ExitCode is the raw process/API exit status of the apply operation.
	ExitCode int
	// Stdout is the captured standard output stream.
	Stdout string
	// Stderr is the captured error stream, fed to
	// collab.InvalidInputMessage for InvalidInput classification.
	Stderr string
	// ConnectionRefused reports that the apply operation could not reach
	// the system under test at all (distinct from the system rejecting a
	// well-formed request).
	ConnectionRefused bool
}

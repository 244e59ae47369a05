package oracle

import "fmt"

// OracleTag names which of the four oracles produced or vetoed a verdict
// (Verdict.Tag; RunResult.VerdictOf looks verdicts up by it).
type OracleTag string

const (
	TagInput  OracleTag = "input"
	TagState  OracleTag = "state"
	TagLog    OracleTag = "log"
	TagHealth OracleTag = "health"
)

// Verdict is one oracle's classification of a single trial generation,
// before VerdictCombiner applies precedence across the battery.
type Verdict struct {
	Tag    OracleTag
	Result RunResult
	// Reason is a short human-readable explanation (e.g. the unmatched
	// delta's path, or the failing log line).
	Reason string
	// InvalidInputPath carries spec.md §3's InvalidInput{path} payload: the
	// input delta path InvalidInputMessage blamed for the rejection, when
	// Result.Kind == ResultInvalidInput and attribution succeeded. Nil when
	// no specific field could be blamed.
	InvalidInputPath *Path
	// StateError carries spec.md §3's Error{input_delta, match_delta}
	// payload for a StateOracle finding: the offending input delta and, if
	// one was found, the system delta it was compared against and found
	// inconsistent. Only set when Tag == TagState and Result.Kind ==
	// ResultError.
	StateError *StateErrorDetail
}

// StateErrorDetail is the structured form of a StateOracle Error verdict,
// letting a programmatic caller recover the two disagreeing deltas without
// re-parsing Verdict.Reason (spec.md §3 GLOSSARY, §7 scenarios 4 and 6).
type StateErrorDetail struct {
	InputDelta Delta
	// MatchDelta is nil when no system delta matched at all (steps 4d/4e
	// fell through to the "no matching field" case), and non-nil when a
	// match was found but compareDeltas rejected it as inconsistent.
	MatchDelta *Delta
}

// RunResultKind is the outcome class of one trial generation (spec.md §3
// GLOSSARY "RunResult"). The kind-specific payloads are carried on the
// individual Verdicts (InvalidInputPath, StateError).
type RunResultKind int

const (
	// ResultPass means every oracle in the battery accepted the
	// generation: observed changes are fully explained by the input
	// change and/or its declared dependencies.
	ResultPass RunResultKind = iota
	// ResultUnchanged means the input produced no observable delta at
	// all -- a no-op write, not a failure.
	ResultUnchanged
	// ResultConnectionRefused means the apply operation could not reach
	// the system under test.
	ResultConnectionRefused
	// ResultInvalidInput means the system rejected the input document
	// itself (as opposed to accepting it and then behaving incorrectly).
	ResultInvalidInput
	// ResultError means at least one oracle found an unexplained delta,
	// an unexpected log line, or an unhealthy probe: a genuine oracle
	// finding.
	ResultError
)

func (k RunResultKind) String() string {
	switch k {
	case ResultPass:
		return "Pass"
	case ResultUnchanged:
		return "Unchanged"
	case ResultConnectionRefused:
		return "ConnectionRefused"
	case ResultInvalidInput:
		return "InvalidInput"
	case ResultError:
		return "Error"
	default:
		return fmt.Sprintf("RunResultKind(%d)", int(k))
	}
}

// RunResult is the final, combined outcome for one trial generation.
type RunResult struct {
	Kind RunResultKind
	// Verdicts holds every oracle's individual Verdict -- present
	// regardless of Kind, since even a
	// Pass records which oracles ran and what they saw.
	Verdicts []Verdict
}

// Errored reports whether this RunResult represents an oracle-detected
// discrepancy (spec.md §8: used by the Monotone masking / Skip monotonicity
// properties, which only constrain Error-producing inputs).
func (r RunResult) Errored() bool { return r.Kind == ResultError }

// VerdictOf returns the Verdict for the given oracle tag, if present.
func (r RunResult) VerdictOf(tag OracleTag) (Verdict, bool) {
	for _, v := range r.Verdicts {
		if v.Tag == tag {
			return v, true
		}
	}
	return Verdict{}, false
}

package oracle

import "strings"

// InputOracle inspects the apply-command's CLIResult and classifies the
// trial generation without looking at observed system state at all
// (spec.md §4.2). Precedence within InputOracle itself:
// ConnectionRefused > InvalidInput > Unchanged > Pass.
type InputOracle struct {
	InvalidInputMessage InvalidInputMessage
}

// NewInputOracle constructs an InputOracle with the given invalid-input
// classifier collaborator.
func NewInputOracle(classify InvalidInputMessage) *InputOracle {
	return &InputOracle{InvalidInputMessage: classify}
}

// Check classifies one trial generation's apply result.
func (o *InputOracle) Check(cli CLIResult, inputDeltas InputDeltaSet) Verdict {
	if cli.ConnectionRefused || strings.Contains(strings.ToLower(cli.Stderr), "connection refused") {
		return Verdict{Tag: TagInput, Result: RunResult{Kind: ResultConnectionRefused}, Reason: "connection refused"}
	}

	invalid, responsible := false, Path(nil)
	if o.InvalidInputMessage != nil {
		invalid, responsible = o.InvalidInputMessage(cli.Stderr, inputDeltas)
	}
	if invalid || len(cli.Stderr) > 0 {
		return Verdict{
			Tag:              TagInput,
			Result:           RunResult{Kind: ResultInvalidInput},
			Reason:           "invalid input" + fieldSuffix(responsible),
			InvalidInputPath: nonEmptyPath(responsible),
		}
	}

	if strings.Contains(strings.ToLower(cli.Stdout), "unchanged") || strings.Contains(strings.ToLower(cli.Stderr), "unchanged") {
		return Verdict{Tag: TagInput, Result: RunResult{Kind: ResultUnchanged}, Reason: "apply reported unchanged"}
	}

	return Verdict{Tag: TagInput, Result: RunResult{Kind: ResultPass}}
}

func fieldSuffix(p Path) string {
	if len(p) == 0 {
		return ""
	}
	return ": " + p.String()
}

// nonEmptyPath returns &p, or nil when p carries no attribution at all --
// used to populate Verdict.InvalidInputPath only when one was found.
func nonEmptyPath(p Path) *Path {
	if len(p) == 0 {
		return nil
	}
	return &p
}

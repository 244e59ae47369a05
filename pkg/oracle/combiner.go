package oracle

// VerdictCombiner applies the fixed precedence order across the four
// oracle verdicts to produce one RunResult per generation (spec.md §4.7).
// HealthOracle's verdict is forced to Pass when disabled, so a single
// combiner implementation serves both configurations.
type VerdictCombiner struct {
	// EnableHealthOracle gates whether HealthOracle's verdict can ever
	// carry an Error into the combined result.
	EnableHealthOracle bool
}

// NewVerdictCombiner constructs a VerdictCombiner.
func NewVerdictCombiner(enableHealthOracle bool) *VerdictCombiner {
	return &VerdictCombiner{EnableHealthOracle: enableHealthOracle}
}

// Combine applies the precedence order:
//
//  1. InvalidInput from InputOracle or LogOracle -> return it.
//  2. ConnectionRefused -> return it.
//  3. Unchanged from InputOracle -> return it.
//  4. Error from HealthOracle -> return.
//  5. Error from StateOracle -> return.
//  6. Error from LogOracle -> return.
//  7. Otherwise -> Pass.
func (c *VerdictCombiner) Combine(input, state, log, health Verdict) RunResult {
	all := []Verdict{input, state, log, health}

	if input.Result.Kind == ResultInvalidInput {
		return finalize(input.Result, all)
	}
	if log.Result.Kind == ResultInvalidInput {
		return finalize(log.Result, all)
	}

	if input.Result.Kind == ResultConnectionRefused {
		return finalize(input.Result, all)
	}

	if input.Result.Kind == ResultUnchanged {
		return finalize(input.Result, all)
	}

	if c.EnableHealthOracle && health.Result.Kind == ResultError {
		return finalize(health.Result, all)
	}
	if state.Result.Kind == ResultError {
		return finalize(state.Result, all)
	}
	if log.Result.Kind == ResultError {
		return finalize(log.Result, all)
	}

	return finalize(RunResult{Kind: ResultPass}, all)
}

func finalize(r RunResult, all []Verdict) RunResult {
	r.Verdicts = all
	return r
}

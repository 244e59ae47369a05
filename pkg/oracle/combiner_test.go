package oracle

import "testing"

func verdict(tag OracleTag, kind RunResultKind) Verdict {
	return Verdict{Tag: tag, Result: RunResult{Kind: kind}}
}

func TestVerdictCombinerInvalidInputBeatsEverything(t *testing.T) {
	c := NewVerdictCombiner(true)
	input := verdict(TagInput, ResultInvalidInput)
	state := verdict(TagState, ResultError)
	log := verdict(TagLog, ResultPass)
	health := verdict(TagHealth, ResultError)

	r := c.Combine(input, state, log, health)
	if r.Kind != ResultInvalidInput {
		t.Fatalf("InvalidInput from InputOracle must win outright, got %s", r.Kind)
	}
}

func TestVerdictCombinerLogInvalidInputBeatsStateError(t *testing.T) {
	c := NewVerdictCombiner(true)
	input := verdict(TagInput, ResultPass)
	state := verdict(TagState, ResultError)
	log := verdict(TagLog, ResultInvalidInput)
	health := verdict(TagHealth, ResultPass)

	r := c.Combine(input, state, log, health)
	if r.Kind != ResultInvalidInput {
		t.Fatalf("InvalidInput from LogOracle must outrank a State Error, got %s", r.Kind)
	}
}

func TestVerdictCombinerConnectionRefusedBeatsUnchanged(t *testing.T) {
	c := NewVerdictCombiner(true)
	input := verdict(TagInput, ResultConnectionRefused)
	state := verdict(TagState, ResultPass)
	log := verdict(TagLog, ResultPass)
	health := verdict(TagHealth, ResultPass)

	r := c.Combine(input, state, log, health)
	if r.Kind != ResultConnectionRefused {
		t.Fatalf("expected ConnectionRefused, got %s", r.Kind)
	}
}

func TestVerdictCombinerUnchangedBeatsHealthAndStateErrors(t *testing.T) {
	c := NewVerdictCombiner(true)
	input := verdict(TagInput, ResultUnchanged)
	state := verdict(TagState, ResultError)
	log := verdict(TagLog, ResultPass)
	health := verdict(TagHealth, ResultError)

	r := c.Combine(input, state, log, health)
	if r.Kind != ResultUnchanged {
		t.Fatalf("Unchanged input must short-circuit ahead of State/Health errors, got %s", r.Kind)
	}
}

func TestVerdictCombinerHealthErrorOnlyWhenEnabled(t *testing.T) {
	input := verdict(TagInput, ResultPass)
	state := verdict(TagState, ResultPass)
	log := verdict(TagLog, ResultPass)
	health := verdict(TagHealth, ResultError)

	enabled := NewVerdictCombiner(true)
	if r := enabled.Combine(input, state, log, health); r.Kind != ResultError {
		t.Fatalf("expected Error when HealthOracle is enabled, got %s", r.Kind)
	}

	disabled := NewVerdictCombiner(false)
	if r := disabled.Combine(input, state, log, health); r.Kind != ResultPass {
		t.Fatalf("a disabled HealthOracle's Error must never surface, got %s", r.Kind)
	}
}

func TestVerdictCombinerStateErrorBeatsLogError(t *testing.T) {
	c := NewVerdictCombiner(false)
	input := verdict(TagInput, ResultPass)
	state := verdict(TagState, ResultError)
	log := verdict(TagLog, ResultError)
	health := verdict(TagHealth, ResultPass)

	r := c.Combine(input, state, log, health)
	if r.Kind != ResultError {
		t.Fatalf("expected Error, got %s", r.Kind)
	}
	v, ok := r.VerdictOf(TagState)
	if !ok || v.Result.Kind != ResultError {
		t.Fatal("expected the winning Error verdict to be attributable to StateOracle")
	}
}

func TestVerdictCombinerAllPassYieldsPass(t *testing.T) {
	c := NewVerdictCombiner(true)
	p := verdict(TagInput, ResultPass)
	r := c.Combine(p, verdict(TagState, ResultPass), verdict(TagLog, ResultPass), verdict(TagHealth, ResultPass))
	if r.Kind != ResultPass {
		t.Fatalf("expected Pass, got %s", r.Kind)
	}
	if len(r.Verdicts) != 4 {
		t.Fatalf("expected all four verdicts to be carried in the result, got %d", len(r.Verdicts))
	}
}

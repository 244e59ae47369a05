package oracle

import "testing"

func TestFlattenFieldCount(t *testing.T) {
	v := map[string]interface{}{
		"a": "x",
		"b": []interface{}{"y", "z"},
		"c": map[string]interface{}{"d": 1, "e": 2},
	}
	if n := FlattenFieldCount(v); n != 5 {
		t.Fatalf("expected 5 leaf fields, got %d", n)
	}
}

func TestFlattenFieldCountScalar(t *testing.T) {
	if n := FlattenFieldCount("scalar"); n != 1 {
		t.Fatalf("a bare scalar counts as one field, got %d", n)
	}
}

func TestFieldCoverageOnlyCountsPassWithDeltas(t *testing.T) {
	passVerdict := Verdict{Result: RunResult{Kind: ResultPass}}
	invalidVerdict := Verdict{Result: RunResult{Kind: ResultInvalidInput}}

	input := InputDeltaSet{ParsePath("spec", "replicas").Key(): {Path: ParsePath("spec", "replicas")}}
	system := SystemDeltaSet{ParsePath("status", "replicas").Key(): {Path: ParsePath("status", "replicas")}}

	if _, ok := FieldCoverage(invalidVerdict, 10, input, system); ok {
		t.Fatal("a non-Pass InputOracle verdict must not contribute coverage")
	}
	if _, ok := FieldCoverage(passVerdict, 10, nil, system); ok {
		t.Fatal("a generation with no input deltas must not contribute coverage")
	}

	stats, ok := FieldCoverage(passVerdict, 10, input, system)
	if !ok {
		t.Fatal("expected coverage to be reported")
	}
	if stats.TotalFields != 10 || stats.ChangedFields != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if got := stats.Ratio(); got != 0.1 {
		t.Fatalf("expected ratio 0.1, got %v", got)
	}
}

func TestCoverageStatsRatioZeroTotal(t *testing.T) {
	c := CoverageStats{TotalFields: 0, ChangedFields: 0}
	if c.Ratio() != 0 {
		t.Fatal("ratio with zero total fields must be zero, not NaN/Inf")
	}
}

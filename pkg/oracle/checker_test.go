package oracle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wayneeseguin/ctrloracle/pkg/schema"
)

func testSchema() schema.Node {
	return schema.NewObjectNode(map[string]schema.Node{
		"spec": schema.NewObjectNode(map[string]schema.Node{
			"replicas": schema.NewScalarNode("integer", nil, false),
		}, nil, false),
	}, nil, false)
}

func TestCheckerEndToEndPass(t *testing.T) {
	checker := NewChecker("default", t.TempDir(), testSchema(), MatchConfig{}, nil, nil, nil, false, false, nil)

	prevInput := map[string]interface{}{"spec": map[string]interface{}{"replicas": float64(1)}}
	currInput := map[string]interface{}{"spec": map[string]interface{}{"replicas": float64(3)}}
	prev := Snapshot{State: map[string]interface{}{"status": map[string]interface{}{"replicas": float64(1)}}}
	curr := Snapshot{State: map[string]interface{}{"status": map[string]interface{}{"replicas": float64(3)}}}

	result := checker.Check(0, prevInput, currInput, prev, curr, CLIResult{})
	if result.Kind != ResultPass {
		t.Fatalf("expected Pass, got %s", result.Kind)
	}
	if len(checker.CoverageHistory()) != 1 {
		t.Fatalf("expected one coverage entry to be recorded, got %d", len(checker.CoverageHistory()))
	}
}

func TestCheckerShortCircuitsOnConnectionRefused(t *testing.T) {
	checker := NewChecker("default", t.TempDir(), testSchema(), MatchConfig{}, nil, nil, nil, false, false, nil)

	prevInput := map[string]interface{}{"spec": map[string]interface{}{"replicas": float64(1)}}
	currInput := map[string]interface{}{"spec": map[string]interface{}{"replicas": float64(3)}}
	prev := EmptySnapshot()
	curr := Snapshot{State: map[string]interface{}{"status": map[string]interface{}{"replicas": float64(999)}}}

	result := checker.Check(0, prevInput, currInput, prev, curr, CLIResult{ConnectionRefused: true})
	if result.Kind != ResultConnectionRefused {
		t.Fatalf("expected ConnectionRefused, got %s", result.Kind)
	}
	if len(checker.CoverageHistory()) != 0 {
		t.Fatal("a short-circuited generation must not record coverage")
	}
}

func TestCheckerUnexplainedStateDeltaErrors(t *testing.T) {
	checker := NewChecker("default", t.TempDir(), testSchema(), MatchConfig{}, nil, nil, nil, false, false, nil)

	prevInput := map[string]interface{}{"spec": map[string]interface{}{"replicas": float64(1)}}
	currInput := map[string]interface{}{"spec": map[string]interface{}{"replicas": float64(3)}}
	prev := Snapshot{State: map[string]interface{}{"status": map[string]interface{}{"replicas": float64(1)}}}
	// System state doesn't move at all in response to the input change.
	curr := Snapshot{State: map[string]interface{}{"status": map[string]interface{}{"replicas": float64(1)}}}

	result := checker.Check(0, prevInput, currInput, prev, curr, CLIResult{})
	if result.Kind != ResultError {
		t.Fatalf("expected Error for an unexplained input change, got %s", result.Kind)
	}
	v, ok := result.VerdictOf(TagState)
	if !ok || v.Result.Kind != ResultError {
		t.Fatal("expected StateOracle to be the attributed source of the Error")
	}
}

func TestCheckerAnalysisResultSeedsDependencyIndexD2(t *testing.T) {
	analysis := &AnalysisResult{
		FieldConditionsMap: map[string][]Condition{
			ParsePath("spec", "tls", "cert").Key(): {
				{Field: ParsePath("spec", "tls", "enabled"), Op: OpEq, Value: "true"},
			},
		},
	}
	checker := NewChecker("default", t.TempDir(), testSchema(), MatchConfig{}, nil, nil, nil, false, true, analysis)

	conds, ok := checker.Index.ExactConditions(ParsePath("spec", "tls", "cert"))
	if !ok || len(conds) != 1 {
		t.Fatalf("expected the analysis result's field_conditions_map entry to be seeded into the DependencyIndex, got %v, %v", conds, ok)
	}

	prevInput := map[string]interface{}{"spec": map[string]interface{}{"tls": map[string]interface{}{"enabled": false}}}
	currInput := map[string]interface{}{"spec": map[string]interface{}{"tls": map[string]interface{}{"enabled": false, "cert": "new-cert"}}}
	prev := Snapshot{State: map[string]interface{}{}}
	curr := Snapshot{State: map[string]interface{}{}}

	result := checker.Check(0, prevInput, currInput, prev, curr, CLIResult{})
	if result.Kind != ResultPass {
		t.Fatalf("expected the tls.enabled==false condition to skip the unexplained spec.tls.cert delta, got %s", result.Kind)
	}
}

func TestCheckerAnalysisDisabledIgnoresFieldConditionsMap(t *testing.T) {
	analysis := &AnalysisResult{
		FieldConditionsMap: map[string][]Condition{
			ParsePath("spec", "tls", "cert").Key(): {
				{Field: ParsePath("spec", "tls", "enabled"), Op: OpEq, Value: "true"},
			},
		},
	}
	checker := NewChecker("default", t.TempDir(), testSchema(), MatchConfig{}, nil, nil, nil, false, false, analysis)

	if _, ok := checker.Index.ExactConditions(ParsePath("spec", "tls", "cert")); ok {
		t.Fatal("expected field_conditions_map to be ignored when enableAnalysis is false")
	}
}

func TestCheckerAnalysisResultControlFlowGateFires(t *testing.T) {
	analysis := &AnalysisResult{
		ControlFlowFields: []Path{ParsePath("spec", "containers", "INDEX", "image")},
	}
	// ParsePath would parse "INDEX" as a string atom (it is not numeric),
	// matching how resolveIndexAtom treats the literal key "INDEX".
	checker := NewChecker("default", t.TempDir(), testSchema(), MatchConfig{}, nil, nil, nil, false, true, analysis)

	prevInput := map[string]interface{}{"spec": map[string]interface{}{"containers": []interface{}{map[string]interface{}{"image": "v1"}}}}
	currInput := map[string]interface{}{"spec": map[string]interface{}{"containers": []interface{}{map[string]interface{}{"image": "v2"}}}}
	prev := Snapshot{State: map[string]interface{}{}}
	curr := Snapshot{State: map[string]interface{}{}}

	result := checker.Check(0, prevInput, currInput, prev, curr, CLIResult{})
	if result.Kind != ResultPass {
		t.Fatalf("expected the control-flow gate to skip the unexplained image delta, got %s", result.Kind)
	}
}

func TestCheckerEnableAnalysisAppliesSchemaDefaults(t *testing.T) {
	root := schema.NewObjectNode(map[string]schema.Node{
		"spec": schema.NewObjectNode(map[string]schema.Node{
			"replicas": schema.NewScalarNode("integer", float64(1), true),
		}, nil, false),
	}, nil, false)
	checker := NewChecker("default", t.TempDir(), root, MatchConfig{}, nil, nil, nil, false, true, nil)

	// currInput omits "replicas" entirely; with analysis enabled the schema
	// default should be filled in before diffing, so no delta is produced
	// at all for the missing field.
	prevInput := map[string]interface{}{"spec": map[string]interface{}{}}
	currInput := map[string]interface{}{"spec": map[string]interface{}{}}
	prev := Snapshot{State: map[string]interface{}{}}
	curr := Snapshot{State: map[string]interface{}{}}

	result := checker.Check(0, prevInput, currInput, prev, curr, CLIResult{})
	if result.Kind != ResultPass {
		t.Fatalf("expected Pass once both generations' missing replicas fields default identically, got %s", result.Kind)
	}
}

func TestCheckerWritesDeltaLog(t *testing.T) {
	dir := t.TempDir()
	checker := NewChecker("default", dir, testSchema(), MatchConfig{}, nil, nil, nil, false, false, nil)

	prevInput := map[string]interface{}{"spec": map[string]interface{}{"replicas": float64(1)}}
	currInput := map[string]interface{}{"spec": map[string]interface{}{"replicas": float64(3)}}
	prev := Snapshot{State: map[string]interface{}{"status": map[string]interface{}{"replicas": float64(1)}}}
	curr := Snapshot{State: map[string]interface{}{"status": map[string]interface{}{"replicas": float64(3)}}}

	checker.Check(7, prevInput, currInput, prev, curr, CLIResult{})

	if _, err := os.Stat(filepath.Join(dir, "delta-7.log")); err != nil {
		t.Fatalf("expected a delta log file to be written: %v", err)
	}
}

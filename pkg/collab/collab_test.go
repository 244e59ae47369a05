package collab

import (
	"testing"

	"github.com/wayneeseguin/ctrloracle/pkg/oracle"
)

func TestDefaultParseLogStructuredLine(t *testing.T) {
	parsed := DefaultParseLog(`{"level":"error","msg":"boom"}`)
	if parsed.Level != "error" {
		t.Fatalf("expected level 'error', got %q", parsed.Level)
	}
	if parsed.Fields["msg"] != "boom" {
		t.Fatalf("expected msg field to survive decoding, got %v", parsed.Fields["msg"])
	}
}

func TestDefaultParseLogLvlAlias(t *testing.T) {
	parsed := DefaultParseLog(`{"lvl":"warn","msg":"heads up"}`)
	if parsed.Level != "warn" {
		t.Fatalf("expected 'lvl' to be accepted as a level alias, got %q", parsed.Level)
	}
}

func TestDefaultParseLogUnstructuredLine(t *testing.T) {
	parsed := DefaultParseLog("plain text log output")
	if parsed.Level != "" {
		t.Fatalf("expected an unparseable line to report empty level, got %q", parsed.Level)
	}
}

func TestDefaultParseLogMissingLevelField(t *testing.T) {
	parsed := DefaultParseLog(`{"msg":"no level here"}`)
	if parsed.Level != "" {
		t.Fatalf("a JSON object with no level/lvl field must report empty level, got %q", parsed.Level)
	}
}

func TestDefaultInvalidInputMessageDetectsRejection(t *testing.T) {
	deltas := oracle.InputDeltaSet{
		oracle.ParsePath("spec", "replicas").Key(): {
			Path: oracle.ParsePath("spec", "replicas"), Prev: float64(1), Curr: float64(-1),
		},
	}
	invalid, path := DefaultInvalidInputMessage(`admission webhook "validate.example.com" denied the request: spec.replicas must be non-negative`, deltas)
	if !invalid {
		t.Fatal("expected the admission webhook denial to be classified invalid")
	}
	if !path.Equal(oracle.ParsePath("spec", "replicas")) {
		t.Fatalf("expected attribution to spec.replicas, got %v", path)
	}
}

func TestDefaultInvalidInputMessageAttributionFallback(t *testing.T) {
	deltas := oracle.InputDeltaSet{
		oracle.ParsePath("spec", "name").Key(): {
			Path: oracle.ParsePath("spec", "name"), Prev: "a", Curr: "b",
		},
	}
	invalid, path := DefaultInvalidInputMessage("Forbidden: field is immutable", deltas)
	if !invalid {
		t.Fatal("expected an immutable-field rejection to be classified invalid")
	}
	if path != nil {
		t.Fatalf("expected no attribution when no delta path appears in the message, got %v", path)
	}
}

func TestDefaultInvalidInputMessageBenignText(t *testing.T) {
	invalid, _ := DefaultInvalidInputMessage("reconciled successfully", nil)
	if invalid {
		t.Fatal("benign text must not be classified as invalid input")
	}
}

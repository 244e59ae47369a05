package oracle

import "testing"

func TestSecretRedactorMasksVaultReference(t *testing.T) {
	r := &SecretRedactor{}
	got := r.Redact(`((vault "secret/db:password"))`)
	if got != "***REDACTED***" {
		t.Fatalf("expected the vault reference to be masked, got %v", got)
	}
}

func TestSecretRedactorLeavesOtherStringsAlone(t *testing.T) {
	r := &SecretRedactor{}
	got := r.Redact("plain value")
	if got != "plain value" {
		t.Fatalf("expected a non-reference string to pass through unchanged, got %v", got)
	}
}

func TestSecretRedactorWalksNestedStructures(t *testing.T) {
	r := &SecretRedactor{}
	in := map[string]interface{}{
		"password": `((vault "secret/db:password"))`,
		"tags":     []interface{}{"x", `((vault "secret/other:key"))`},
		"nested":   map[string]interface{}{"safe": "value"},
	}
	got := r.Redact(in).(map[string]interface{})
	if got["password"] != "***REDACTED***" {
		t.Fatalf("expected top-level secret to be masked, got %v", got["password"])
	}
	tags := got["tags"].([]interface{})
	if tags[0] != "x" || tags[1] != "***REDACTED***" {
		t.Fatalf("expected only the secret-bearing array element to be masked, got %v", tags)
	}
	nested := got["nested"].(map[string]interface{})
	if nested["safe"] != "value" {
		t.Fatalf("expected an unrelated nested field to survive unchanged, got %v", nested["safe"])
	}
}

func TestSecretRedactorRedactDeltaSet(t *testing.T) {
	r := &SecretRedactor{}
	deltas := map[string]Delta{
		ParsePath("spec", "password").Key(): {
			Path: ParsePath("spec", "password"),
			Prev: `((vault "secret/db:password"))`,
			Curr: "plaintext-leak",
		},
	}
	out := r.RedactDeltaSet(deltas)
	d := out[ParsePath("spec", "password").Key()]
	if d.Prev != "***REDACTED***" {
		t.Fatalf("expected Prev to be masked, got %v", d.Prev)
	}
	if d.Curr != "plaintext-leak" {
		t.Fatalf("RedactDeltaSet only masks values matching the reference pattern, got %v", d.Curr)
	}
}

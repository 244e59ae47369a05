package oracle

import "testing"

func TestPathKeyRoundTrip(t *testing.T) {
	p := ParsePath("spec", "tls", 0, "cert")
	key := p.Key()

	parsed, err := ParsePathKey(key)
	if err != nil {
		t.Fatalf("ParsePathKey: %v", err)
	}
	if !p.Equal(parsed) {
		t.Fatalf("round trip mismatch: %v != %v", p, parsed)
	}
}

func TestPathHasPrefix(t *testing.T) {
	p := ParsePath("spec", "tls", 0, "cert")

	if !p.HasPrefix(ParsePath("spec", "tls")) {
		t.Fatal("expected spec.tls to be a prefix")
	}
	if p.HasPrefix(ParsePath("spec", "other")) {
		t.Fatal("did not expect spec.other to be a prefix")
	}
	if !p.HasPrefix(Path{}) {
		t.Fatal("empty path is a prefix of everything")
	}
}

func TestCanonicalAtom(t *testing.T) {
	if CanonicalAtom(StringAtom("Name")) != CanonicalAtom(StringAtom("name")) {
		t.Fatal("expected case-insensitive equality")
	}
	if CanonicalAtom(IndexAtom(1)) != CanonicalAtom(IndexAtom(1)) {
		t.Fatal("expected equal indices to canonicalize equal")
	}
	if CanonicalAtom(IndexAtom(1)) == CanonicalAtom(StringAtom("1")) {
		t.Fatal("index and string atoms must never canonicalize equal")
	}
}

func TestNotPresent(t *testing.T) {
	if !IsNotPresent(NotPresent) {
		t.Fatal("NotPresent must report as not present")
	}
	if IsNotPresent(nil) {
		t.Fatal("nil is a real (null) value, not NotPresent")
	}
	if IsNotPresent("") {
		t.Fatal("empty string is a real value, not NotPresent")
	}
}

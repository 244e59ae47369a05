// Package oracle implements the differential oracle core: the Differ,
// SkipEngine, and oracle battery (InputOracle, StateOracle, LogOracle,
// HealthOracle) combined by VerdictCombiner into one RunResult per
// generation of a trial.
package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Atom is one element of a Path: either a string key or a non-negative
// integer index (spec.md §3).
type Atom struct {
	Key     string
	Index   int
	IsIndex bool
}

// StringAtom builds a key atom.
func StringAtom(key string) Atom { return Atom{Key: key} }

// IndexAtom builds an index atom.
func IndexAtom(i int) Atom { return Atom{Index: i, IsIndex: true} }

// String renders the atom the way it appears in a JSON-encoded path key.
func (a Atom) String() string {
	if a.IsIndex {
		return strconv.Itoa(a.Index)
	}
	return a.Key
}

// MarshalJSON encodes the atom as the underlying JSON scalar (string or
// number), matching the Python source's plain list-of-mixed-types paths.
func (a Atom) MarshalJSON() ([]byte, error) {
	if a.IsIndex {
		return json.Marshal(a.Index)
	}
	return json.Marshal(a.Key)
}

// UnmarshalJSON decodes either a JSON string or a JSON number into an Atom.
func (a *Atom) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*a = Atom{Key: asString}
		return nil
	}
	var asInt int
	if err := json.Unmarshal(data, &asInt); err == nil {
		*a = Atom{Index: asInt, IsIndex: true}
		return nil
	}
	return fmt.Errorf("path atom must be a string or integer: %s", string(data))
}

// Path is an ordered sequence of path atoms addressing a node in a nested
// document (spec.md §3, GLOSSARY).
type Path []Atom

// ParsePath builds a Path from mixed string/int components, for tests and
// collaborators that build paths by hand.
func ParsePath(components ...interface{}) Path {
	p := make(Path, 0, len(components))
	for _, c := range components {
		switch v := c.(type) {
		case int:
			p = append(p, IndexAtom(v))
		case string:
			if n, err := strconv.Atoi(v); err == nil && strconv.Itoa(n) == v {
				// Looks like an array index written as a string; the spec's
				// JSON path atoms distinguish index from key by JSON type,
				// not by string contents, so callers that truly mean a
				// string key equal to a number must use StringAtom directly.
				p = append(p, IndexAtom(n))
				continue
			}
			p = append(p, StringAtom(v))
		default:
			p = append(p, StringAtom(fmt.Sprint(v)))
		}
	}
	return p
}

// Equal reports elementwise equality (spec.md §3: "Equality is elementwise").
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix's atoms equal p's first len(prefix)
// atoms (used by SkipEngine rule D3 and DependencyIndex propagation).
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Key renders the JSON-encoded form used as a map key throughout the
// delta-set and DependencyIndex data model (spec.md §3: "stringified path").
func (p Path) Key() string {
	b, err := json.Marshal([]Atom(p))
	if err != nil {
		// Atoms only ever marshal strings/ints; this cannot fail in practice.
		panic(err)
	}
	return string(b)
}

// ParsePathKey is the inverse of Path.Key.
func ParsePathKey(key string) (Path, error) {
	var p Path
	if err := json.Unmarshal([]byte(key), &p); err != nil {
		return nil, fmt.Errorf("parsing path key %q: %w", key, err)
	}
	return p, nil
}

// String renders a human-readable dotted form, e.g. "spec.tls[0].cert".
func (p Path) String() string {
	var b strings.Builder
	for i, a := range p {
		if a.IsIndex {
			fmt.Fprintf(&b, "[%d]", a.Index)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(a.Key)
	}
	return b.String()
}

// CanonicalAtom lowercases string atoms for case-insensitive matching
// (spec.md §4.1: "Canonicalization lowercases strings"). Integer indices
// canonicalize to themselves; two atoms of different kinds never canonicalize
// equal.
func CanonicalAtom(a Atom) Atom {
	if a.IsIndex {
		return a
	}
	return Atom{Key: strings.ToLower(a.Key)}
}

// notPresent is the sentinel type for "field absent" (spec.md §3).
type notPresent struct{}

// NotPresent distinguishes "field absent" from "field set to null".
var NotPresent = notPresent{}

// IsNotPresent reports whether v is the NotPresent sentinel.
func IsNotPresent(v interface{}) bool {
	_, ok := v.(notPresent)
	return ok
}

// MatchesAnyRegex reports whether s matches any of the given (pre-validated)
// regular expressions. Used for GenericFields / ExcludeErrorRegex config
// lookups.
func MatchesAnyRegex(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// CompileRegexSet compiles a list of regex strings, skipping any that fail
// to compile rather than aborting construction -- mirrors the teacher's
// config validation being a separate, earlier gate (internal/config
// rejects bad regex before a Checker is ever built, via ValidationErrors).
// Each skipped pattern is recorded as a WarningError and printed to stderr
// immediately, so a Checker built from an already-invalid config still
// surfaces the problem instead of silently matching fewer lines than
// configured.
func CompileRegexSet(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			NewWarningError("ignoring unparseable regex %q: %s", p, err).Warn()
			continue
		}
		out = append(out, re)
	}
	return out
}

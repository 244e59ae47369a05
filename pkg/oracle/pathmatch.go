package oracle

// MatchConfig carries the subset of the global config that path matching
// needs, so pathmatch.go has no dependency on internal/config.
type MatchConfig struct {
	// GenericFields are compiled field-name patterns (e.g. "^name$") that
	// short-circuit suffix matching: when the LAST atom of the query path
	// (the input delta's own path, not a candidate's) matches one of
	// these, matching returns nothing at all -- a generic field name like
	// "name" or "value" carries no positional information to match on
	// (spec.md §4.1).
	GenericFields []string
	// InclusiveMatch, when true, adds to the longest-common-suffix
	// matches every shorter candidate whose whole path is a suffix of
	// the target (see longestSuffixMatches in state_oracle.go). Decided Open
	// Question #1 (SPEC_FULL.md): default false.
	InclusiveMatch bool
}

// compiledMatcher caches the compiled regex set for a MatchConfig's
// GenericFields so repeated lookups (one per delta) don't recompile on
// every call.
type compiledMatcher struct {
	matchAny func(string) bool
}

func newCompiledMatcher(cfg MatchConfig) *compiledMatcher {
	res := CompileRegexSet(cfg.GenericFields)
	return &compiledMatcher{
		matchAny: func(s string) bool {
			return MatchesAnyRegex(res, s)
		},
	}
}

// isGenericAtom reports whether atom a's string form matches one of the
// configured generic-field patterns.
func (m *compiledMatcher) isGenericAtom(a Atom) bool {
	if a.IsIndex {
		return false
	}
	return m.matchAny(a.Key)
}

// SuffixLen returns the length of the longest common canonical suffix
// shared between candidate and target, where canonical means
// case-insensitive key comparison (CanonicalAtom) with exact index
// equality (spec.md §4.1: "Canonicalization lowercases strings;
// numeric-index equality is exact").
func SuffixLen(candidate, target Path) int {
	n := 0
	for n < len(candidate) && n < len(target) {
		a := CanonicalAtom(candidate[len(candidate)-1-n])
		b := CanonicalAtom(target[len(target)-1-n])
		if a != b {
			break
		}
		n++
	}
	return n
}

// MatchCandidate is one path entry eligible to match against a target
// Delta's path.
type MatchCandidate struct {
	Path Path
	// Data is caller-defined payload carried alongside the candidate path
	// so the winning match can be used directly without a second lookup.
	Data interface{}
}

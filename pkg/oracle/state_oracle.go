package oracle

import "fmt"

// StateOracle decides whether every input delta is explained by a
// corresponding system-state delta (spec.md §4.4). It is the only oracle
// that consults SkipEngine, and the only one whose Error verdict carries
// both the offending input delta and the system delta it disagreed with.
type StateOracle struct {
	Skip  *SkipEngine
	Match MatchConfig
	// ExcludeKind names a top-level system-delta key excised before
	// matching -- the custom resource's own spec, which duplicates
	// input_delta and would otherwise trivially "explain" every input
	// change against itself (spec.md §4.4 step 3).
	ExcludeKind string
}

// NewStateOracle constructs a StateOracle.
func NewStateOracle(skip *SkipEngine, match MatchConfig) *StateOracle {
	return &StateOracle{Skip: skip, Match: match, ExcludeKind: "custom_resource_spec"}
}

// Check runs the rule 4.4 algorithm over one generation's deltas. newInput
// is the post-mutation input document, used by SkipEngine condition
// checks.
func (o *StateOracle) Check(inputDeltas InputDeltaSet, systemDeltas SystemDeltaSet, newInput interface{}) Verdict {
	working := excise(systemDeltas, o.ExcludeKind)
	workingList := working.Paths()

	for _, d := range inputDeltas.Paths() {
		if d.Unchanged() {
			continue
		}

		if o.Skip != nil {
			if _, skip := o.Skip.ShouldSkip(d, newInput); skip {
				continue
			}
		}

		candidates := make([]MatchCandidate, 0, len(workingList))
		for _, s := range workingList {
			candidates = append(candidates, MatchCandidate{Path: s.Path, Data: s})
		}

		matches := longestSuffixMatches(o.Match, d.Path, candidates)

		if len(matches) > 0 {
			for _, m := range matches {
				sd := m.Data.(Delta)
				if !compareDeltas(d, sd) {
					return Verdict{
						Tag:    TagState,
						Result: RunResult{Kind: ResultError},
						Reason: fmt.Sprintf("matched delta inconsistent with input delta: input %s (%v -> %v) vs system %s (%v -> %v)",
							d.Path, d.Prev, d.Curr, sd.Path, sd.Prev, sd.Curr),
						StateError: &StateErrorDetail{InputDelta: d, MatchDelta: &sd},
					}
				}
			}
			continue
		}

		if found := wildcardFallbackMatch(d, workingList); found {
			continue
		}

		return Verdict{
			Tag:        TagState,
			Result:     RunResult{Kind: ResultError},
			Reason:     fmt.Sprintf("found no matching field for input delta %s", d.Path),
			StateError: &StateErrorDetail{InputDelta: d},
		}
	}

	return Verdict{Tag: TagState, Result: RunResult{Kind: ResultPass}}
}

// excise returns a copy of deltas with every entry whose path's first
// atom equals kind removed.
func excise(deltas SystemDeltaSet, kind string) SystemDeltaSet {
	out := make(SystemDeltaSet, len(deltas))
	for k, d := range deltas {
		if len(d.Path) > 0 && !d.Path[0].IsIndex && d.Path[0].Key == kind {
			continue
		}
		out[k] = d
	}
	return out
}

// longestSuffixMatches returns every candidate achieving the maximum
// suffix-overlap length against target (ties all returned), honoring the
// generic-field short-circuit (spec.md §4.1: "if the last atom of P
// matches any generic regex, return empty").
//
// When cfg.InclusiveMatch is set (SPEC_FULL.md Open Question 1), a shorter
// candidate whose entire path is itself consumed as a suffix of target is
// also included even when some other candidate achieves a strictly longer
// overlap -- the symmetric-maximization default would otherwise discard a
// perfectly good, fully-matched shorter candidate just because a longer,
// unrelated path also happens to overlap target.
func longestSuffixMatches(cfg MatchConfig, target Path, candidates []MatchCandidate) []MatchCandidate {
	if len(target) == 0 {
		return nil
	}
	m := newCompiledMatcher(cfg)
	if m.isGenericAtom(target[len(target)-1]) {
		return nil
	}

	bestLen := 0
	var best []MatchCandidate
	for _, c := range candidates {
		suf := SuffixLen(c.Path, target)
		if suf == 0 {
			continue
		}
		switch {
		case suf > bestLen:
			bestLen = suf
			best = []MatchCandidate{c}
		case suf == bestLen:
			best = append(best, c)
		}
	}

	if cfg.InclusiveMatch {
		for _, c := range candidates {
			if len(c.Path) == 0 || len(c.Path) >= bestLen {
				continue
			}
			if SuffixLen(c.Path, target) != len(c.Path) {
				continue
			}
			if containsPath(best, c.Path) {
				continue
			}
			best = append(best, c)
		}
	}

	return best
}

// containsPath reports whether any candidate in matches has exactly path.
func containsPath(matches []MatchCandidate, path Path) bool {
	for _, m := range matches {
		if m.Path.Equal(path) {
			return true
		}
	}
	return false
}

// wildcardFallbackMatch implements step 4e's "search the entire working
// system delta for any state delta whose transition is compare-consistent
// with d", used when no path-based match exists at all.
func wildcardFallbackMatch(d Delta, all []Delta) bool {
	for _, s := range all {
		if compareDeltas(d, s) {
			return true
		}
	}
	return false
}

// compareDeltas implements the `compare(prev, curr, match.prev, match.curr)`
// predicate from spec.md §4.4: the system field changed in a manner
// consistent with the input change. Two transitions are consistent when
// they are value-equivalent on both sides under input comparison, or when
// both represent the same direction of numeric change (both increases or
// both decreases), since many controllers propagate a scalar field
// verbatim while others translate it (e.g. replica count to ready count).
func compareDeltas(input, system Delta) bool {
	if inputCompare(input.Prev, system.Prev) && inputCompare(input.Curr, system.Curr) {
		return true
	}

	ip, iok := asFloat(input.Prev)
	ic, icok := asFloat(input.Curr)
	sp, sok := asFloat(system.Prev)
	sc, scok := asFloat(system.Curr)
	if iok && icok && sok && scok {
		return sign(ic-ip) == sign(sc-sp)
	}

	return inputCompare(input.Curr, system.Curr)
}

func sign(f float64) int {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

package oracle

import (
	"fmt"
	"reflect"
	"sort"
)

// Delta records a single field-level change between two document snapshots:
// the addressed Path, and its previous/current values. Either side may be
// NotPresent. (spec.md §3 "Delta".)
type Delta struct {
	Path Path
	Prev interface{}
	Curr interface{}
}

// Unchanged reports whether Prev and Curr are value-equivalent, i.e. this
// Delta carries no information (used to prune no-op entries before they
// ever reach SkipEngine).
func (d Delta) Unchanged() bool {
	return valueEqual(d.Prev, d.Curr)
}

// InputDeltaSet is the field-level diff of a trial's two input documents
// (desired-state objects submitted to the system under test), keyed by
// Path.Key().
type InputDeltaSet map[string]Delta

// SystemDeltaSet is the field-level diff of a trial's two observed system
// states (e.g. two successive reconciled object snapshots), keyed by
// Path.Key().
type SystemDeltaSet map[string]Delta

// Paths returns the set's deltas sorted by path for deterministic
// iteration (spec.md §8 Determinism).
func (s InputDeltaSet) Paths() []Delta { return sortedDeltas(map[string]Delta(s)) }

// Paths returns the set's deltas sorted by path for deterministic
// iteration (spec.md §8 Determinism).
func (s SystemDeltaSet) Paths() []Delta { return sortedDeltas(map[string]Delta(s)) }

func sortedDeltas(m map[string]Delta) []Delta {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Delta, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// IdentityFields lists the object keys tried, in order, when matching array
// elements across two snapshots without relying on index stability --
// grounded on internal/utils/tree's NameFields convention, generalized to
// a configurable set since the spec's target objects use "name" almost
// universally but occasionally "key" for map-shaped lists.
var IdentityFields = []string{"name", "key", "id"}

// Differ computes the order-insensitive structural diff between two
// arbitrary JSON-shaped values (spec.md §3/§4.1). Maps are compared
// field-by-field; arrays are matched by identity field when their elements
// are objects exposing one, falling back to positional matching otherwise.
// A repeated identity value within one side's array is reported back to
// the caller rather than silently dropped, since it signals the array
// itself violates the assumption identity-matching depends on.
type Differ struct {
	// Repetitions accumulates "identity field value appears more than once"
	// warnings discovered during the most recent Diff call.
	Repetitions []string
}

// NewDiffer constructs a Differ.
func NewDiffer() *Differ { return &Differ{} }

// Diff walks prev and curr together and returns every leaf-level Delta
// where the two sides differ. Unchanged leaves are omitted, matching the
// property that an empty returned set means "no detectable change"
// (spec.md §8, Identity property).
func (d *Differ) Diff(prev, curr interface{}) map[string]Delta {
	d.Repetitions = nil
	out := make(map[string]Delta)
	d.walk(nil, prev, curr, out)
	return out
}

func (d *Differ) walk(path Path, prev, curr interface{}, out map[string]Delta) {
	prevPresent := !IsNotPresent(prev)
	currPresent := !IsNotPresent(curr)

	if !prevPresent && !currPresent {
		return
	}

	prevMap, prevIsMap := asMap(prev)
	currMap, currIsMap := asMap(curr)
	if prevIsMap && currIsMap {
		d.walkMap(path, prevMap, currMap, out)
		return
	}

	prevSlice, prevIsSlice := asSlice(prev)
	currSlice, currIsSlice := asSlice(curr)
	if prevIsSlice && currIsSlice {
		d.walkSlice(path, prevSlice, currSlice, out)
		return
	}

	if valueEqual(prev, curr) {
		return
	}
	record(path, prev, curr, out)
}

func (d *Differ) walkMap(path Path, prev, curr map[string]interface{}, out map[string]Delta) {
	keys := make(map[string]struct{}, len(prev)+len(curr))
	for k := range prev {
		keys[k] = struct{}{}
	}
	for k := range curr {
		keys[k] = struct{}{}
	}
	for k := range keys {
		childPath := append(append(Path{}, path...), StringAtom(k))
		pv, ok := prev[k]
		if !ok {
			pv = NotPresent
		}
		cv, ok := curr[k]
		if !ok {
			cv = NotPresent
		}
		d.walk(childPath, pv, cv, out)
	}
}

func (d *Differ) walkSlice(path Path, prev, curr []interface{}, out map[string]Delta) {
	prevByID, prevOK := indexByIdentity(prev)
	currByID, currOK := indexByIdentity(curr)

	if !prevOK || !currOK {
		d.walkSlicePositional(path, prev, curr, out)
		return
	}

	d.checkRepetition(path, prev)
	d.checkRepetition(path, curr)

	ids := make(map[string]struct{}, len(prevByID)+len(currByID))
	for id := range prevByID {
		ids[id] = struct{}{}
	}
	for id := range currByID {
		ids[id] = struct{}{}
	}
	sortedIDs := make([]string, 0, len(ids))
	for id := range ids {
		sortedIDs = append(sortedIDs, id)
	}
	sort.Strings(sortedIDs)

	for _, id := range sortedIDs {
		childPath := append(append(Path{}, path...), StringAtom(id))
		pv, ok := prevByID[id]
		if !ok {
			pv = NotPresent
		}
		cv, ok := currByID[id]
		if !ok {
			cv = NotPresent
		}
		d.walk(childPath, pv, cv, out)
	}
}

func (d *Differ) walkSlicePositional(path Path, prev, curr []interface{}, out map[string]Delta) {
	n := len(prev)
	if len(curr) > n {
		n = len(curr)
	}
	for i := 0; i < n; i++ {
		childPath := append(append(Path{}, path...), IndexAtom(i))
		var pv, cv interface{} = NotPresent, NotPresent
		if i < len(prev) {
			pv = prev[i]
		}
		if i < len(curr) {
			cv = curr[i]
		}
		d.walk(childPath, pv, cv, out)
	}
}

// checkRepetition records a warning when the same identity value appears
// on more than one element of arr.
func (d *Differ) checkRepetition(path Path, arr []interface{}) {
	seen := make(map[string]int)
	for _, el := range arr {
		m, ok := asMap(el)
		if !ok {
			continue
		}
		id, ok := identityValue(m)
		if !ok {
			continue
		}
		seen[id]++
	}
	for id, count := range seen {
		if count > 1 {
			d.Repetitions = append(d.Repetitions, fmt.Sprintf("%s: identity value %q repeated %d times", path, id, count))
		}
	}
}

func record(path Path, prev, curr interface{}, out map[string]Delta) {
	p := append(Path{}, path...)
	out[p.Key()] = Delta{Path: p, Prev: prev, Curr: curr}
}

func indexByIdentity(arr []interface{}) (map[string]interface{}, bool) {
	if len(arr) == 0 {
		return map[string]interface{}{}, true
	}
	out := make(map[string]interface{}, len(arr))
	for _, el := range arr {
		m, ok := asMap(el)
		if !ok {
			return nil, false
		}
		id, ok := identityValue(m)
		if !ok {
			return nil, false
		}
		out[id] = el
	}
	return out, true
}

func identityValue(m map[string]interface{}) (string, bool) {
	for _, field := range IdentityFields {
		if v, ok := m[field]; ok {
			return fmt.Sprint(v), true
		}
	}
	return "", false
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

func asSlice(v interface{}) ([]interface{}, bool) {
	s, ok := v.([]interface{})
	return s, ok
}

// valueEqual is the baseline value-equivalence used by the Differ itself
// (exact, type-sensitive). inputCompare layers coercion
// rules on top of this for oracle-facing comparisons (compare.go).
func valueEqual(a, b interface{}) bool {
	if IsNotPresent(a) || IsNotPresent(b) {
		return IsNotPresent(a) && IsNotPresent(b)
	}
	return reflect.DeepEqual(a, b)
}

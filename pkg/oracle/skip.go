package oracle

import "github.com/wayneeseguin/ctrloracle/pkg/schema"

// SkipEngine decides whether an observed input Delta's mutation is
// legitimately expected not to surface in cluster state, and so may be
// skipped before StateOracle attempts to match it against the system
// delta set (spec.md §4.3). It applies, in order, stopping at the first
// rule that fires:
//
//	D1 default-value no-op: the schema default at delta.path equals one
//	                         side of the delta while the other side is
//	                         NotPresent.
//	D2 exact dependency:     delta.path is a key in the DependencyIndex;
//	                         skip if any of its conditions fails against
//	                         the new input.
//	D3 ancestor dependency:  the nearest registered parent of delta.path
//	                         has a condition that fails against the new
//	                         input.
//	D4 control-flow gate:    delta.path matches, atom-for-atom at equal
//	                         length, one of the statically-analyzed
//	                         control_flow_fields, where "INDEX" matches any
//	                         decimal-digit atom.
type SkipEngine struct {
	Schema            schema.Node
	Index             *DependencyIndex
	ControlFlowFields []Path
}

// NewSkipEngine constructs a SkipEngine over the given object schema,
// dependency index, and (optionally empty) control-flow field list.
func NewSkipEngine(root schema.Node, index *DependencyIndex, controlFlowFields []Path) *SkipEngine {
	return &SkipEngine{Schema: root, Index: index, ControlFlowFields: controlFlowFields}
}

// SkipReason names which rule explained a delta, for the delta log.
type SkipReason string

const (
	SkipNone        SkipReason = ""
	SkipDefaultNoOp SkipReason = "D1:default-value-no-op"
	SkipExactDep    SkipReason = "D2:exact-dependency"
	SkipAncestorDep SkipReason = "D3:ancestor-dependency"
	SkipControlFlow SkipReason = "D4:control-flow-gate"
)

// ShouldSkip reports whether delta (an input delta) should be excluded
// from StateOracle matching, given the current input document newInput
// (the post-mutation input, used to evaluate gating conditions).
func (e *SkipEngine) ShouldSkip(delta Delta, newInput interface{}) (SkipReason, bool) {
	if e.isDefaultValueNoOp(delta) {
		return SkipDefaultNoOp, true
	}

	if e.Index != nil {
		if conds, ok := e.Index.ExactConditions(delta.Path); ok {
			if anyConditionFails(conds, newInput) {
				return SkipExactDep, true
			}
		} else if conds, ok := e.Index.NearestParentConditions(delta.Path); ok {
			if anyConditionFails(conds, newInput) {
				return SkipAncestorDep, true
			}
		}
	}

	if e.matchesControlFlowField(delta.Path) {
		return SkipControlFlow, true
	}

	return SkipNone, false
}

// isDefaultValueNoOp implements rule D1: a schema lookup failure (path
// not found, no default declared) degrades gracefully to "does not
// apply" rather than erroring the whole check (spec.md §7 propagation
// policy); a path the schema does not resolve also prints a warning.
func (e *SkipEngine) isDefaultValueNoOp(d Delta) bool {
	if e.Schema == nil {
		return false
	}
	node, ok := schema.GetByPath(e.Schema, pathComponents(d.Path))
	if !ok {
		NewWarningError("no schema node for %s; rule D1 does not apply", d.Path.String()).Warn()
		return false
	}
	def, hasDefault := node.Default()
	if !hasDefault {
		return false
	}
	switch {
	case IsNotPresent(d.Prev):
		return inputCompare(d.Curr, def)
	case IsNotPresent(d.Curr):
		return inputCompare(d.Prev, def)
	default:
		return false
	}
}

// anyConditionFails evaluates each condition against input by descending
// along its Field path ("INDEX" resolves to integer index 0 per spec.md
// §4.3), returning true as soon as one condition is not satisfied --
// i.e. the delta's mutation should be skipped.
func anyConditionFails(conds []Condition, input interface{}) bool {
	for _, c := range conds {
		if !evaluateCondition(c, input) {
			return true
		}
	}
	return false
}

// evaluateCondition descends input along c.Field (treating an "INDEX"
// atom as integer index 0), then compares the resolved value against
// c.Value via translateOp. A failed descent (missing key, or expecting
// an object/array where the value isn't one) is satisfied iff the
// operator is Eq and c.Value is nil -- the field's absence is itself
// the expected "false" state. On a resolved boolean value, when c.Value
// is the literal string "true"/"false" rather than a real bool, it is
// coerced and the comparison retried (spec.md "Condition mutation
// hazard": coercion must happen into a local, never mutating c).
func evaluateCondition(c Condition, input interface{}) bool {
	value, ok := descend(input, c.Field)
	if !ok {
		return c.Op == OpEq && c.Value == nil
	}

	ok2, err := translateOp(c.Op, value, c.Value)
	if err == nil && ok2 {
		return true
	}

	if b, isBool := value.(bool); isBool {
		coerced := c.Value
		if s, isStr := c.Value.(string); isStr {
			switch s {
			case "true":
				coerced = true
			case "false":
				coerced = false
			}
		}
		ok3, err3 := translateOp(c.Op, b, coerced)
		return err3 == nil && ok3
	}

	return false
}

// descend walks value along path, treating a non-index atom as a map key
// and an index atom as a slice index; a string atom "INDEX" is read as
// index 0 into a local copy, never changing path. Returns false on any
// missing key, out-of-range index, or type mismatch.
func descend(value interface{}, path Path) (interface{}, bool) {
	cur := value
	for _, a := range path {
		if !a.IsIndex && a.Key == "INDEX" {
			a = IndexAtom(0)
		}
		if a.IsIndex {
			slice, ok := cur.([]interface{})
			if !ok || a.Index < 0 || a.Index >= len(slice) {
				return nil, false
			}
			cur = slice[a.Index]
			continue
		}
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := m[a.Key]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// matchesControlFlowField implements rule D4: delta.Path matches a
// control-flow gate if they share length and every atom matches, where a
// gate atom of "INDEX" matches any index atom in delta.Path.
func (e *SkipEngine) matchesControlFlowField(path Path) bool {
	for _, gate := range e.ControlFlowFields {
		if ConditionPathMatches(gate, path) {
			return true
		}
	}
	return false
}

func pathComponents(p Path) []string {
	out := make([]string, 0, len(p))
	for _, a := range p {
		out = append(out, a.String())
	}
	return out
}

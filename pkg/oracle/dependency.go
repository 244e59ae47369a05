package oracle

import "github.com/wayneeseguin/ctrloracle/pkg/schema"

// Condition is one precondition attached to a DependencyIndex entry: the
// dependent field is only expected to change when the value at Field
// satisfies Op against Value (spec.md §4.3 "Condition evaluation").
type Condition struct {
	Field Path        `json:"field"`
	Op    Op          `json:"op"`
	Value interface{} `json:"value"`
}

// DependencyIndex is the build-time encoding of "a property is only
// observable when its sibling enabled == true" (spec.md §4.1/§4.3),
// derived once per trial by walking the input schema: every object node
// that declares a literal "enabled" property gets one entry, keyed by its
// own (JSON-encoded) path, holding the condition that its own "enabled"
// property must equal "true". SkipEngine rule D2 looks this map up by
// exact path; rule D3 falls back to the longest registered prefix.
type DependencyIndex struct {
	// byPath maps a path key (Path.Key()) to the conditions gating it.
	byPath map[string][]Condition
	// paths preserves insertion order isn't required; kept as a parallel
	// slice of decoded keys so Lookup can walk for prefix matches without
	// re-parsing every key on every call.
	paths []Path
}

// NewDependencyIndex builds an empty index.
func NewDependencyIndex() *DependencyIndex {
	return &DependencyIndex{byPath: make(map[string][]Condition)}
}

// Add registers dependent as gated by condition, appending to any
// conditions already recorded at that exact path.
func (idx *DependencyIndex) Add(dependent Path, condition Condition) {
	key := dependent.Key()
	if _, ok := idx.byPath[key]; !ok {
		idx.paths = append(idx.paths, append(Path{}, dependent...))
	}
	idx.byPath[key] = append(idx.byPath[key], condition)
}

// BuildFromSchema walks a schema tree top-down. Whenever an object node
// exposes a literal "enabled" property, it ensures the object's own path
// is present as a key (so D2/D3 always has something to find) and, per
// spec.md §4.1's "Dependency encoding (build time)" rule, also appends the
// same condition to every path already registered in the index whose
// prefix equals the object's path -- propagating "enabled gates subfields"
// to any deeper gate discovered earlier in the walk. Gates discovered
// later, on paths not yet registered, are still covered at check time via
// rule D3's nearest-parent lookup.
func (idx *DependencyIndex) BuildFromSchema(root schema.Node) {
	idx.walkSchema(nil, root)
}

func (idx *DependencyIndex) walkSchema(path Path, node schema.Node) {
	if node == nil {
		return
	}
	switch n := node.(type) {
	case schema.ObjectNode:
		if _, ok := n.Property("enabled"); ok {
			enabledPath := append(append(Path{}, path...), StringAtom("enabled"))
			cond := Condition{Field: enabledPath, Op: OpEq, Value: "true"}

			if _, ok := idx.byPath[path.Key()]; !ok {
				idx.paths = append(idx.paths, append(Path{}, path...))
				idx.byPath[path.Key()] = nil
			}
			for _, existing := range idx.paths {
				if existing.HasPrefix(path) {
					idx.byPath[existing.Key()] = append(idx.byPath[existing.Key()], cond)
				}
			}
		}
		for name, child := range n.Properties() {
			childPath := append(append(Path{}, path...), StringAtom(name))
			idx.walkSchema(childPath, child)
		}
	case schema.ArrayNode:
		idx.walkSchema(append(append(Path{}, path...), IndexAtom(0)), n.Items())
	}
}

// ExactConditions returns the conditions registered at exactly path (rule
// D2), and whether any entry exists.
func (idx *DependencyIndex) ExactConditions(path Path) ([]Condition, bool) {
	c, ok := idx.byPath[path.Key()]
	return c, ok
}

// NearestParentConditions implements rule D3: the conditions registered
// at the longest path Q that is a strict-or-equal prefix of path. Returns
// false if no registered path is a prefix of path at all.
func (idx *DependencyIndex) NearestParentConditions(path Path) ([]Condition, bool) {
	bestLen := -1
	var best Path
	for _, candidate := range idx.paths {
		if len(candidate) > len(path) {
			continue
		}
		if !path.HasPrefix(candidate) {
			continue
		}
		if len(candidate) > bestLen {
			bestLen = len(candidate)
			best = candidate
		}
	}
	if bestLen < 0 {
		return nil, false
	}
	return idx.byPath[best.Key()], true
}

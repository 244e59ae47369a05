package oracle

import "github.com/wayneeseguin/ctrloracle/pkg/schema"

// AnalysisResult is the static analyzer's output (spec.md §6
// `context.analysis_result`), supplied to NewChecker when
// Config.EnableAnalysis is set. Its three fields correspond exactly to the
// original source's field_conditions_map, control_flow_fields, and
// default_value_map -- an external producer out of this module's scope
// (spec.md §2), consumed here as a plain data value.
type AnalysisResult struct {
	// FieldConditionsMap seeds DependencyIndex before the schema's own
	// "enabled"-property walk runs, keyed by Path.Key() (spec.md §6).
	FieldConditionsMap map[string][]Condition `json:"field_conditions_map"`
	// ControlFlowFields feeds SkipEngine rule D4.
	ControlFlowFields []Path `json:"control_flow_fields"`
	// DefaultValueMap overrides/augments the schema tree's own declared
	// defaults before the tree is used for D1 lookups or ApplyDefaults,
	// keyed by Path.Key().
	DefaultValueMap map[string]interface{} `json:"default_value_map"`
}

// seedDependencyIndex registers every condition in r.FieldConditionsMap
// against idx, mirroring the original source's construction order: the
// analysis result's map is installed before the schema's own "enabled"
// walk runs, so BuildFromSchema's prefix-propagation step also extends
// entries seeded here (checker.py: self.field_conditions_map assigned
// before self.helper() walks the schema).
func (r *AnalysisResult) seedDependencyIndex(idx *DependencyIndex) {
	if r == nil {
		return
	}
	for key, conds := range r.FieldConditionsMap {
		path, err := ParsePathKey(key)
		if err != nil {
			NewWarningError("ignoring malformed field_conditions_map path %q: %s", key, err).Warn()
			continue
		}
		for _, c := range conds {
			idx.Add(path, c)
		}
	}
}

// overlayDefaultValueMap returns a copy of root with every default named in
// defaults (keyed by Path.Key()) applied over the node's own declared
// default, leaving every other node untouched. Used to implement spec.md
// §6's "default_value_map ... applied to the input schema before
// checking" without re-decoding the OpenAPI document.
func overlayDefaultValueMap(root schema.Node, defaults map[string]interface{}) schema.Node {
	if len(defaults) == 0 {
		return root
	}
	return overlayNode(nil, root, defaults)
}

func overlayNode(path Path, node schema.Node, defaults map[string]interface{}) schema.Node {
	if node == nil {
		return node
	}

	def, hasDefault := node.Default()
	if override, ok := defaults[path.Key()]; ok {
		def, hasDefault = override, true
	}

	switch n := node.(type) {
	case schema.ObjectNode:
		props := make(map[string]schema.Node, len(n.Properties()))
		for name, child := range n.Properties() {
			props[name] = overlayNode(append(append(Path{}, path...), StringAtom(name)), child, defaults)
		}
		return schema.NewObjectNode(props, def, hasDefault)
	case schema.ArrayNode:
		items := overlayNode(append(append(Path{}, path...), IndexAtom(0)), n.Items(), defaults)
		return schema.NewArrayNode(items, def, hasDefault)
	default:
		return schema.NewScalarNode(node.Type(), def, hasDefault)
	}
}

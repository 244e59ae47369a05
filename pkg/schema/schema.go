// Package schema models the subset of OpenAPI v3 schema shapes the oracle
// needs: enough to walk an object's structure for DependencyIndex
// construction and to apply server-side default values before diffing
// (spec.md §6, "Supplemented from original_source/checker.py": the Python
// input_model.get_root_schema()/get_schema_by_path() pair).
package schema

// Node is the common interface satisfied by every schema node kind.
type Node interface {
	// Type returns the OpenAPI-ish type name: "object", "array", "string",
	// "integer", "number", "boolean".
	Type() string
	// Default returns the node's default value and whether one is set.
	Default() (interface{}, bool)
}

// baseNode carries the fields common to every concrete node type.
type baseNode struct {
	typ          string
	defaultValue interface{}
	hasDefault   bool
}

func (b baseNode) Type() string { return b.typ }
func (b baseNode) Default() (interface{}, bool) {
	return b.defaultValue, b.hasDefault
}

// ScalarNode is a string/integer/number/boolean leaf.
type ScalarNode struct {
	baseNode
}

// NewScalarNode builds a leaf schema node of the given OpenAPI type.
func NewScalarNode(typ string, def interface{}, hasDefault bool) ScalarNode {
	return ScalarNode{baseNode{typ: typ, defaultValue: def, hasDefault: hasDefault}}
}

// ObjectNode is an OpenAPI "object" schema node with named properties.
type ObjectNode struct {
	baseNode
	properties map[string]Node
}

// NewObjectNode builds an object schema node.
func NewObjectNode(properties map[string]Node, def interface{}, hasDefault bool) ObjectNode {
	return ObjectNode{baseNode{typ: "object", defaultValue: def, hasDefault: hasDefault}, properties}
}

// Properties returns the node's named child schemas.
func (o ObjectNode) Properties() map[string]Node { return o.properties }

// Property returns one named child schema, and whether it exists.
func (o ObjectNode) Property(name string) (Node, bool) {
	n, ok := o.properties[name]
	return n, ok
}

// ArrayNode is an OpenAPI "array" schema node with a single items schema.
type ArrayNode struct {
	baseNode
	items Node
}

// NewArrayNode builds an array schema node.
func NewArrayNode(items Node, def interface{}, hasDefault bool) ArrayNode {
	return ArrayNode{baseNode{typ: "array", defaultValue: def, hasDefault: hasDefault}, items}
}

// Items returns the schema shared by every element of the array.
func (a ArrayNode) Items() Node { return a.items }

// GetByPath walks root along the given dotted-style path components
// (mirroring the original Python input_model.get_schema_by_path()),
// descending into ObjectNode properties by name and into ArrayNode items
// for any component (an index or an identity-field value). Returns false
// if the path does not resolve.
func GetByPath(root Node, components []string) (Node, bool) {
	cur := root
	for _, c := range components {
		switch n := cur.(type) {
		case ObjectNode:
			child, ok := n.Property(c)
			if !ok {
				return nil, false
			}
			cur = child
		case ArrayNode:
			cur = n.Items()
		default:
			return nil, false
		}
	}
	return cur, true
}

package yaml

import (
	"fmt"
	"sort"
)

// Kind represents type of the Node value
type Kind uint8

const (
	ScalarKind Kind = iota
	MappingKind
	SequenceKind
)

// String is used to satisfy fmt.Stringer interface
func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case MappingKind:
		return "mapping"
	case SequenceKind:
		return "sequence"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Node represents a value of the simplified YAML tree.
//
// Only the fields matching Kind are used: Value for scalars, Keys and Fields for mappings, Items for sequences.
//
// Keys keeps insertion order of Fields and is used for output only.
type Node struct {
	Kind   Kind
	Value  string
	Keys   []string
	Fields map[string]*Node
	Items  []*Node
}

// NewScalar returns new scalar node holding <value>
func NewScalar(value string) *Node {
	return &Node{Kind: ScalarKind, Value: value}
}

// NewMapping returns new empty mapping node
func NewMapping() *Node {
	return &Node{Kind: MappingKind, Fields: map[string]*Node{}}
}

// NewSequence returns new sequence node holding <items>
func NewSequence(items ...*Node) *Node {
	return &Node{Kind: SequenceKind, Items: items}
}

// Set assigns <value> to <key> of mapping node <n>, replacing previous value if any.
//
// Returns <n> to allow chaining.
func (n *Node) Set(key string, value *Node) *Node {
	if n.Fields == nil {
		n.Fields = map[string]*Node{}
	}
	if _, ok := n.Fields[key]; !ok {
		n.Keys = append(n.Keys, key)
	}
	n.Fields[key] = value
	return n
}

// Get returns value of <key> of mapping node <n> and true if found
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != MappingKind {
		return nil, false
	}
	child, ok := n.Fields[key]
	return child, ok
}

// Lookup returns node found by following <keys> from <n> and true if found
func (n *Node) Lookup(keys ...string) (*Node, bool) {
	cur := n
	for _, key := range keys {
		next, ok := cur.Get(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// Interface returns <n> converted to string, map[string]any or []any
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case MappingKind:
		out := make(map[string]any, len(n.Fields))
		for key, child := range n.Fields {
			out[key] = child.Interface()
		}
		return out
	case SequenceKind:
		out := make([]any, 0, len(n.Items))
		for _, item := range n.Items {
			out = append(out, item.Interface())
		}
		return out
	}
	return n.Value
}

// FromAny returns <v> converted to Node.
//
// Maps become mappings (keys sorted since map order is random), slices become sequences, nil becomes an empty
// scalar and everything else becomes a scalar holding it's fmt representation.
func FromAny(v any) *Node {
	switch val := v.(type) {
	case nil:
		return NewScalar("")
	case *Node:
		return val
	case string:
		return NewScalar(val)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := NewMapping()
		for _, key := range keys {
			out.Set(key, FromAny(val[key]))
		}
		return out
	case map[any]any:
		conv := make(map[string]any, len(val))
		for key, child := range val {
			conv[fmt.Sprint(key)] = child
		}
		return FromAny(conv)
	case []any:
		out := NewSequence()
		for _, item := range val {
			out.Items = append(out.Items, FromAny(item))
		}
		return out
	case []string:
		out := NewSequence()
		for _, item := range val {
			out.Items = append(out.Items, NewScalar(item))
		}
		return out
	}
	return NewScalar(fmt.Sprint(v))
}

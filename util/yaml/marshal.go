package yaml

import (
	"fmt"
	"strings"
)

// indentUnit represents one level of indentation
const indentUnit = "  "

// Marshal returns mapping node <n> written in the simplified YAML dialect
func Marshal(n *Node) string {
	return MarshalIndent(n, 0)
}

// MarshalIndent returns mapping node <n> written in the simplified YAML dialect starting at <indent> level.
//
// Sequence items are written as "- item" lines one level deeper than their key, without further nesting.
//
// Scalars which Parse would read differently (empty, ending with ':', wrapped in matching quotes, with outer
// spaces) are quoted.
func MarshalIndent(n *Node, indent int) string {
	if n == nil || n.Kind != MappingKind {
		return ""
	}

	var sb strings.Builder
	prefix := strings.Repeat(indentUnit, indent)

	for _, key := range n.Keys {
		child, ok := n.Fields[key]
		if !ok || child == nil {
			continue
		}
		switch child.Kind {
		case MappingKind:
			sb.WriteString(prefix + key + ":\n")
			sb.WriteString(MarshalIndent(child, indent+1))
		case SequenceKind:
			sb.WriteString(prefix + key + ":\n")
			for _, item := range child.Items {
				sb.WriteString(prefix + indentUnit + "- " + itemString(item) + "\n")
			}
		default:
			sb.WriteString(prefix + key + ": " + quote(child.Value) + "\n")
		}
	}

	return sb.String()
}

// itemString returns literal representation of sequence <item>
func itemString(item *Node) string {
	if item == nil {
		return ""
	}
	if item.Kind == ScalarKind {
		return item.Value
	}
	return fmt.Sprint(item.Interface())
}

// quote returns <value> wrapped in quotes if Parse would not read it back as is
func quote(value string) string {
	needQuotes := value == "" ||
		strings.HasSuffix(value, ":") ||
		strings.TrimSpace(value) != value ||
		(len(value) >= 2 && value[0] == value[len(value)-1] && (value[0] == '"' || value[0] == '\''))
	if !needQuotes {
		return value
	}
	if strings.HasPrefix(value, "'") || strings.HasSuffix(value, "'") {
		return `"` + value + `"`
	}
	return "'" + value + "'"
}

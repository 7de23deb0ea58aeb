package yaml

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	yamlv3 "gopkg.in/yaml.v3"
)

// Finding represents a difference between full YAML and simplified dialect reading of the same document
type Finding struct {
	Path   string
	Reason string
}

// String is used to satisfy fmt.Stringer interface
func (f Finding) String() string {
	return fmt.Sprintf("%v: %v", f.Path, f.Reason)
}

// Lint returns every path of <content> which Parse with <opts> drops or reads differently than a full YAML parser.
//
// Returns error if <content> is not valid YAML.
func Lint(content string, opts ParseOptions) ([]Finding, error) {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal([]byte(content), &doc); err != nil {
		return nil, errors.Wrap(err, "Parse YAML")
	}
	if doc.Kind != yamlv3.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}

	root := resolve(doc.Content[0])
	if root.Kind != yamlv3.MappingNode {
		return []Finding{{Path: "", Reason: "document root is not a mapping"}}, nil
	}

	return lintMapping(root, Parse(content, opts), nil), nil
}

// lintMapping returns findings for every key of <full> compared to <simple>
func lintMapping(full *yamlv3.Node, simple *Node, path []string) (out []Finding) {
	for i := 0; i+1 < len(full.Content); i += 2 {
		key := full.Content[i].Value
		val := resolve(full.Content[i+1])
		keyPath := append(append([]string{}, path...), key)
		pathStr := strings.Join(keyPath, ".")

		got, ok := simple.Get(key)
		if !ok {
			out = append(out, Finding{Path: pathStr, Reason: "key is not read"})
			continue
		}

		switch val.Kind {
		case yamlv3.SequenceNode:
			out = append(out, Finding{Path: pathStr, Reason: "sequence items are not read"})
		case yamlv3.MappingNode:
			if got.Kind != MappingKind {
				out = append(out, Finding{Path: pathStr, Reason: fmt.Sprintf("mapping is read as %v", got.Kind)})
				continue
			}
			out = append(out, lintMapping(val, got, keyPath)...)
		case yamlv3.ScalarNode:
			if got.Kind != ScalarKind {
				reason := fmt.Sprintf("scalar is read as %v", got.Kind)
				if val.Tag == "!!null" {
					reason = "empty value is read as an empty mapping"
				}
				out = append(out, Finding{Path: pathStr, Reason: reason})
				continue
			}
			if got.Value != val.Value {
				reason := fmt.Sprintf("value is read as %q instead of %q", got.Value, val.Value)
				out = append(out, Finding{Path: pathStr, Reason: reason})
			}
		}
	}
	return
}

// resolve returns target of <node> if it is an alias
func resolve(node *yamlv3.Node) *yamlv3.Node {
	for node.Kind == yamlv3.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

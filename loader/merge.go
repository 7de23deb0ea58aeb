package loader

import (
	"tachikoma_config/util/yaml"

	"github.com/samber/lo"
)

// Merge returns new map with keys of all <partials>, the rightmost value of a key wins.
//
// Only the top level is merged, nested values are taken as is.
func Merge[K comparable, V any](partials ...map[K]V) map[K]V {
	return lo.Assign(partials...)
}

// MergeNodes returns new mapping node with keys of all mapping <nodes>, the rightmost value of a key wins.
//
// Only the top level is merged. Nodes which are nil or not mappings are skipped.
func MergeNodes(nodes ...*yaml.Node) *yaml.Node {
	out := yaml.NewMapping()
	for _, node := range nodes {
		if node == nil || node.Kind != yaml.MappingKind {
			continue
		}
		for _, key := range node.Keys {
			if child, ok := node.Fields[key]; ok {
				out.Set(key, child)
			}
		}
	}
	return out
}

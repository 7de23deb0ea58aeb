package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// GetIndent returns amount of whitespace characters in the beginning of the <line>.
//
// Returns length of the <line> if it consists of whitespace only.
func GetIndent(line string) int {
	idx := strings.IndexFunc(line, func(r rune) bool {
		return !unicode.IsSpace(r)
	})
	if idx < 0 {
		return utf8.RuneCountInString(line)
	}
	return utf8.RuneCountInString(line[:idx])
}

// LastPathItem returns last item in <path> split by <delim> or <path> if <delim> is empty or last item is empty
func LastPathItem(path, delim string) string {
	if delim == "" {
		return path
	}
	item, _ := lo.Last(strings.Split(path, delim))
	return lo.Ternary(item == "", path, item)
}

// PathItems returns non-empty items of <path> split by <delim>
func PathItems(path, delim string) []string {
	if path == "" {
		return nil
	}
	if delim == "" {
		return []string{path}
	}
	return lo.Compact(strings.Split(path, delim))
}

// Unquote returns <inp> without one layer of matching single or double quotes around it
func Unquote(inp string) string {
	if len(inp) < 2 {
		return inp
	}
	first, last := inp[0], inp[len(inp)-1]
	if first == last && (first == '"' || first == '\'') {
		return inp[1 : len(inp)-1]
	}
	return inp
}

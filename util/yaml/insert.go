package yaml

import (
	"fmt"
	"slices"
	"strings"

	"tachikoma_config/util/parse"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// insertStep represents indentation step of inserted entries if it can not be detected from the input
const insertStep = 2

// PathNotFoundError represents error thrown if specified path not found in given YAML
type PathNotFoundError struct {
	Path string
}

// Error is used to satisfy golang error interface
func (e PathNotFoundError) Error() string {
	return fmt.Sprintf("Can not find the specified path: %v", e.Path)
}

// Entry represents YAML key with optional value, comment and nested entries to insert into existing text
type Entry struct {
	StartNewline bool // Add blank line before content?
	HeadComment  []string
	Key          string
	Value        string // Written after the key if not empty
	Children     []Entry
	EndNewline   bool // Add blank line after content?
}

// location represents position of a key line and it's section in the list of lines
type location struct {
	line   int // Index of the key line
	indent int // Indent of the key line
	end    int // Index right after the last line of the section
}

// Insert returns copy of the YAML bytes <input> with <entry> inserted by dotted <path> such as "key.subkey".
//
// If <asChild> is true, <entry> becomes the last child of the <path> section, otherwise it is inserted right after
// the section as a sibling.
//
// If <path> is empty, <entry> is appended to the end of the document.
//
// Comments and formatting of <input> are kept. Returns <input> and PathNotFoundError if <path> is not found.
func Insert(input []byte, path string, asChild bool, entry Entry) ([]byte, error) {
	newline := lo.Ternary(strings.Contains(string(input), "\r\n"), "\r\n", "\n")
	lines := strings.Split(string(input), newline)

	if path == "" {
		idx := len(lines)
		if idx > 0 && lines[idx-1] == "" {
			idx--
		}
		return join(lines, idx, render(entry, 0), newline), nil
	}

	loc, found := locate(lines, parse.PathItems(path, "."))
	if !found {
		return input, PathNotFoundError{Path: path}
	}

	indent := loc.indent
	if asChild {
		indent = childIndent(lines, loc)
	}

	return join(lines, loc.end, render(entry, indent), newline), nil
}

// SetScalar returns copy of the YAML bytes <input> with <key> in dotted <section> set to <value>.
//
// Existing key line is replaced in place, otherwise the key is added as the last child of <section>. Missing
// sections are created.
func SetScalar(input []byte, section, key, value string) ([]byte, error) {
	newline := lo.Ternary(strings.Contains(string(input), "\r\n"), "\r\n", "\n")
	lines := strings.Split(string(input), newline)
	sectionItems := parse.PathItems(section, ".")

	if loc, found := locate(lines, append(append([]string{}, sectionItems...), key)); found {
		if loc.end-loc.line > 1 {
			return input, errors.Newf("Can not set value of section %v.%v", section, key)
		}
		lines[loc.line] = strings.Repeat(" ", loc.indent) + key + ": " + value
		return []byte(strings.Join(lines, newline)), nil
	}

	// Find the deepest existing section and build the missing ones around the new key
	entry := Entry{Key: key, Value: value}
	for depth := len(sectionItems); depth >= 0; depth-- {
		if depth == 0 {
			return Insert(input, "", false, entry)
		}
		existing := strings.Join(sectionItems[:depth], ".")
		if loc, found := locate(lines, sectionItems[:depth]); found {
			if !strings.HasSuffix(strings.TrimSpace(lines[loc.line]), ":") {
				return input, errors.Newf("Can not add key to scalar %v", existing)
			}
			return Insert(input, existing, true, entry)
		}
		entry = Entry{Key: sectionItems[depth-1], Children: []Entry{entry}}
	}

	return input, nil
}

// locate returns location of the key line found by <keys> in <lines> and true if found
func locate(lines []string, keys []string) (location, bool) {
	if len(keys) == 0 {
		return location{}, false
	}

	type section struct {
		key    string
		indent int
	}
	var stack []section

	for idx, line := range lines {
		trimLine := strings.TrimSpace(line)
		if trimLine == "" || strings.HasPrefix(trimLine, DefaultCommentChar) {
			continue
		}
		key, _, found := strings.Cut(trimLine, ":")
		if !found {
			continue
		}
		key = parse.Unquote(strings.TrimSpace(key))

		indent := parse.GetIndent(line)
		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}

		curPath := append(lo.Map(stack, func(s section, _ int) string { return s.key }), key)
		if slices.Equal(curPath, keys) {
			return location{line: idx, indent: indent, end: sectionEnd(lines, idx, indent)}, true
		}

		if strings.HasSuffix(trimLine, ":") {
			stack = append(stack, section{key: key, indent: indent})
		}
	}

	return location{}, false
}

// sectionEnd returns index right after the last line belonging to the section started at <start> line with
// <indent>.
//
// Blank lines and comments less indented than the section content at the end are not included.
func sectionEnd(lines []string, start, indent int) int {
	last := start
	for idx := start + 1; idx < len(lines); idx++ {
		if strings.TrimSpace(lines[idx]) == "" {
			continue
		}
		if parse.GetIndent(lines[idx]) <= indent {
			break
		}
		last = idx
	}
	return last + 1
}

// childIndent returns indent of the existing children of section at <loc> or default indent for a new child
func childIndent(lines []string, loc location) int {
	for idx := loc.line + 1; idx < loc.end; idx++ {
		trimLine := strings.TrimSpace(lines[idx])
		if trimLine == "" || strings.HasPrefix(trimLine, DefaultCommentChar) {
			continue
		}
		return parse.GetIndent(lines[idx])
	}
	return loc.indent + insertStep
}

// render returns lines of <entry> indented by <indent> spaces
func render(entry Entry, indent int) (out []string) {
	prefix := strings.Repeat(" ", indent)

	if entry.StartNewline {
		out = append(out, "")
	}
	for _, line := range entry.HeadComment {
		out = append(out, prefix+DefaultCommentChar+" "+line)
	}
	keyLine := prefix + entry.Key + ":"
	if entry.Value != "" {
		keyLine += " " + entry.Value
	}
	out = append(out, keyLine)
	for _, child := range entry.Children {
		out = append(out, render(child, indent+insertStep)...)
	}
	if entry.EndNewline {
		out = append(out, "")
	}

	return
}

// join returns <lines> with <chunk> inserted at <idx>, joined by <newline>
func join(lines []string, idx int, chunk []string, newline string) []byte {
	out := make([]string, 0, len(lines)+len(chunk))
	out = append(out, lines[:idx]...)
	out = append(out, chunk...)
	out = append(out, lines[idx:]...)
	return []byte(strings.Join(out, newline))
}

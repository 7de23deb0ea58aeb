// Package yaml reads and writes the simplified YAML dialect used by Tachikoma config files.
//
// The dialect is indentation based: "key:" lines open a nested mapping, "key: value" lines assign a scalar and
// comment lines start with "#". Sequence items ("- item") are written by Marshal but never read back by Parse.
package yaml

import (
	"strings"

	"tachikoma_config/util/file"
	"tachikoma_config/util/parse"
)

// DefaultCommentChar represents default comment marker
const DefaultCommentChar = "#"

// ParseOptions represents Parse settings
type ParseOptions struct {
	// TrimValues specifies if one layer of matching single or double quotes should be removed from scalar values
	TrimValues bool

	// SkipComments specifies if lines starting with CommentChar should be ignored
	SkipComments bool

	// CommentChar represents comment marker. Empty means DefaultCommentChar.
	CommentChar string
}

// DefaultOptions returns default parse settings
func DefaultOptions() ParseOptions {
	return ParseOptions{TrimValues: true, SkipComments: true, CommentChar: DefaultCommentChar}
}

// frame represents mapping node which can be a parent of the following lines
type frame struct {
	node   *Node
	indent int
}

// Parse returns mapping node built from <content>.
//
// It never fails: lines it does not understand are skipped.
//
// Lines indented deeper than a preceding "key: value" line are attached to the same parent as that line.
func Parse(content string, opts ParseOptions) *Node {
	commentChar := opts.CommentChar
	if commentChar == "" {
		commentChar = DefaultCommentChar
	}

	root := NewMapping()
	stack := []frame{{node: root, indent: 0}}

	for _, line := range strings.Split(content, "\n") {
		trimLine := strings.TrimSpace(line)
		if trimLine == "" {
			continue
		}
		if opts.SkipComments && strings.HasPrefix(trimLine, commentChar) {
			continue
		}

		// Close sections which are indented the same or deeper than the current line
		indent := parse.GetIndent(line)
		for len(stack) > 1 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node

		if strings.HasSuffix(trimLine, ":") {
			section := NewMapping()
			parent.Set(strings.TrimSuffix(trimLine, ":"), section)
			stack = append(stack, frame{node: section, indent: indent})
			continue
		}

		key, value, found := strings.Cut(trimLine, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		if opts.TrimValues {
			value = parse.Unquote(value)
		}
		parent.Set(strings.TrimSpace(key), NewScalar(value))
	}

	return root
}

// ParseFile returns mapping node built from the file at <path> and error if file can not be read
func ParseFile(path string, opts ParseOptions) (*Node, error) {
	res := file.ReadText(path)
	if !res.Success {
		return nil, res.Err
	}
	return Parse(res.Data, opts), nil
}

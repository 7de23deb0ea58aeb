package yaml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarshal(t *testing.T) {
	node := NewMapping().
		Set("a", NewMapping().Set("b", NewScalar("1")).Set("c", NewMapping().Set("d", NewScalar("2")))).
		Set("list", NewSequence(NewScalar("x"), NewScalar("y"))).
		Set("k", NewScalar("v"))

	expected := "a:\n  b: 1\n  c:\n    d: 2\nlist:\n  - x\n  - y\nk: v\n"
	assert.Exactly(t, expected, Marshal(node), "should write nested mappings and sequences")

	expected = "  a:\n    b: 1\n    c:\n      d: 2\n  list:\n    - x\n    - y\n  k: v\n"
	assert.Exactly(t, expected, MarshalIndent(node, 1), "should start at the given indent level")

	assert.Exactly(t, "", Marshal(nil), "should write nothing for nil")
	assert.Exactly(t, "", Marshal(NewScalar("x")), "should write nothing for non-mapping root")
	assert.Exactly(t, "", Marshal(NewMapping()), "should write nothing for empty mapping")
}

func TestMarshalSequenceAsymmetry(t *testing.T) {
	node := NewMapping().Set("list", NewSequence(NewScalar("x"), NewScalar("y")))

	actual := Parse(Marshal(node), DefaultOptions())
	assert.NotEqual(t, node, actual, "sequences should not survive a round trip")
	assert.Equal(t, map[string]any{"list": map[string]any{}}, actual.Interface(),
		"sequence should be read back as an empty mapping")
}

func TestMarshalSequenceItems(t *testing.T) {
	node := NewMapping().Set("list", NewSequence(
		NewScalar("plain"),
		NewMapping().Set("k", NewScalar("v")),
		NewSequence(NewScalar("a")),
	))
	expected := "list:\n  - plain\n  - map[k:v]\n  - [a]\n"
	assert.Exactly(t, expected, Marshal(node), "should write non-scalar items literally")
}

func TestMarshalQuoting(t *testing.T) {
	node := NewMapping().
		Set("empty", NewScalar("")).
		Set("colon", NewScalar("x:")).
		Set("quoted", NewScalar("'q'")).
		Set("double", NewScalar(`"q"`)).
		Set("padded", NewScalar(" p ")).
		Set("plain", NewScalar("a: b"))

	expected := "empty: ''\ncolon: 'x:'\nquoted: \"'q'\"\ndouble: '\"q\"'\npadded: ' p '\nplain: a: b\n"
	assert.Exactly(t, expected, Marshal(node), "should quote values which would be read differently")

	assert.Equal(t, node, Parse(expected, DefaultOptions()), "should read quoted values back")
}

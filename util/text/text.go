package text

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// ellipsis is appended to truncated strings
const ellipsis = "..."

// charsPerToken represents average amount of characters in one LLM token
const charsPerToken = 4

// Truncate returns <inp> cut to at most <max> characters.
//
// If <inp> is cut and <max> is large enough, the last 3 characters are replaced with "...".
func Truncate(inp string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(inp)
	if len(runes) <= max {
		return inp
	}
	if max <= len(ellipsis) {
		return string(runes[:max])
	}
	return string(runes[:max-len(ellipsis)]) + ellipsis
}

// NormalizeSpace returns <inp> with leading and trailing whitespace removed and every inner whitespace sequence
// replaced with a single space.
func NormalizeSpace(inp string) string {
	return strings.Join(strings.Fields(inp), " ")
}

// EqualFold returns true if <l> and <r> are equal ignoring case
func EqualFold(l, r string) bool {
	return strings.EqualFold(l, r)
}

// ContainsFold returns true if <inp> contains <substr> ignoring case
func ContainsFold(inp, substr string) bool {
	return strings.Contains(strings.ToLower(inp), strings.ToLower(substr))
}

// ContainsAnyFold returns true if <inp> contains any of <elms> ignoring case
func ContainsAnyFold(inp string, elms ...string) bool {
	return lo.SomeBy(elms, func(elm string) bool {
		return ContainsFold(inp, elm)
	})
}

// EstimateTokens returns approximate amount of LLM tokens in <inp>
func EstimateTokens(inp string) int {
	return int(math.Ceil(float64(utf8.RuneCountInString(inp)) / charsPerToken))
}

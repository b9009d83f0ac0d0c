package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/fxl/formula"
)

// isWordBoundary reports whether the rune delimits a completion word.
// This includes whitespace, parentheses, commas, and operator characters.
// The '@' sigil is part of a parameter word and is intentionally
// excluded.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', ',',
		'+', '-', '*', '/', '%', '^',
		'<', '>', '=', '!', '&', '|':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on
// a boundary (after a space, start of line, ...).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// completer produces fuzzy completion candidates for the word under the
// cursor: function names by default, parameter names when the word
// begins with '@'.
type completer struct {
	functions []string
	params    []string
}

func newCompleter(params map[string]any) *completer {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, "@"+name)
	}

	return &completer{
		functions: formula.BuiltinNames(),
		params:    names,
	}
}

// complete returns the ranked candidates matching word.
func (c *completer) complete(word string) []string {
	if word == "" {
		return nil
	}

	candidates := c.functions
	if strings.HasPrefix(word, "@") {
		candidates = c.params
	}

	matches := fuzzy.Find(strings.ToUpper(word), upper(candidates))

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = candidates[m.Index]
	}

	return out
}

func upper(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}

	return out
}

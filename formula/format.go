package formula

import (
	"strconv"
	"strings"
)

// Format renders a result value for display: numbers in round-trip
// decimal form, strings quoted only when nested, sequences bracketed,
// records braced with insertion-ordered keys, and null as "null".
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"

	case string:
		return t

	default:
		return formatNested(t)
	}
}

func formatNested(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"

	case bool:
		return strconv.FormatBool(t)

	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)

	case string:
		return strconv.Quote(t)

	case []any:
		parts := make([]string, len(t))
		for i, el := range t {
			parts[i] = formatNested(el)
		}

		return "[" + strings.Join(parts, ", ") + "]"

	case *Record:
		parts := make([]string, 0, t.Len())

		for _, k := range t.Keys() {
			el, _ := t.Get(k)
			parts = append(parts, k+": "+formatNested(el))
		}

		return "{" + strings.Join(parts, ", ") + "}"

	case []*Record:
		parts := make([]string, len(t))
		for i, rec := range t {
			parts[i] = formatNested(rec)
		}

		return "[" + strings.Join(parts, ", ") + "]"

	default:
		return ""
	}
}

package formula

import (
	"log/slog"
	"strconv"
	"strings"
)

// toNumber coerces a value to a number following spreadsheet rules:
// booleans map to 0/1, strings must parse fully as decimal, null raises
// #N/A, and aggregates raise #VALUE!.
func toNumber(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil

	case bool:
		if t {
			return 1, nil
		}

		return 0, nil

	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, ErrValue.With(
				slog.String("issue", "string is not numeric"),
				slog.String("value", t),
			)
		}

		return f, nil

	case nil:
		return 0, ErrNA.With(
			slog.String("issue", "null where a number is required"),
		)

	default:
		return 0, ErrValue.With(
			slog.String("issue", "cannot coerce to number"),
			slog.String("type", TypeOf(v).String()),
		)
	}
}

// toBool coerces a value to a boolean. Null is false at call time;
// numbers are truthy when nonzero; the strings "true"/"false" are
// accepted case-insensitively, every other string raises #VALUE!.
func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case nil:
		return false, nil

	case bool:
		return t, nil

	case float64:
		return t != 0, nil

	case string:
		switch strings.ToLower(t) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}

		return false, ErrValue.With(
			slog.String("issue", "string is not a boolean"),
			slog.String("value", t),
		)

	default:
		return false, ErrValue.With(
			slog.String("issue", "cannot coerce to boolean"),
			slog.String("type", TypeOf(v).String()),
		)
	}
}

// toString renders a value for display and concatenation. Numbers use
// round-trip decimal form; booleans render "true"/"false"; null renders
// empty. Callers that must propagate null instead of stringifying it
// check for null before calling.
func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""

	case string:
		return t

	case bool:
		return strconv.FormatBool(t)

	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)

	default:
		return ""
	}
}

// flatten recursively unwraps sequences (never strings or records) into a
// flat, left-to-right sequence. The result is always freshly allocated.
func flatten(args []any) []any {
	out := make([]any, 0, len(args))

	for _, a := range args {
		switch t := a.(type) {
		case []any:
			out = append(out, flatten(t)...)

		case []*Record:
			for _, rec := range t {
				out = append(out, rec)
			}

		default:
			out = append(out, a)
		}
	}

	return out
}

// asSequence coerces a value into a sequence: sequences pass through,
// record slices generalize, null yields an empty sequence, and scalars
// wrap into a singleton.
func asSequence(v any) []any {
	switch t := v.(type) {
	case []any:
		return t

	case []*Record:
		seq := make([]any, len(t))
		for i, rec := range t {
			seq[i] = rec
		}

		return seq

	case nil:
		return nil

	default:
		return []any{t}
	}
}

// looseEqual reports same-kind equality: both null, both numbers equal
// numerically, both strings equal textually, or both booleans equal.
// There is no cross-kind equality.
func looseEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil

	case float64:
		y, ok := b.(float64)

		return ok && x == y

	case string:
		y, ok := b.(string)

		return ok && x == y

	case bool:
		y, ok := b.(bool)

		return ok && x == y

	default:
		return false
	}
}

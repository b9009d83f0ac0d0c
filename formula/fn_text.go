package formula

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

func registerText(r *Registry) {
	r.register(&Builtin{Name: "CONCAT", MinArgs: 0, MaxArgs: variadic, fn: fnConcat})
	r.register(&Builtin{Name: "LEFT", MinArgs: 1, MaxArgs: 2, fn: fnLeft})
	r.register(&Builtin{Name: "RIGHT", MinArgs: 1, MaxArgs: 2, fn: fnRight})
	r.register(&Builtin{Name: "MID", MinArgs: 3, MaxArgs: 3, fn: fnMid})
	r.register(&Builtin{Name: "TRIM", MinArgs: 1, MaxArgs: 1, fn: fnTrim})
	r.register(&Builtin{Name: "UPPER", MinArgs: 1, MaxArgs: 1, fn: fnUpper})
	r.register(&Builtin{Name: "LOWER", MinArgs: 1, MaxArgs: 1, fn: fnLower})
	r.register(&Builtin{Name: "PROPER", MinArgs: 1, MaxArgs: 1, fn: fnProper})
	r.register(&Builtin{Name: "LEN", MinArgs: 1, MaxArgs: 1, fn: fnLen})
	r.register(&Builtin{Name: "REPLACE", MinArgs: 3, MaxArgs: 3, fn: fnReplace})
}

// requireString enforces the strict text contract shared by PROPER, LEN,
// REPLACE, and the substring functions: anything but a string raises
// #VALUE!.
func requireString(fn string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", ErrValue.With(
			slog.String("function", fn),
			slog.String("issue", "expected a string"),
			slog.String("type", TypeOf(v).String()),
		)
	}

	return s, nil
}

// fnConcat flattens, stringifies, and joins with no separator. Null
// elements render empty here; everywhere else null propagates.
func fnConcat(_ *callContext, args []any) (any, error) {
	var buf strings.Builder

	for _, el := range flatten(args) {
		buf.WriteString(toString(el))
	}

	return buf.String(), nil
}

// argCount interprets a LEFT/RIGHT count argument: defaults to one
// character, rejects negatives, and is truncated to an integer.
func argCount(fn string, args []any) (int, error) {
	if len(args) < 2 {
		return 1, nil
	}

	n, err := toNumber(args[1])
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, ErrValue.With(
			slog.String("function", fn),
			slog.Float64("count", n),
		)
	}

	return int(n), nil
}

func fnLeft(_ *callContext, args []any) (any, error) {
	s, err := requireString("LEFT", args[0])
	if err != nil {
		return nil, err
	}

	n, err := argCount("LEFT", args)
	if err != nil {
		return nil, err
	}

	runes := []rune(s)
	if n > len(runes) {
		n = len(runes)
	}

	return string(runes[:n]), nil
}

func fnRight(_ *callContext, args []any) (any, error) {
	s, err := requireString("RIGHT", args[0])
	if err != nil {
		return nil, err
	}

	n, err := argCount("RIGHT", args)
	if err != nil {
		return nil, err
	}

	runes := []rune(s)
	if n > len(runes) {
		n = len(runes)
	}

	return string(runes[len(runes)-n:]), nil
}

// fnMid extracts count characters starting at a 1-based offset, clamped
// to the string bounds.
func fnMid(_ *callContext, args []any) (any, error) {
	s, err := requireString("MID", args[0])
	if err != nil {
		return nil, err
	}

	start, err := toNumber(args[1])
	if err != nil {
		return nil, err
	}

	length, err := toNumber(args[2])
	if err != nil {
		return nil, err
	}

	if start < 1 || length < 0 {
		return nil, ErrValue.With(
			slog.String("function", "MID"),
			slog.Float64("start", start),
			slog.Float64("count", length),
		)
	}

	runes := []rune(s)

	lo := int(start) - 1
	if lo >= len(runes) {
		return "", nil
	}

	hi := lo + int(length)
	if hi > len(runes) {
		hi = len(runes)
	}

	return string(runes[lo:hi]), nil
}

func fnTrim(_ *callContext, args []any) (any, error) {
	s, err := requireString("TRIM", args[0])
	if err != nil {
		return nil, err
	}

	return strings.TrimSpace(s), nil
}

// fnUpper and fnLower are lenient: non-string input yields an empty
// string, in contrast with the strict text functions.
func fnUpper(_ *callContext, args []any) (any, error) {
	s, ok := args[0].(string)
	if !ok {
		return "", nil
	}

	return strings.ToUpper(s), nil
}

func fnLower(_ *callContext, args []any) (any, error) {
	s, ok := args[0].(string)
	if !ok {
		return "", nil
	}

	return strings.ToLower(s), nil
}

// fnProper title-cases using the engine's locale (language.Und unless
// overridden with WithLocale).
func fnProper(c *callContext, args []any) (any, error) {
	s, err := requireString("PROPER", args[0])
	if err != nil {
		return nil, err
	}

	return cases.Title(c.engine.locale).String(s), nil
}

func fnLen(_ *callContext, args []any) (any, error) {
	s, err := requireString("LEN", args[0])
	if err != nil {
		return nil, err
	}

	return float64(utf8.RuneCountInString(s)), nil
}

// fnReplace substitutes every occurrence of old with new. Null old or new
// raises #VALUE!; an empty old leaves the text unchanged.
func fnReplace(_ *callContext, args []any) (any, error) {
	s, err := requireString("REPLACE", args[0])
	if err != nil {
		return nil, err
	}

	old, err := requireString("REPLACE", args[1])
	if err != nil {
		return nil, err
	}

	repl, err := requireString("REPLACE", args[2])
	if err != nil {
		return nil, err
	}

	if old == "" {
		return s, nil
	}

	return strings.ReplaceAll(s, old, repl), nil
}

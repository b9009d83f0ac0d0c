package formula

import (
	"log/slog"
)

func registerLogical(r *Registry) {
	r.register(&Builtin{Name: "AND", MinArgs: 0, MaxArgs: variadic, fn: fnAnd})
	r.register(&Builtin{Name: "OR", MinArgs: 0, MaxArgs: variadic, fn: fnOr})
	r.register(&Builtin{Name: "XOR", MinArgs: 0, MaxArgs: variadic, fn: fnXor})
	r.register(&Builtin{Name: "NOT", MinArgs: 1, MaxArgs: 1, fn: fnNot})
	r.register(&Builtin{Name: "IF", MinArgs: 3, MaxArgs: 3, fn: fnIf})
	r.register(&Builtin{Name: "IFS", MinArgs: 2, MaxArgs: variadic, fn: fnIfs})
	r.register(&Builtin{Name: "SWITCH", MinArgs: 3, MaxArgs: variadic, fn: fnSwitch})
}

// fnAnd is true when every flattened element coerces truthy. An
// uncoercible element raises #VALUE!.
func fnAnd(_ *callContext, args []any) (any, error) {
	for _, el := range flatten(args) {
		b, err := toBool(el)
		if err != nil {
			return nil, err
		}

		if !b {
			return false, nil
		}
	}

	return true, nil
}

// fnOr is true when any flattened element coerces truthy. It never raises
// on mixed types: elements that cannot coerce count as false.
func fnOr(_ *callContext, args []any) (any, error) {
	for _, el := range flatten(args) {
		b, err := toBool(el)
		if err == nil && b {
			return true, nil
		}
	}

	return false, nil
}

// fnXor is true when an odd number of flattened elements coerce truthy.
func fnXor(_ *callContext, args []any) (any, error) {
	var truthy int

	for _, el := range flatten(args) {
		b, err := toBool(el)
		if err != nil {
			return nil, err
		}

		if b {
			truthy++
		}
	}

	return truthy%2 == 1, nil
}

// fnNot negates its argument; null negates to true.
func fnNot(_ *callContext, args []any) (any, error) {
	if args[0] == nil {
		return true, nil
	}

	b, err := toBool(args[0])
	if err != nil {
		return nil, err
	}

	return !b, nil
}

func fnIf(_ *callContext, args []any) (any, error) {
	cond, err := toBool(args[0])
	if err != nil {
		return nil, err
	}

	if cond {
		return args[1], nil
	}

	return args[2], nil
}

// fnIfs returns the value paired with the first truthy condition. An odd
// argument count raises #VALUE!; no match yields null.
func fnIfs(_ *callContext, args []any) (any, error) {
	if len(args)%2 != 0 {
		return nil, ErrValue.With(
			slog.String("function", "IFS"),
			slog.String("issue", "conditions and values must pair up"),
			slog.Int("args", len(args)),
		)
	}

	for i := 0; i < len(args); i += 2 {
		cond, err := toBool(args[i])
		if err != nil {
			return nil, err
		}

		if cond {
			return args[i+1], nil
		}
	}

	return nil, nil
}

// fnSwitch compares a key against case/value pairs using same-kind
// equality. An odd trailing value is the default; with no default and no
// match the result is null.
func fnSwitch(_ *callContext, args []any) (any, error) {
	key := args[0]
	rest := args[1:]

	for len(rest) >= 2 {
		if looseEqual(key, rest[0]) {
			return rest[1], nil
		}

		rest = rest[2:]
	}

	if len(rest) == 1 {
		return rest[0], nil
	}

	return nil, nil
}

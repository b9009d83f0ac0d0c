package formula

import (
	"log/slog"
	"math"
)

// The arithmetic variadics all deep-flatten their argument lists, but they
// differ deliberately in how they treat nulls and uncoercible elements:
// SUM raises #VALUE! on a bad element, AVERAGE and MAX poison the result
// to NaN, and MIN raises like SUM but filters nulls first. Callers depend
// on these differences; do not normalize them to a single policy.

func registerMath(r *Registry) {
	r.register(&Builtin{Name: "SUM", MinArgs: 0, MaxArgs: variadic, fn: fnSum})
	r.register(&Builtin{Name: "AVERAGE", MinArgs: 0, MaxArgs: variadic, fn: fnAverage})
	r.register(&Builtin{Name: "MAX", MinArgs: 0, MaxArgs: variadic, fn: fnMax})
	r.register(&Builtin{Name: "MIN", MinArgs: 0, MaxArgs: variadic, fn: fnMin})
	r.register(&Builtin{Name: "COUNT", MinArgs: 0, MaxArgs: variadic, fn: fnCount})
	r.register(&Builtin{Name: "COUNTA", MinArgs: 0, MaxArgs: variadic, fn: fnCountA})
	r.register(&Builtin{Name: "ROUND", MinArgs: 2, MaxArgs: 2, fn: fnRound})
	r.register(&Builtin{Name: "ABS", MinArgs: 1, MaxArgs: 1, fn: fnAbs})
	r.register(&Builtin{Name: "INT", MinArgs: 1, MaxArgs: 1, fn: fnInt})
	r.register(&Builtin{Name: "SQRT", MinArgs: 1, MaxArgs: 1, fn: fnSqrt})
	r.register(&Builtin{Name: "POWER", MinArgs: 2, MaxArgs: 2, fn: fnPower})
	r.register(&Builtin{Name: "MOD", MinArgs: 2, MaxArgs: 2, fn: fnMod})
}

// fnSum adds the numeric elements of its flattened arguments. Nulls and
// booleans contribute nothing; a string that does not parse raises
// #VALUE!.
func fnSum(_ *callContext, args []any) (any, error) {
	var sum float64

	for _, el := range flatten(args) {
		switch t := el.(type) {
		case nil, bool:
			continue

		case float64:
			sum += t

		case string:
			n, err := toNumber(t)
			if err != nil {
				return nil, err
			}

			sum += n

		default:
			return nil, ErrValue.With(
				slog.String("function", "SUM"),
				slog.String("type", TypeOf(el).String()),
			)
		}
	}

	return sum, nil
}

// fnAverage returns the mean of the flattened, non-null elements. Any
// non-null element that fails numeric coercion poisons the result to NaN,
// as does an empty input.
func fnAverage(_ *callContext, args []any) (any, error) {
	var (
		sum   float64
		count int
	)

	for _, el := range flatten(args) {
		if el == nil {
			continue
		}

		n, err := toNumber(el)
		if err != nil {
			return math.NaN(), nil
		}

		sum += n
		count++
	}

	if count == 0 {
		return math.NaN(), nil
	}

	return sum / float64(count), nil
}

// fnMax returns the largest of the flattened, non-null elements, NaN when
// any element fails coercion or the input is empty.
func fnMax(_ *callContext, args []any) (any, error) {
	max := math.Inf(-1)
	seen := false

	for _, el := range flatten(args) {
		if el == nil {
			continue
		}

		n, err := toNumber(el)
		if err != nil {
			return math.NaN(), nil
		}

		if !seen || n > max {
			max = n
		}

		seen = true
	}

	if !seen {
		return math.NaN(), nil
	}

	return max, nil
}

// fnMin returns the smallest of the flattened, non-null elements. Unlike
// MAX, a failed coercion raises #VALUE!. Empty input yields NaN.
func fnMin(_ *callContext, args []any) (any, error) {
	min := math.Inf(1)
	seen := false

	for _, el := range flatten(args) {
		if el == nil {
			continue
		}

		n, err := toNumber(el)
		if err != nil {
			return nil, err
		}

		if !seen || n < min {
			min = n
		}

		seen = true
	}

	if !seen {
		return math.NaN(), nil
	}

	return min, nil
}

// fnCount counts elements of numeric type only.
func fnCount(_ *callContext, args []any) (any, error) {
	var count float64

	for _, el := range flatten(args) {
		if TypeOf(el) == TypeNumber {
			count++
		}
	}

	return count, nil
}

// fnCountA counts non-null elements of any type.
func fnCountA(_ *callContext, args []any) (any, error) {
	var count float64

	for _, el := range flatten(args) {
		if el != nil {
			count++
		}
	}

	return count, nil
}

// fnRound rounds half away from zero to the given number of decimal
// digits. A negative digit count rounds to multiples of 10^(-digits).
func fnRound(_ *callContext, args []any) (any, error) {
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}

	d, err := toNumber(args[1])
	if err != nil {
		return nil, err
	}

	shift := math.Pow(10, math.Trunc(d))
	rounded := math.Floor(math.Abs(n)*shift+0.5) / shift

	return math.Copysign(rounded, n), nil
}

func fnAbs(_ *callContext, args []any) (any, error) {
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}

	return math.Abs(n), nil
}

// fnInt truncates toward zero.
func fnInt(_ *callContext, args []any) (any, error) {
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}

	return math.Trunc(n), nil
}

// fnSqrt raises #NUM! for negative input.
func fnSqrt(_ *callContext, args []any) (any, error) {
	n, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}

	if n < 0 {
		return nil, ErrNum.With(
			slog.String("function", "SQRT"),
			slog.Float64("value", n),
		)
	}

	return math.Sqrt(n), nil
}

// fnPower raises #NUM! for a zero base with a negative exponent.
func fnPower(_ *callContext, args []any) (any, error) {
	base, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}

	exp, err := toNumber(args[1])
	if err != nil {
		return nil, err
	}

	if base == 0 && exp < 0 {
		return nil, ErrNum.With(
			slog.String("function", "POWER"),
			slog.Float64("base", base),
			slog.Float64("exponent", exp),
		)
	}

	return math.Pow(base, exp), nil
}

// fnMod raises #DIV/0! for a zero divisor. The result takes the sign of
// the divisor, matching spreadsheet convention rather than Go's math.Mod.
func fnMod(_ *callContext, args []any) (any, error) {
	a, err := toNumber(args[0])
	if err != nil {
		return nil, err
	}

	b, err := toNumber(args[1])
	if err != nil {
		return nil, err
	}

	if b == 0 {
		return nil, ErrDivZero.With(slog.String("function", "MOD"))
	}

	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}

	return r, nil
}

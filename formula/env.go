package formula

import (
	"log/slog"
)

// environment resolves @name references against the caller-supplied
// parameter map. Values are normalized on lookup; the environment is never
// written back to.
type environment struct {
	params map[string]any
}

// newEnvironment wraps a caller parameter map. A nil map is an empty
// environment.
func newEnvironment(params map[string]any) environment {
	return environment{params: params}
}

// lookup resolves name to its normalized value. Parameter names match
// exactly (case-sensitive). Unknown names raise #REF! in every
// dereferencing form.
func (e environment) lookup(name string) (any, error) {
	v, ok := e.params[name]
	if !ok {
		return nil, ErrRef.With(
			slog.String("issue", "unknown parameter"),
			slog.String("name", name),
		)
	}

	return normalize(v), nil
}

// scalar dereferences name expecting a single value. Null raises #N/A;
// a sequence is returned raw for the caller to flatten.
func (e environment) scalar(name string) (any, error) {
	v, err := e.lookup(name)
	if err != nil {
		return nil, err
	}

	if v == nil {
		return nil, ErrNA.With(slog.String("name", name))
	}

	return v, nil
}

// sequence dereferences name expecting a sequence. Scalars wrap into a
// singleton and null yields an empty sequence.
func (e environment) sequence(name string) ([]any, error) {
	v, err := e.lookup(name)
	if err != nil {
		return nil, err
	}

	return asSequence(v), nil
}

// number dereferences name expecting a numeric scalar.
func (e environment) number(name string) (float64, error) {
	v, err := e.lookup(name)
	if err != nil {
		return 0, err
	}

	return toNumber(v)
}

// numberSequence dereferences name expecting a numeric sequence,
// coercing each element.
func (e environment) numberSequence(name string) ([]float64, error) {
	seq, err := e.sequence(name)
	if err != nil {
		return nil, err
	}

	flat := flatten(seq)
	nums := make([]float64, len(flat))

	for i, el := range flat {
		n, err := toNumber(el)
		if err != nil {
			return nil, err
		}

		nums[i] = n
	}

	return nums, nil
}

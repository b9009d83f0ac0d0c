package formula

import (
	"errors"
	"testing"
)

func TestEnvironment_Lookup(t *testing.T) {
	env := newEnvironment(map[string]any{
		"n":   7,
		"s":   "txt",
		"seq": []int{1, 2},
	})

	v, err := env.lookup("n")
	if err != nil || v != 7.0 {
		t.Errorf("lookup(n) = %v, %v", v, err)
	}

	// Values normalize on the way out.
	v, err = env.lookup("seq")
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := v.([]any); !ok {
		t.Errorf("lookup(seq) = %T, want []any", v)
	}

	if _, err := env.lookup("missing"); !errors.Is(err, ErrRef) {
		t.Errorf("unknown name: expected ErrRef, got %v", err)
	}
}

func TestEnvironment_Scalar(t *testing.T) {
	env := newEnvironment(map[string]any{
		"n":    1,
		"null": nil,
		"seq":  []any{1, 2},
	})

	if v, err := env.scalar("n"); err != nil || v != 1.0 {
		t.Errorf("scalar(n) = %v, %v", v, err)
	}

	// Null dereferenced as a scalar raises #N/A.
	if _, err := env.scalar("null"); !errors.Is(err, ErrNA) {
		t.Errorf("scalar(null): expected ErrNA, got %v", err)
	}

	// Sequences pass through raw for the caller to flatten.
	if v, err := env.scalar("seq"); err != nil {
		t.Errorf("scalar(seq) error: %v", err)
	} else if _, ok := v.([]any); !ok {
		t.Errorf("scalar(seq) = %T, want raw sequence", v)
	}
}

func TestEnvironment_Sequence(t *testing.T) {
	env := newEnvironment(map[string]any{
		"scalar": 5,
		"null":   nil,
		"seq":    []any{1, 2},
		"recs":   []map[string]any{{"k": 1}},
	})

	// Scalars wrap into singletons.
	seq, err := env.sequence("scalar")
	if err != nil || len(seq) != 1 || seq[0] != 5.0 {
		t.Errorf("sequence(scalar) = %v, %v", seq, err)
	}

	// Null yields an empty sequence.
	seq, err = env.sequence("null")
	if err != nil || len(seq) != 0 {
		t.Errorf("sequence(null) = %v, %v", seq, err)
	}

	seq, err = env.sequence("seq")
	if err != nil || len(seq) != 2 {
		t.Errorf("sequence(seq) = %v, %v", seq, err)
	}

	// Record lists coerce to a sequence of records.
	seq, err = env.sequence("recs")
	if err != nil || len(seq) != 1 {
		t.Fatalf("sequence(recs) = %v, %v", seq, err)
	}

	if _, ok := seq[0].(*Record); !ok {
		t.Errorf("sequence(recs)[0] = %T, want *Record", seq[0])
	}
}

func TestEnvironment_Numeric(t *testing.T) {
	env := newEnvironment(map[string]any{
		"n":    "42",
		"null": nil,
		"seq":  []any{1, "2", true},
		"bad":  []any{"x"},
	})

	if v, err := env.number("n"); err != nil || v != 42.0 {
		t.Errorf("number(n) = %v, %v", v, err)
	}

	if _, err := env.number("null"); !errors.Is(err, ErrNA) {
		t.Errorf("number(null): expected ErrNA, got %v", err)
	}

	nums, err := env.numberSequence("seq")
	if err != nil {
		t.Fatalf("numberSequence error: %v", err)
	}

	want := []float64{1, 2, 1}
	for i := range want {
		if nums[i] != want[i] {
			t.Errorf("numberSequence[%d] = %v, want %v", i, nums[i], want[i])
		}
	}

	if _, err := env.numberSequence("bad"); !errors.Is(err, ErrValue) {
		t.Errorf("numberSequence(bad): expected ErrValue, got %v", err)
	}
}

package formula

import (
	"errors"
	"testing"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{name: "number", in: 1.5, want: 1.5},
		{name: "true", in: true, want: 1},
		{name: "false", in: false, want: 0},
		{name: "string", in: "42", want: 42},
		{name: "decimal string", in: "3.25", want: 3.25},
		{name: "padded string", in: " 7 ", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toNumber(tt.in)
			if err != nil {
				t.Fatalf("toNumber(%v) error: %v", tt.in, err)
			}

			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := toNumber(nil); !errors.Is(err, ErrNA) {
		t.Errorf("toNumber(nil): expected ErrNA, got %v", err)
	}

	if _, err := toNumber("12x"); !errors.Is(err, ErrValue) {
		t.Errorf("toNumber(12x): expected ErrValue, got %v", err)
	}

	if _, err := toNumber([]any{1.0}); !errors.Is(err, ErrValue) {
		t.Errorf("toNumber(seq): expected ErrValue, got %v", err)
	}
}

func TestToBool(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{name: "null is false", in: nil, want: false},
		{name: "bool", in: true, want: true},
		{name: "nonzero", in: 2.0, want: true},
		{name: "zero", in: 0.0, want: false},
		{name: "true string", in: "true", want: true},
		{name: "TRUE string", in: "TRUE", want: true},
		{name: "false string", in: "False", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toBool(tt.in)
			if err != nil {
				t.Fatalf("toBool(%v) error: %v", tt.in, err)
			}

			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := toBool("yes"); !errors.Is(err, ErrValue) {
		t.Errorf("toBool(yes): expected ErrValue, got %v", err)
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{true, "true"},
		{false, "false"},
		{42.0, "42"},
		{1.5, "1.5"},
		{0.1, "0.1"}, // round-trip decimal, not 0.1000...
		{"s", "s"},
	}

	for _, tt := range tests {
		if got := toString(tt.in); got != tt.want {
			t.Errorf("toString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFlatten(t *testing.T) {
	in := []any{
		1.0,
		[]any{2.0, []any{3.0, 4.0}},
		"keep",
		nil,
	}

	got := flatten(in)

	want := []any{1.0, 2.0, 3.0, 4.0, "keep", nil}
	if len(got) != len(want) {
		t.Fatalf("flatten = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("flatten[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFlattenLeavesRecordsAndStrings(t *testing.T) {
	rec := record("a", 1)

	got := flatten([]any{"ab", rec})
	if len(got) != 2 {
		t.Fatalf("flatten = %v, want 2 elements", got)
	}

	if got[0] != "ab" {
		t.Errorf("string was unwrapped: %v", got[0])
	}

	if got[1] != rec {
		t.Errorf("record was unwrapped: %v", got[1])
	}
}

func TestFlattenReturnsFreshSequence(t *testing.T) {
	inner := []any{1.0, 2.0}
	in := []any{inner}

	got := flatten(in)
	got[0] = 99.0

	if inner[0] != 1.0 {
		t.Errorf("flatten aliased its input: %v", inner)
	}
}

func TestLooseEqual(t *testing.T) {
	tests := []struct {
		a, b any
		want bool
	}{
		{nil, nil, true},
		{1.0, 1.0, true},
		{1.0, 2.0, false},
		{"a", "a", true},
		{"a", "b", false},
		{true, true, true},
		{true, false, false},
		// No cross-kind equality.
		{1.0, "1", false},
		{0.0, false, false},
		{nil, "", false},
		{nil, 0.0, false},
	}

	for _, tt := range tests {
		if got := looseEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("looseEqual(%v, %v) = %v, want %v",
				tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAsSequence(t *testing.T) {
	if got := asSequence(nil); len(got) != 0 {
		t.Errorf("asSequence(nil) = %v, want empty", got)
	}

	if got := asSequence("x"); len(got) != 1 || got[0] != "x" {
		t.Errorf("asSequence(scalar) = %v, want singleton", got)
	}

	seq := []any{1.0, 2.0}
	if got := asSequence(seq); len(got) != 2 {
		t.Errorf("asSequence(seq) = %v, want passthrough", got)
	}

	recs := []*Record{record("a", 1)}
	if got := asSequence(recs); len(got) != 1 {
		t.Errorf("asSequence(recs) = %v, want 1 element", got)
	}
}

package formula

import (
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "null", in: nil, want: "null"},
		{name: "integer-valued", in: 42.0, want: "42"},
		{name: "fraction", in: 1.5, want: "1.5"},
		{name: "bool", in: true, want: "true"},
		{name: "top-level string unquoted", in: "hi", want: "hi"},
		{
			name: "sequence",
			in:   []any{1.0, "a", nil},
			want: `[1, "a", null]`,
		},
		{
			name: "record",
			in:   record("k", "a", "v", 1),
			want: `{k: "a", v: 1}`,
		},
		{
			name: "record sequence",
			in:   []*Record{record("n", 1), record("n", 2)},
			want: "[{n: 1}, {n: 2}]",
		},
		{
			name: "nested sequence",
			in:   []any{[]any{1.0}},
			want: "[[1]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

package formula

import (
	"testing"
)

func indexParams() map[string]any {
	return map[string]any{
		"seq":  []any{"a", "b", "c"},
		"rows": []any{[]any{1, 2}, []any{3, 4}},
		"recs": []*Record{
			record("id", 1, "name", "ada"),
			record("id", 2, "name", "grace"),
		},
	}
}

func TestIndex(t *testing.T) {
	params := indexParams()

	tests := []struct {
		name string
		src  string
		want any
	}{
		{name: "row only", src: "INDEX(@seq, 2)", want: "b"},
		{name: "row and numeric col", src: "INDEX(@rows, 2, 1)", want: 3.0},
		{name: "record numeric col", src: "INDEX(@recs, 1, 2)", want: "ada"},
		{name: "record key col", src: `INDEX(@recs, 2, "name")`, want: "grace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEval(t, tt.src, params)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	// Out-of-bounds rows and columns raise #REF!.
	wantKind(t, "INDEX(@seq, 0)", params, KindRef)
	wantKind(t, "INDEX(@seq, 4)", params, KindRef)
	wantKind(t, "INDEX(@rows, 1, 3)", params, KindRef)
	wantKind(t, `INDEX(@recs, 1, "missing")`, params, KindRef)
}

func vlookupParams() map[string]any {
	return map[string]any{
		"t": []*Record{
			record("k", "a", "v", 1),
			record("k", "b", "v", 2),
			record("k", "c", "v", 3),
		},
		"tiers": []*Record{
			record("limit", 0, "rate", 0.1),
			record("limit", 100, "rate", 0.2),
			record("limit", 500, "rate", 0.3),
		},
	}
}

func TestVlookup(t *testing.T) {
	params := vlookupParams()

	if got := mustEval(t, `VLOOKUP("c", @t, 2)`, params); got != 3.0 {
		t.Errorf("exact default = %v, want 3", got)
	}

	if got := mustEval(t, `VLOOKUP("a", @t, 1, true)`, params); got != "a" {
		t.Errorf("col 1 = %v, want a", got)
	}

	// No exact match raises #N/A.
	wantKind(t, `VLOOKUP("z", @t, 2, true)`, params, KindNA)

	// Approximate match picks the largest first column not exceeding
	// the key when both parse as numbers.
	if got := mustEval(t, "VLOOKUP(250, @tiers, 2, false)", params); got != 0.2 {
		t.Errorf("approx 250 = %v, want 0.2", got)
	}

	if got := mustEval(t, "VLOOKUP(500, @tiers, 2, false)", params); got != 0.3 {
		t.Errorf("approx 500 = %v, want 0.3", got)
	}

	// Below every tier there is nothing to match.
	wantKind(t, "VLOOKUP(-1, @tiers, 2, false)", params, KindNA)

	// Column index out of bounds raises #REF!.
	wantKind(t, `VLOOKUP("a", @t, 5, true)`, params, KindRef)

	// Range elements must be records.
	bad := map[string]any{"t": []any{1, 2}}
	wantKind(t, `VLOOKUP("a", @t, 1, true)`, bad, KindValue)
}

func TestUnique(t *testing.T) {
	params := map[string]any{
		"v": []any{3, 1, 3, 2, 1, "x", "x", true, true},
	}

	got := mustEval(t, "UNIQUE(@v)", params)

	seq, ok := got.([]any)
	if !ok {
		t.Fatalf("UNIQUE returned %T, want sequence", got)
	}

	want := []any{3.0, 1.0, 2.0, "x", true}
	if len(seq) != len(want) {
		t.Fatalf("UNIQUE = %v, want %v", seq, want)
	}

	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("UNIQUE[%d] = %v, want %v", i, seq[i], want[i])
		}
	}
}

func TestUniqueKeepsKindsDistinct(t *testing.T) {
	params := map[string]any{"v": []any{1, "1", true, "true"}}

	got := mustEval(t, "UNIQUE(@v)", params)

	seq, ok := got.([]any)
	if !ok || len(seq) != 4 {
		t.Fatalf("UNIQUE = %v, want 4 distinct elements", got)
	}
}

func TestUniqueDoesNotMutateInput(t *testing.T) {
	input := []any{1.0, 1.0, 2.0}
	params := map[string]any{"v": input}

	_ = mustEval(t, "UNIQUE(@v)", params)

	if input[0] != 1.0 || input[1] != 1.0 || input[2] != 2.0 {
		t.Errorf("input mutated: %v", input)
	}
}

func TestIsBlank(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		params map[string]any
		want   bool
	}{
		{
			name:   "null",
			src:    "ISBLANK(@n)",
			params: map[string]any{"n": nil},
			want:   true,
		},
		{name: "whitespace", src: `ISBLANK("   ")`, want: true},
		{name: "empty", src: `ISBLANK("")`, want: true},
		{name: "db null marker", src: `ISBLANK("NULL")`, want: true},
		{name: "text", src: `ISBLANK("x")`, want: false},
		{name: "zero", src: "ISBLANK(0)", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEval(t, tt.src, tt.params)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNumber(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"ISNUMBER(42)", true},
		{"ISNUMBER(-1.5)", true},
		{`ISNUMBER("3.14")`, true},
		{`ISNUMBER("3.14x")`, false},
		{`ISNUMBER("")`, false},
		{"ISNUMBER(true)", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := mustEval(t, tt.src, nil)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

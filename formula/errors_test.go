package formula

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestKindCodes(t *testing.T) {
	tests := []struct {
		kind Kind
		code string
	}{
		{KindValue, "#VALUE!"},
		{KindRef, "#REF!"},
		{KindName, "#NAME?"},
		{KindNum, "#NUM!"},
		{KindDivZero, "#DIV/0!"},
		{KindNA, "#N/A"},
		{KindUnsafe, "unsafe"},
		{KindCompile, "compile"},
		{KindExpression, "expression"},
	}

	for _, tt := range tests {
		if got := tt.kind.Code(); got != tt.code {
			t.Errorf("%d.Code() = %q, want %q", tt.kind, got, tt.code)
		}
	}
}

func TestErrorMessageLeadsWithCode(t *testing.T) {
	err := ErrDivZero.With(slog.String("function", "MOD"))

	if !strings.HasPrefix(err.Error(), "#DIV/0!") {
		t.Errorf("Error() = %q, want #DIV/0! prefix", err.Error())
	}
}

func TestErrorIsMatchesByKind(t *testing.T) {
	err := ErrValue.With(slog.String("detail", "x"))

	if !errors.Is(err, ErrValue) {
		t.Error("decorated error does not match its sentinel")
	}

	if errors.Is(err, ErrNum) {
		t.Error("error matches a different kind")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !errors.Is(wrapped, ErrValue) {
		t.Error("wrapped error does not match by kind")
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(ErrNA)
	if !ok || kind != KindNA {
		t.Errorf("KindOf(ErrNA) = %v, %v", kind, ok)
	}

	kind, ok = KindOf(fmt.Errorf("wrap: %w", ErrRef))
	if !ok || kind != KindRef {
		t.Errorf("KindOf(wrapped) = %v, %v", kind, ok)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf matched a non-formula error")
	}
}

func TestErrorImmutability(t *testing.T) {
	base := NewError(KindValue, "base")
	derived := base.With(slog.String("k", "v"))

	if base == derived {
		t.Fatal("With returned the receiver")
	}

	if len(base.attrs) != 0 {
		t.Error("With mutated the receiver's attributes")
	}

	wrapped := base.Wrap(errors.New("cause"))
	if base.err != nil {
		t.Error("Wrap mutated the receiver")
	}

	if wrapped.Unwrap() == nil {
		t.Error("Wrap did not attach the cause")
	}
}

func TestErrorLogValue(t *testing.T) {
	err := ErrName.With(slog.String("function", "NOPE"))

	val := err.LogValue()
	if val.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v, want group", val.Kind())
	}

	var foundKind, foundFn bool

	for _, attr := range val.Group() {
		switch attr.Key {
		case "kind":
			foundKind = attr.Value.String() == "#NAME?"
		case "function":
			foundFn = attr.Value.String() == "NOPE"
		}
	}

	if !foundKind || !foundFn {
		t.Errorf("LogValue missing attributes: %v", val)
	}
}

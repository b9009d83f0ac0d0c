package formula

import (
	"errors"
	"log/slog"
	"strings"
)

// Kind identifies one member of the closed error taxonomy.
type Kind int

const (
	// KindValue reports a bad type or failed coercion (#VALUE!).
	KindValue Kind = iota

	// KindRef reports an unknown parameter name or out-of-bounds index
	// (#REF!).
	KindRef

	// KindName reports a call to an unregistered function (#NAME?).
	KindName

	// KindNum reports a numerically invalid operation (#NUM!).
	KindNum

	// KindDivZero reports division or MOD by zero (#DIV/0!).
	KindDivZero

	// KindNA reports a value that is not available (#N/A).
	KindNA

	// KindUnsafe reports a safety-gate rejection.
	KindUnsafe

	// KindCompile reports a lexer or parser failure.
	KindCompile

	// KindExpression reports a generic runtime failure not attributable
	// to a more specific kind.
	KindExpression
)

// Code returns the canonical short code for the kind. Spreadsheet-visible
// kinds use their conventional error codes; internal kinds use lowercase
// words.
func (k Kind) Code() string {
	switch k {
	case KindValue:
		return "#VALUE!"
	case KindRef:
		return "#REF!"
	case KindName:
		return "#NAME?"
	case KindNum:
		return "#NUM!"
	case KindDivZero:
		return "#DIV/0!"
	case KindNA:
		return "#N/A"
	case KindUnsafe:
		return "unsafe"
	case KindCompile:
		return "compile"
	case KindExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// String returns the same form as Code.
func (k Kind) String() string { return k.Code() }

// Error represents an evaluation error with a taxonomy kind and optional
// structured logging attributes. It implements error, errors.Unwrap, and
// slog.LogValuer.
type Error struct {
	kind  Kind
	msg   string
	err   error       // wrapped error (for errors.Unwrap)
	attrs []slog.Attr // attributes for structured logging
}

// Predefined errors (sentinel values). Call sites attach context with
// With and Wrap, which copy rather than mutate.
var (
	ErrValue      = NewError(KindValue, "wrong type of argument or operand")
	ErrRef        = NewError(KindRef, "invalid reference")
	ErrName       = NewError(KindName, "unknown function")
	ErrNum        = NewError(KindNum, "invalid numeric operation")
	ErrDivZero    = NewError(KindDivZero, "division by zero")
	ErrNA         = NewError(KindNA, "value not available")
	ErrUnsafe     = NewError(KindUnsafe, "expression rejected by safety gate")
	ErrCompile    = NewError(KindCompile, "expression failed to compile")
	ErrExpression = NewError(KindExpression, "expression evaluation failed")
)

// NewError creates a new Error with the given kind and message.
func NewError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Kind returns the taxonomy kind of the error.
func (e *Error) Kind() Kind { return e.kind }

// Error implements the error interface. The message leads with the kind's
// canonical code so user-visible output matches spreadsheet convention.
func (e *Error) Error() string {
	part := make([]string, 0, 3)
	part = append(part, e.kind.Code())

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target shares this error's kind. It lets callers
// catch by kind with errors.Is(err, formula.ErrDivZero).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.kind == e.kind
}

// Wrap creates a new Error of the same kind wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	attrs = append(attrs, slog.String("kind", e.kind.Code()))

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// KindOf extracts the taxonomy kind from an error.
// The second result is false when err is not a formula error.
func KindOf(err error) (Kind, bool) {
	e := &Error{}
	if errors.As(err, &e) {
		return e.kind, true
	}

	return KindExpression, false
}

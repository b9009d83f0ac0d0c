package formula

import (
	"context"
	"io"
	"log/slog"
	"math"

	"github.com/klauspost/readahead"

	"github.com/ardnew/fxl/log"
)

// Engine evaluates formula expressions. The zero value is not usable;
// construct with New. Engines are safe for concurrent use: per-call state
// lives on the stack, and the shared compilation cache serializes its own
// eviction.
type Engine struct {
	registry *Registry // host-injected functions, may be nil
	logger   log.Logger
	locale   localeTag
	useCache bool
}

// New creates an engine with the given options applied over defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		locale:   defaultLocale,
		useCache: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Private default engine backing the package-level entry points.
//
//nolint:gochecknoglobals
var defaultEngine = New()

// Evaluate evaluates a formula against the given parameters using a
// default engine. See [Engine.Evaluate].
func Evaluate(
	ctx context.Context,
	expression string,
	parameters map[string]any,
) (any, error) {
	return defaultEngine.Evaluate(ctx, expression, parameters)
}

// Evaluate runs one expression to a single value. The expression first
// passes the safety gate, then parses (or loads from the compilation
// cache), then evaluates against parameters. A nil result with a nil
// error is a valid null outcome. Errors are always [*Error] values whose
// [Kind] identifies the failure.
func (e *Engine) Evaluate(
	ctx context.Context,
	expression string,
	parameters map[string]any,
) (any, error) {
	if err := checkSafe(expression); err != nil {
		e.logger.WarnContext(ctx, "expression rejected",
			slog.Any("error", err))

		return nil, err
	}

	root, cached, err := e.compile(expression)
	if err != nil {
		return nil, err
	}

	e.logger.TraceContext(ctx, "expression compiled",
		slog.Int("source_length", len(expression)),
		slog.Bool("cache_hit", cached))

	walker := &evaluator{
		engine: e,
		env:    newEnvironment(parameters),
	}

	result, err := walker.eval(root)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// EvaluateReader reads an expression from r and evaluates it. The reader
// is wrapped with asynchronous read-ahead so input streams in while
// earlier chunks are buffered.
func (e *Engine) EvaluateReader(
	ctx context.Context,
	r io.Reader,
	parameters map[string]any,
) (any, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrExpression.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return e.Evaluate(ctx, string(data), parameters)
}

// compile parses the expression, consulting the process-wide cache first.
func (e *Engine) compile(src string) (node, bool, error) {
	if !e.useCache {
		root, err := parse(src)

		return root, false, err
	}

	if root, ok := sharedCache.load(src); ok {
		return root, true, nil
	}

	root, err := parse(src)
	if err != nil {
		return nil, false, err
	}

	// Two concurrent misses on the same key may both compile;
	// the later winner is discarded by store.
	sharedCache.store(src, root)

	return root, false, nil
}

// evaluator walks one AST against one environment.
type evaluator struct {
	engine *Engine
	env    environment
}

func (w *evaluator) eval(n node) (any, error) {
	switch t := n.(type) {
	case *literalNode:
		return t.val, nil

	case *paramNode:
		return w.env.lookup(t.name)

	case *unaryNode:
		return w.evalUnary(t)

	case *binaryNode:
		return w.evalBinary(t)

	case *callNode:
		return w.evalCall(t)

	case *ifErrorNode:
		// The fallback literal never evaluates; it substitutes for any
		// error raised anywhere inside the protected sub-tree.
		result, err := w.eval(t.protected)
		if err != nil {
			return t.fallback, nil
		}

		return result, nil

	default:
		return nil, ErrExpression.With(
			slog.String("issue", "unknown node"),
			slog.Int("pos", n.Pos()),
		)
	}
}

func (w *evaluator) evalUnary(n *unaryNode) (any, error) {
	v, err := w.eval(n.operand)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "-":
		f, err := toNumber(v)
		if err != nil {
			return nil, err
		}

		return -f, nil

	case "!":
		b, err := toBool(v)
		if err != nil {
			return nil, err
		}

		return !b, nil

	default:
		return nil, ErrCompile.With(
			slog.String("issue", "unknown unary operator"),
			slog.String("op", n.op),
		)
	}
}

// evalBinary evaluates both operands before combining so that a child
// error always propagates, then dispatches on the operator class.
func (w *evaluator) evalBinary(n *binaryNode) (any, error) {
	left, err := w.eval(n.left)
	if err != nil {
		return nil, err
	}

	right, err := w.eval(n.right)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "+", "-", "*", "/", "%", "^":
		return evalArithmetic(n.op, left, right)

	case "==", "!=":
		eq := looseEqual(left, right)
		if n.op == "!=" {
			return !eq, nil
		}

		return eq, nil

	case "<", "<=", ">", ">=":
		return evalComparison(n.op, left, right)

	case "&&", "||":
		lb, err := toBool(left)
		if err != nil {
			return nil, err
		}

		rb, err := toBool(right)
		if err != nil {
			return nil, err
		}

		if n.op == "&&" {
			return lb && rb, nil
		}

		return lb || rb, nil

	default:
		return nil, ErrCompile.With(
			slog.String("issue", "unknown operator"),
			slog.String("op", n.op),
		)
	}
}

func evalArithmetic(op string, left, right any) (any, error) {
	a, err := toNumber(left)
	if err != nil {
		return nil, err
	}

	b, err := toNumber(right)
	if err != nil {
		return nil, err
	}

	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, ErrDivZero
		}

		return a / b, nil
	case "%":
		if b == 0 {
			return nil, ErrDivZero
		}

		return math.Mod(a, b), nil
	default: // "^"
		return math.Pow(a, b), nil
	}
}

// evalComparison orders two values: numerically when both coerce to
// numbers, lexicographically when both are strings.
func evalComparison(op string, left, right any) (any, error) {
	a, errA := toNumber(left)
	b, errB := toNumber(right)

	if errA == nil && errB == nil {
		return applyOrder(op, compareFloat(a, b)), nil
	}

	ls, lok := left.(string)
	rs, rok := right.(string)

	if lok && rok {
		switch {
		case ls < rs:
			return applyOrder(op, -1), nil
		case ls > rs:
			return applyOrder(op, 1), nil
		default:
			return applyOrder(op, 0), nil
		}
	}

	return nil, ErrValue.With(
		slog.String("issue", "operands are not comparable"),
		slog.String("op", op),
		slog.String("left", TypeOf(left).String()),
		slog.String("right", TypeOf(right).String()),
	)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func applyOrder(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	default:
		return cmp >= 0
	}
}

// evalCall evaluates arguments eagerly (so child errors propagate before
// the callee runs) and dispatches through the host registry first, then
// the default library.
func (w *evaluator) evalCall(n *callNode) (any, error) {
	fn, ok := w.lookupFunction(n.name)
	if !ok {
		return nil, errUnknownFunction(n.name, BuiltinNames())
	}

	args := make([]any, len(n.args))

	for i, argNode := range n.args {
		v, err := w.eval(argNode)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	if len(args) < fn.MinArgs ||
		(fn.MaxArgs != variadic && len(args) > fn.MaxArgs) {
		return nil, ErrValue.With(
			slog.String("function", fn.Name),
			slog.String("issue", "wrong argument count"),
			slog.Int("args", len(args)),
		)
	}

	return fn.fn(&callContext{engine: w.engine}, args)
}

func (w *evaluator) lookupFunction(name string) (*Builtin, bool) {
	if w.engine.registry != nil {
		if fn, ok := w.engine.registry.Lookup(name); ok {
			return fn, true
		}
	}

	return builtins().Lookup(name)
}

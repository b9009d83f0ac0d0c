package formula

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
)

// variadic marks a builtin with no upper argument bound.
const variadic = -1

// callContext carries per-call state into builtin implementations.
type callContext struct {
	engine *Engine
}

// builtinFunc implements one library function over evaluated arguments.
type builtinFunc func(c *callContext, args []any) (any, error)

// Builtin describes one registered function: its canonical name, arity
// bounds, and implementation. MaxArgs of -1 means variadic.
type Builtin struct {
	Name    string
	MinArgs int
	MaxArgs int
	fn      builtinFunc
}

// Registry maps function names to builtins. Names match
// case-insensitively, per spreadsheet convention. A Registry populated by
// the host augments the default library via WithRegistry.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]*Builtin
}

// NewRegistry creates an empty registry for host-injected functions.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]*Builtin)}
}

// Register adds a function to the registry, replacing any previous
// binding of the same name.
func (r *Registry) Register(
	name string,
	minArgs, maxArgs int,
	fn func(args []any) (any, error),
) {
	r.register(&Builtin{
		Name:    name,
		MinArgs: minArgs,
		MaxArgs: maxArgs,
		fn: func(_ *callContext, args []any) (any, error) {
			return fn(args)
		},
	})
}

func (r *Registry) register(b *Builtin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fns[strings.ToLower(b.Name)] = b
}

// Lookup resolves name case-insensitively.
func (r *Registry) Lookup(name string) (*Builtin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.fns[strings.ToLower(name)]

	return b, ok
}

// Names returns the canonical names of all registered functions, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fns))
	for _, b := range r.fns {
		names = append(names, b.Name)
	}

	slices.Sort(names)

	return names
}

// Private singleton holding the default function library.
//
//nolint:gochecknoglobals
var (
	builtinOnce sync.Once
	builtinReg  *Registry
)

// builtins returns the process-wide default function library.
func builtins() *Registry {
	builtinOnce.Do(func() {
		builtinReg = NewRegistry()
		registerMath(builtinReg)
		registerLogical(builtinReg)
		registerText(builtinReg)
		registerData(builtinReg)
		registerCriteria(builtinReg)
	})

	return builtinReg
}

// BuiltinNames returns the names of the default function library, sorted.
// Useful for completion and introspection.
func BuiltinNames() []string {
	names := builtins().Names()

	// IFERROR is a parser construct, not a registry entry, but callers
	// completing function names expect to see it.
	names = append(names, "IFERROR")
	slices.Sort(names)

	return names
}

// errUnknownFunction builds the #NAME? error for an unregistered call,
// attaching a fuzzy-matched suggestion when one is close enough.
func errUnknownFunction(name string, candidates []string) error {
	err := ErrName.With(slog.String("function", name))

	matches := fuzzy.Find(strings.ToUpper(name), candidates)
	if len(matches) > 0 {
		err = err.With(slog.String("did_you_mean", matches[0].Str))
	}

	return err
}

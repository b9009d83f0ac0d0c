package formula

import (
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// MaxExpressionLen is the maximum accepted expression length in characters.
// Longer inputs are rejected by the safety gate before any parsing.
const MaxExpressionLen = 10000

// The safety gate is purely textual and runs before the lexer ever sees the
// input. The patterns below have no legitimate use inside the formula
// grammar; rejecting them here forecloses host-escape attempts regardless
// of the evaluator backend.
type unsafePattern struct {
	name string
	re   *regexp.Regexp
}

//nolint:gochecknoglobals
var (
	unsafeOnce     sync.Once
	unsafePatterns []unsafePattern
)

func compileUnsafePatterns() []unsafePattern {
	pat := func(name, expr string) unsafePattern {
		return unsafePattern{name: name, re: regexp.MustCompile(`(?i)` + expr)}
	}

	return []unsafePattern{
		// Capability blocklist (whole word).
		pat("capability", `\b(import|process|assembly|file|directory|thread|environment|reflection|dllimport|console|window|registry|activator|appdomain)\b`),
		pat("capability", `\busing\s+system\.io\b`),
		pat("capability", `\btask\.run\b`),
		pat("capability", `\bgc\.collect\b`),
		pat("capability", `\bnew\s+\w*(stream|reader|writer)\b`),

		// Reflection shapes.
		pat("reflection", `\bgettype\s*\(\s*\)`),
		pat("reflection", `\bgetmethod\s*\(`),
		pat("reflection", `\bgetproperty\s*\(`),
		pat("reflection", `\binvokemember\s*\(`),
		pat("reflection", `\binvoke\s*\(`),
		pat("reflection", `\.createinstance\s*\(`),
		pat("reflection", `\btype\.gettype\s*\(`),
		pat("reflection", `\bsystem\.reflection\b`),
		pat("reflection", `\bthis\.gettype\b`),

		// Injection shapes.
		pat("injection", `\bclass\s+\w+`),
		pat("injection", `\bnamespace\s+\w+`),
		pat("injection", `\bwhile\s*\(\s*true\s*\)`),
		pat("injection", `\bfor\s*\(\s*;\s*;\s*\)`),
		pat("injection", `#\s*(region|endregion|if|else|endif)\b`),
	}
}

// checkSafe validates the raw expression text against the sandbox rules.
// It returns a KindUnsafe error naming the matched rule, or nil.
func checkSafe(src string) error {
	if n := utf8.RuneCountInString(src); n > MaxExpressionLen {
		return ErrUnsafe.With(
			slog.String("rule", "length"),
			slog.Int("length", n),
			slog.Int("max", MaxExpressionLen),
		)
	}

	// Statement injection characters are rejected outright: the grammar
	// has no use for them, even inside string literals.
	if i := strings.IndexAny(src, ";{}"); i >= 0 {
		return ErrUnsafe.With(
			slog.String("rule", "injection"),
			slog.String("match", src[i:i+1]),
		)
	}

	unsafeOnce.Do(func() {
		unsafePatterns = compileUnsafePatterns()
	})

	for _, p := range unsafePatterns {
		if m := p.re.FindString(src); m != "" {
			return ErrUnsafe.With(
				slog.String("rule", p.name),
				slog.String("match", m),
			)
		}
	}

	return nil
}

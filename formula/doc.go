// Package formula implements a sandboxed evaluation engine for
// spreadsheet-style formula expressions.
//
// A formula is a single expression — function calls such as SUM, IF, and
// VLOOKUP, infix arithmetic, string and boolean literals, and parameter
// references of the form @name — evaluated against a caller-supplied
// parameter environment:
//
//	result, err := formula.Evaluate(ctx, `SUM(@prices) * 1.08`, map[string]any{
//		"prices": []any{19.99, 5.25, 12.50},
//	})
//
// # Pipeline
//
// Each call passes through a textual safety gate, a lexer, a
// precedence-climbing parser, and a tree-walking evaluator. Parsed trees are
// cached process-wide, keyed by the source text; see [CacheStats],
// [ClearCache], and [SetMaxCacheSize].
//
// # Errors
//
// Failures surface as [*Error] values carrying one of the closed set of
// [Kind] tags. The spreadsheet-visible kinds use their conventional short
// codes (#VALUE!, #REF!, #NAME?, #NUM!, #DIV/0!, #N/A) as string forms.
// Inside an expression, IFERROR(expr, "fallback") catches any error raised
// while evaluating its first argument and yields the literal fallback
// string instead.
//
// # Sandbox
//
// Before any parsing, the safety gate rejects input containing host-escape
// shapes: capability identifiers (Process, Assembly, File, ...), reflection
// call patterns, statement injection characters, and inputs longer than
// 10,000 characters. Rejections carry [KindUnsafe].
package formula

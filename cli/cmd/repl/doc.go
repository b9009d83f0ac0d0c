// Package repl implements the interactive fxl session: a Bubble Tea
// prompt with history, fuzzy completion over function and parameter
// names, and styled result output.
package repl

// Package cmd implements the fxl subcommands: eval (the default), which
// evaluates one formula expression against an optional parameter file,
// and repl, which starts an interactive session.
package cmd

// Package cli contains the command line interface for fxl.
//
// # Usage
//
// The default command evaluates a formula expression:
//
//	fxl 'SUM(1,2,3) * 2'
//	fxl eval --params data.yaml 'AVERAGE(@values)'
//	fxl repl
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorized text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: enable profiling (cpu, heap, allocs, ...)
//   - --pprof-dir: profile output directory
package cli

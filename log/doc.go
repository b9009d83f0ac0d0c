// Package log provides a concurrency-safe structured logging facade over
// log/slog for the fxl command and engine.
//
// It adds a Trace level below Debug, a colorized "pretty" text handler for
// interactive use, and functional options for level, format, timestamp
// layout, and caller annotation. A package-level default logger backs the
// top-level functions and is reconfigured with [Config]; independent
// loggers are created with [Make].
package log

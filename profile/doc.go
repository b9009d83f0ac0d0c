// Package profile provides optional runtime profiling for the fxl
// command.
//
// It integrates [github.com/pkg/profile] behind the "pprof" build tag.
// When built without the tag (the default), every operation is a no-op
// with zero runtime overhead.
//
// The supported modes when built with the tag are allocs, block, clock,
// cpu, goroutine, heap, mem, mutex, thread, and trace; use [Modes] to
// retrieve the list programmatically. Profile files are written to the
// configured output directory with names matching the mode (cpu.pprof,
// mem.pprof, ...), ready for go tool pprof.
//
//	fxl --pprof-mode cpu eval 'SUM(1,2,3)'
//	go tool pprof ./fxl cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

package formula

import (
	"golang.org/x/text/language"

	"github.com/ardnew/fxl/log"
)

// localeTag aliases the x/text language tag used by locale-sensitive text
// functions.
type localeTag = language.Tag

// defaultLocale keeps PROPER deterministic across machines; override per
// engine with WithLocale when host-locale behavior is wanted.
//
//nolint:gochecknoglobals
var defaultLocale = language.Und

// Option applies a configuration option to an Engine.
type Option func(*Engine)

// WithRegistry augments the default function library with host-provided
// functions. Host entries shadow same-named builtins.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithLogger sets the structured logger used for trace diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithLocale sets the locale used by PROPER for title-casing.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) { e.locale = tag }
}

// WithoutCache disables the process-wide compilation cache for this
// engine, forcing a fresh parse on every call.
func WithoutCache() Option {
	return func(e *Engine) { e.useCache = false }
}

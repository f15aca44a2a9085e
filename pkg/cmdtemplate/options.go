// SPDX-License-Identifier: MPL-2.0

package cmdtemplate

import (
	"io"

	"github.com/charmbracelet/log"
)

// DefaultValue is the sentinel bound to variables the template references but the
// caller did not supply.
const DefaultValue = "None"

type (
	// Option configures translation and resolution.
	Option func(*options)

	options struct {
		defaultValue string
		strict       bool
		unboundFalsy bool
		logger       *log.Logger
	}
)

var discardLogger = log.New(io.Discard)

func defaultOptions() options {
	return options{
		defaultValue: DefaultValue,
		unboundFalsy: true,
		logger:       discardLogger,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDefaultValue replaces the sentinel bound to unsupplied variables.
func WithDefaultValue(v string) Option {
	return func(o *options) {
		o.defaultValue = v
	}
}

// WithStrictVariables disables default-filling: resolving a template that references
// unsupplied variables fails with *UnknownVariableError.
func WithStrictVariables(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithUnboundFalsy controls how an unbound variable behaves in a condition. When
// enabled, the default, it evaluates to None and is falsy. When disabled it is the
// default value as an ordinary string, truthy unless empty or FalseToken.
// Substitution always writes the default value.
func WithUnboundFalsy(falsy bool) Option {
	return func(o *options) {
		o.unboundFalsy = falsy
	}
}

// WithLogger routes translation debug records to l. Errors are never logged;
// they are returned.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

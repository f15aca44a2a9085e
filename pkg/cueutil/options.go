// SPDX-License-Identifier: MPL-2.0

package cueutil

const (
	// DefaultMaxFileSize caps the size of CUE input accepted by Decode and DecodeDocument.
	DefaultMaxFileSize int64 = 1 << 20

	defaultFilename = "<input>"
)

type (
	// Option configures Decode and DecodeDocument.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func applyOptions(opts []Option) options {
	o := options{
		filename:    defaultFilename,
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.filename == "" {
		o.filename = defaultFilename
	}
	return o
}

// WithFilename sets the file name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

// WithConcrete controls whether every field must be concrete after unification.
// Schemas whose fields are all optional, like the config schema, pass false.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

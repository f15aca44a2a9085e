// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Schema is a compiled schema definition that documents are unified with.
// A cue.Context is not safe for concurrent use, so decodes against the same
// Schema are serialized.
type Schema struct {
	mu         sync.Mutex
	ctx        *cue.Context
	root       cue.Value
	definition CUEPath
}

// CompileSchema compiles src and selects definition (e.g. "#Tool") as the root
// every decoded document is unified with. Errors here are programming errors
// in an embedded schema, not user input problems.
func CompileSchema(src []byte, definition CUEPath) (*Schema, error) {
	if err := definition.Validate(); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	compiled := ctx.CompileBytes(src, cue.Filename("schema.cue"))
	if compiled.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", compiled.Err())
	}

	root := compiled.LookupPath(cue.ParsePath(string(definition)))
	if root.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", definition, root.Err())
	}

	return &Schema{ctx: ctx, root: root, definition: definition}, nil
}

// MustCompileSchema is CompileSchema for embedded schemas; it panics on error.
func MustCompileSchema(src []byte, definition CUEPath) *Schema {
	s, err := CompileSchema(src, definition)
	if err != nil {
		panic(err)
	}
	return s
}

// Definition returns the root definition path.
func (s *Schema) Definition() CUEPath { return s.definition }

// Decode compiles data, unifies it with the schema, validates it and decodes
// the result into a new T. Errors carry the CUE path of the offending field.
//
//	tool, err := cueutil.Decode[Tool](toolSchema, data, cueutil.WithFilename("bwa_mem.cue"))
func Decode[T any](s *Schema, data []byte, opts ...Option) (*T, error) {
	o := applyOptions(opts)
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.ctx.CompileBytes(data, cue.Filename(o.filename))
	if doc.Err() != nil {
		return nil, FormatError(doc.Err(), o.filename)
	}

	unified := s.root.Unify(doc)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &out, nil
}

// DecodeDocument decodes schema-less CUE into a new T. The document must be
// concrete unless WithConcrete(false) is given.
func DecodeDocument[T any](data []byte, opts ...Option) (*T, error) {
	o := applyOptions(opts)
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	doc := cuecontext.New().CompileBytes(data, cue.Filename(o.filename))
	if doc.Err() != nil {
		return nil, FormatError(doc.Err(), o.filename)
	}
	if err := doc.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var out T
	if err := doc.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &out, nil
}

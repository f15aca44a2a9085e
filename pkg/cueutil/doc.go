// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents for tool descriptions, bindings files
// and configuration.
//
// Schemas are embedded and compiled once:
//
//	//go:embed tool_schema.cue
//	var toolSchemaSrc []byte
//
//	var toolSchema = cueutil.MustCompileSchema(toolSchemaSrc, "#Tool")
//
//	tool, err := cueutil.Decode[Tool](toolSchema, data, cueutil.WithFilename(path))
//
// Errors from Decode and DecodeDocument are formatted by FormatError and
// carry the JSON-path location of the offending field.
package cueutil

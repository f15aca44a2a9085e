// SPDX-License-Identifier: MPL-2.0

// Package bindings loads template variable bindings from files and command-line
// assignments.
//
// Supported file formats are chosen by extension: .toml, .env and .cue. Nested
// tables are flattened into dotted names, so [sample] id = "x" binds sample.id.
package bindings

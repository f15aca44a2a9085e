// SPDX-License-Identifier: MPL-2.0

// Package issue holds the CLI's error catalog and the ActionableError type.
//
// Every failure the CLI reports carries the operation that failed, the file
// involved and short fix hints. Catalog entries add Markdown guidance that is
// rendered with glamour in verbose mode.
package issue

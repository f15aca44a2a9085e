// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// StdinPath names standard input wherever a file path is accepted.
const StdinPath FilesystemPath = "-"

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath is a path to a template, tool, bindings or config file,
	// or StdinPath.
	FilesystemPath string

	// InvalidFilesystemPathError is returned for blank paths and paths
	// containing NUL bytes.
	InvalidFilesystemPathError struct {
		Value  FilesystemPath
		Reason string
	}
)

func (p FilesystemPath) String() string { return string(p) }

// Validate rejects blank paths and paths the OS cannot open.
func (p FilesystemPath) Validate() error {
	switch {
	case strings.TrimSpace(string(p)) == "":
		return &InvalidFilesystemPathError{Value: p, Reason: "must be non-empty"}
	case strings.ContainsRune(string(p), 0):
		return &InvalidFilesystemPathError{Value: p, Reason: "contains a NUL byte"}
	}
	return nil
}

// IsStdin reports whether p names standard input.
func (p FilesystemPath) IsStdin() bool { return p == StdinPath }

// FormatExt returns the lower-cased extension that selects a file's decoder.
// Dotfiles such as ".env" are their own extension.
func (p FilesystemPath) FormatExt() string {
	base := filepath.Base(string(p))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		return strings.ToLower(ext)
	}
	if strings.HasPrefix(base, ".") && len(base) > 1 {
		return strings.ToLower(base)
	}
	return ""
}

func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }

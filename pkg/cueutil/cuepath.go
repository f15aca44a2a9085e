// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCUEPath is the sentinel error wrapped by InvalidCUEPathError.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

type (
	// CUEPath is a JSON-path style location inside a CUE document,
	// such as "defaults.threads" or "variables[2].name".
	CUEPath string

	// InvalidCUEPathError is returned when a CUEPath is empty or blank.
	InvalidCUEPathError struct {
		Value CUEPath
	}
)

// String returns the string representation of the CUEPath.
func (p CUEPath) String() string { return string(p) }

// Child appends one element of a CUE selector path. Numeric elements become
// list indices; the first element is never treated as an index.
func (p CUEPath) Child(elem string) CUEPath {
	switch {
	case p == "":
		return CUEPath(elem)
	case isIndex(elem):
		return p + CUEPath("["+elem+"]")
	default:
		return p + CUEPath("."+elem)
	}
}

// Validate returns an error if the path is empty or whitespace-only.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidCUEPathError{Value: p}
	}
	return nil
}

func isIndex(s string) bool {
	return s != "" && strings.Trim(s, "0123456789") == ""
}

// Error implements the error interface.
func (e *InvalidCUEPathError) Error() string {
	return fmt.Sprintf("invalid CUE path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidCUEPath for errors.Is() compatibility.
func (e *InvalidCUEPathError) Unwrap() error { return ErrInvalidCUEPath }

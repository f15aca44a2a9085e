// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
)

// ErrInvalidVariableName is the sentinel error wrapped by InvalidVariableNameError.
var ErrInvalidVariableName = errors.New("invalid variable name")

type (
	// VariableName is the name of a template variable as written after '$'.
	// Valid names are non-empty runs of letters, digits, '_', '.' and '-'.
	VariableName string

	// InvalidVariableNameError is returned when a VariableName contains a
	// character outside the name alphabet or is empty.
	InvalidVariableNameError struct {
		Value VariableName
	}
)

// String returns the string representation of the VariableName.
func (n VariableName) String() string { return string(n) }

// Validate returns an error if the name is empty or has a character that
// cannot appear in a '$name' reference.
func (n VariableName) Validate() error {
	if n == "" {
		return &InvalidVariableNameError{Value: n}
	}
	for i := range len(n) {
		c := n[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == '-':
		default:
			return &InvalidVariableNameError{Value: n}
		}
	}
	return nil
}

// Error implements the error interface for InvalidVariableNameError.
func (e *InvalidVariableNameError) Error() string {
	return fmt.Sprintf("invalid variable name %q (allowed: letters, digits, '_', '.', '-')", e.Value)
}

// Unwrap returns ErrInvalidVariableName for errors.Is() compatibility.
func (e *InvalidVariableNameError) Unwrap() error { return ErrInvalidVariableName }

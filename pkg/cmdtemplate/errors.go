// SPDX-License-Identifier: MPL-2.0

package cmdtemplate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidVariableBindings is returned when the caller supplies a nil or empty bindings map.
	ErrInvalidVariableBindings = errors.New("invalid variable bindings")
	// ErrEmptyTemplate is returned when a template yields no statements after normalization.
	ErrEmptyTemplate = errors.New("empty template")
	// ErrStructural is the sentinel error wrapped by StructuralError.
	ErrStructural = errors.New("unbalanced directives")
	// ErrMalformedCondition is the sentinel error wrapped by MalformedConditionError.
	ErrMalformedCondition = errors.New("malformed condition")
	// ErrUnknownVariable is the sentinel error wrapped by UnknownVariableError.
	ErrUnknownVariable = errors.New("unknown variable")
)

type (
	// StructuralError reports an #else, #elif or #end without a matching #if,
	// or an #if that is never closed.
	// It wraps ErrStructural for errors.Is() compatibility.
	StructuralError struct {
		// LineNumber is the 1-based template line that triggered the error.
		LineNumber int
		// Line is the trimmed source line.
		Line string
		// Reason describes the imbalance.
		Reason string
	}

	// MalformedConditionError reports a condition expression that failed to parse.
	// It wraps ErrMalformedCondition for errors.Is() compatibility.
	MalformedConditionError struct {
		// LineNumber is the 1-based template line holding the directive (0 when
		// the condition was parsed outside of a template).
		LineNumber int
		// Line is the directive line (or the bare condition text).
		Line string
		// Offset is the 0-based byte offset into the condition text.
		Offset int
		// Reason describes what the parser expected.
		Reason string
	}

	// UnknownVariableError is returned in strict mode when the template references
	// variables the caller did not bind.
	// It wraps ErrUnknownVariable for errors.Is() compatibility.
	UnknownVariableError struct {
		Names []string
	}
)

// Error implements the error interface for StructuralError.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("line %d: %s: %s (%q)", e.LineNumber, ErrStructural, e.Reason, e.Line)
}

// Unwrap returns ErrStructural for errors.Is() compatibility.
func (e *StructuralError) Unwrap() error { return ErrStructural }

// Error implements the error interface for MalformedConditionError.
func (e *MalformedConditionError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("line %d, offset %d: %s: %s (%q)", e.LineNumber, e.Offset, ErrMalformedCondition, e.Reason, e.Line)
	}
	return fmt.Sprintf("offset %d: %s: %s (%q)", e.Offset, ErrMalformedCondition, e.Reason, e.Line)
}

// Unwrap returns ErrMalformedCondition for errors.Is() compatibility.
func (e *MalformedConditionError) Unwrap() error { return ErrMalformedCondition }

// Error implements the error interface for UnknownVariableError.
func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownVariable, strings.Join(e.Names, ", "))
}

// Unwrap returns ErrUnknownVariable for errors.Is() compatibility.
func (e *UnknownVariableError) Unwrap() error { return ErrUnknownVariable }

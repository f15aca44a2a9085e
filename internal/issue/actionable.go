// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type (
	// ActionableError reports a failed CLI operation together with the file it
	// concerned and hints for fixing it. Build one with NewErrorContext:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("translate template").
	//		WithResource("bwa_mem.cue").
	//		WithSuggestion("Close every #if with #end").
	//		WithIssue(issue.TemplateStructureId).
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "load tool file".
		Operation string
		// Resource names the template, tool or bindings file involved.
		Resource string
		// Suggestions are short, distinct fix hints.
		Suggestions []string
		// Cause is the underlying error.
		Cause error
		// IssueID links to the catalog entry, or 0.
		IssueID Id
	}

	// ErrorContext accumulates the fields of an ActionableError.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext starts an empty ErrorContext.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]". The resource
// is omitted when the cause already starts with it, as parser errors do.
func (e *ActionableError) Error() string {
	var sb strings.Builder
	sb.WriteString("failed to ")
	sb.WriteString(e.Operation)

	cause := ""
	if e.Cause != nil {
		cause = e.Cause.Error()
	}
	if e.Resource != "" && !strings.HasPrefix(cause, e.Resource+":") {
		sb.WriteString(": ")
		sb.WriteString(e.Resource)
	}
	if cause != "" {
		sb.WriteString(": ")
		sb.WriteString(cause)
	}
	return sb.String()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders Error followed by the suggestions as a bullet list. Verbose
// output also numbers every error in the cause chain, descending into joined
// errors depth-first.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		sb.WriteByte('\n')
		for _, s := range e.Suggestions {
			sb.WriteString("\n  • ")
			sb.WriteString(s)
		}
	}

	if verbose && e.Cause != nil {
		sb.WriteString("\n\nError chain:")
		for i, err := range causeChain(e.Cause) {
			fmt.Fprintf(&sb, "\n  %d. %s", i+1, err.Error())
		}
	}
	return sb.String()
}

func causeChain(err error) []error {
	var chain []error
	var walk func(error)
	walk = func(err error) {
		for err != nil {
			chain = append(chain, err)
			if joined, ok := err.(interface{ Unwrap() []error }); ok {
				for _, inner := range joined.Unwrap() {
					walk(inner)
				}
				return
			}
			err = errors.Unwrap(err)
		}
	}
	walk(err)
	return chain
}

// WithOperation sets the failed operation.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource sets the file or entity involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends a hint unless it is blank or already present.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	if strings.TrimSpace(s) != "" && !slices.Contains(c.err.Suggestions, s) {
		c.err.Suggestions = append(c.err.Suggestions, s)
	}
	return c
}

// WithSuggestions appends each hint as WithSuggestion does.
func (c *ErrorContext) WithSuggestions(ss ...string) *ErrorContext {
	for _, s := range ss {
		c.WithSuggestion(s)
	}
	return c
}

// WithIssue links the error to a catalog entry.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.err.IssueID = id
	return c
}

// Wrap sets the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns the accumulated error, or nil without an operation.
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = slices.Clone(c.err.Suggestions)
	return &ae
}

// BuildError is Build as an error. It returns a nil interface, never a typed
// nil, when no operation is set.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}

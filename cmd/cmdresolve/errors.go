// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/charmbracelet/fang"

	"github.com/invowk/cmdresolve/internal/bindings"
	"github.com/invowk/cmdresolve/internal/config"
	"github.com/invowk/cmdresolve/internal/issue"
	"github.com/invowk/cmdresolve/internal/shell"
	"github.com/invowk/cmdresolve/pkg/cmdtemplate"
	"github.com/invowk/cmdresolve/pkg/cueutil"
	"github.com/invowk/cmdresolve/pkg/tooldef"
	"github.com/invowk/cmdresolve/pkg/types"
)

// actionable wraps err with CLI context. The catalog entry is taken from the
// error chain when it identifies one, otherwise fallback is used.
func actionable(err error, operation, resource string, fallback issue.Id) error {
	id := classifyError(err)
	if id == 0 {
		id = fallback
	}
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestions(suggestionsFor(err)...).
		WithIssue(id).
		Wrap(err).
		BuildError()
}

// classifyError maps an error chain to an issue catalog ID, or 0 when nothing matches.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueID != 0 {
		return ae.IssueID
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return issue.FileNotFoundId
	case errors.Is(err, cmdtemplate.ErrStructural):
		return issue.TemplateStructureId
	case errors.Is(err, cmdtemplate.ErrMalformedCondition):
		return issue.MalformedConditionId
	case errors.Is(err, cmdtemplate.ErrEmptyTemplate):
		return issue.EmptyTemplateId
	case errors.Is(err, cmdtemplate.ErrInvalidVariableBindings):
		return issue.MissingBindingsId
	case errors.Is(err, cmdtemplate.ErrUnknownVariable), errors.Is(err, tooldef.ErrMissingRequired):
		return issue.UnknownVariableId
	case errors.Is(err, tooldef.ErrInvalidTool):
		return issue.ToolFileParseErrorId
	case errors.Is(err, bindings.ErrUnsupportedFormat),
		errors.Is(err, bindings.ErrInvalidAssignment),
		errors.Is(err, bindings.ErrUnsupportedValue):
		return issue.BindingsParseErrorId
	case errors.Is(err, shell.ErrSyntax):
		return issue.ShellSyntaxErrorId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	}
	return 0
}

// suggestionsFor derives short hints from the typed errors in the chain.
func suggestionsFor(err error) []string {
	var (
		structural *cmdtemplate.StructuralError
		malformed  *cmdtemplate.MalformedConditionError
		unknown    *cmdtemplate.UnknownVariableError
		required   *tooldef.MissingRequiredError
		invalid    *tooldef.InvalidToolError
		document   *cueutil.DocumentError
		tooLarge   *cueutil.FileTooLargeError
		syntaxErr  *shell.SyntaxError
	)

	switch {
	case errors.As(err, &structural):
		return []string{fmt.Sprintf("Check line %d: %s", structural.LineNumber, structural.Line)}
	case errors.As(err, &malformed):
		return []string{fmt.Sprintf("Check line %d near column %d", malformed.LineNumber, malformed.Offset+1)}
	case errors.As(err, &unknown):
		return supplyHint(unknown.Names)
	case errors.As(err, &required):
		return supplyHint(required.Names)
	case errors.As(err, &invalid):
		return problemHints(invalid.Problems)
	case errors.As(err, &document):
		return problemHints(document.Problems)
	case errors.As(err, &tooLarge):
		return []string{fmt.Sprintf("Split or trim the file; the limit is %d bytes", tooLarge.Max)}
	case errors.As(err, &syntaxErr):
		return []string{"Check quoting of the values bound into the command"}
	case errors.Is(err, cmdtemplate.ErrInvalidVariableBindings):
		return []string{"Pass at least one --var name=value or --vars-file"}
	case errors.Is(err, fs.ErrNotExist):
		return []string{"Check the path is correct and readable"}
	}
	return nil
}

func problemHints(problems []*cueutil.ValidationError) []string {
	var hints []string
	for _, p := range problems {
		if p.Suggestion != "" {
			hints = append(hints, fmt.Sprintf("%s: %s", p.CUEPath, p.Suggestion))
		}
	}
	return hints
}

func supplyHint(names []string) []string {
	flags := make([]string, len(names))
	for i, n := range names {
		flags[i] = "--var " + n + "=..."
	}
	return []string{"Supply " + strings.Join(flags, " ")}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors use
// their own formatting, which includes the error chain in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError prints err and, in verbose mode, the catalog entry it links to.
func renderError(w io.Writer, err error, verbose bool, stylePath string) {
	fmt.Fprintf(w, "%s %s\n", errorIcon, formatErrorForDisplay(err, verbose))
	if !verbose {
		return
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID == 0 {
		return
	}
	if entry := issue.Get(ae.IssueID); entry != nil {
		if rendered, renderErr := entry.Render(stylePath); renderErr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}

// handleError is the fang error handler. Errors already reported by a command
// arrive as a bare ExitError and are not printed again.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// exitCodeForIssue returns ExitUsage for problems with the caller's input and
// ExitFailure for everything else.
func exitCodeForIssue(id issue.Id) types.ExitCode {
	switch id {
	case issue.TemplateStructureId,
		issue.MalformedConditionId,
		issue.EmptyTemplateId,
		issue.MissingBindingsId,
		issue.UnknownVariableId,
		issue.ToolFileParseErrorId,
		issue.BindingsParseErrorId,
		issue.ShellSyntaxErrorId:
		return types.ExitUsage
	default:
		return types.ExitFailure
	}
}

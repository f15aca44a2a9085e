// SPDX-License-Identifier: MPL-2.0

// Package cmdtemplate resolves parameterized command-line templates into shell command strings.
//
// A template is a short line-oriented script. Lines starting with '#' are directives
// (#if, #elif / #else if, #else, #end, and '##' comments); every other line is text that
// may interpolate variables written as $name, $name.sub or ${name}:
//
//	bwa mem -t $threads
//	#if $paired == 'yes'
//	  '$reads_1' '$reads_2'
//	#else
//	  '$reads'
//	#end
//	> $output
//
// Resolution runs a small compiler pipeline: NormalizeLine strips quotes that only wrap a
// variable reference, ScanLine splits lines into Literal and VarRef segments, Classify
// tracks directive nesting, ParseCondition builds the boolean AST of #if lines, and the
// assembler folds everything into a Statement IR (AppendStmt / IfStmt). Evaluating the IR
// appends each selected text line followed by a single space and trims the result.
//
// Directive keywords are followed by whitespace, '(' or end of line. Trailing colons are
// not accepted: "#if $a:" is a malformed condition and "#else:" a structural error.
//
// In a condition a supplied value is falsy only when it is empty or exactly False.
// Variables referenced by the template but not supplied by the caller substitute as
// DefaultValue and are falsy in conditions (see WithUnboundFalsy), unless strict mode is
// requested. All syntax errors surface from Translate, before any evaluation.
package cmdtemplate

// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const sourceName = "command"

var (
	// ErrSyntax is the sentinel wrapped by SyntaxError.
	ErrSyntax = errors.New("shell syntax error")
	// ErrUnknownDialect is returned by ParseDialect for unsupported names.
	ErrUnknownDialect = errors.New("unknown shell dialect")
)

type (
	// SyntaxError locates a parse failure inside a resolved command.
	SyntaxError struct {
		Line    uint
		Column  uint
		Message string
	}
)

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// ParseDialect maps a dialect name (bash, posix, mksh) to a parser variant.
func ParseDialect(name string) (syntax.LangVariant, error) {
	switch strings.ToLower(name) {
	case "", "bash":
		return syntax.LangBash, nil
	case "posix", "sh":
		return syntax.LangPOSIX, nil
	case "mksh":
		return syntax.LangMirBSDKorn, nil
	default:
		return 0, fmt.Errorf("%w %q (valid: bash, posix, mksh)", ErrUnknownDialect, name)
	}
}

// Parse parses command in the given dialect, translating parser failures into
// *SyntaxError.
func Parse(command string, lang syntax.LangVariant) (*syntax.File, error) {
	file, err := syntax.NewParser(syntax.Variant(lang)).Parse(strings.NewReader(command), sourceName)
	if err != nil {
		return nil, toSyntaxError(err)
	}
	return file, nil
}

// Validate reports whether command parses in the given dialect.
func Validate(command string, lang syntax.LangVariant) error {
	_, err := Parse(command, lang)
	return err
}

// Format parses command and prints it back in canonical form.
func Format(command string, lang syntax.LangVariant) (string, error) {
	file, err := Parse(command, lang)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := syntax.NewPrinter(syntax.Minify(false)).Print(&buf, file); err != nil {
		return "", fmt.Errorf("failed to print command: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func toSyntaxError(err error) error {
	var parseErr syntax.ParseError
	if errors.As(err, &parseErr) {
		return &SyntaxError{Line: parseErr.Pos.Line(), Column: parseErr.Pos.Col(), Message: parseErr.Text}
	}
	var langErr syntax.LangError
	if errors.As(err, &langErr) {
		msg := strings.TrimPrefix(langErr.Error(), fmt.Sprintf("%s:%s: ", sourceName, langErr.Pos))
		return &SyntaxError{Line: langErr.Pos.Line(), Column: langErr.Pos.Col(), Message: msg}
	}
	return fmt.Errorf("%w: %w", ErrSyntax, err)
}

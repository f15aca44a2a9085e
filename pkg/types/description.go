// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidDescriptionText is the sentinel error wrapped by InvalidDescriptionTextError.
var ErrInvalidDescriptionText = errors.New("invalid description text")

type (
	// DescriptionText documents a tool or variable. It may span several lines;
	// the first line is its summary. The zero value is valid.
	DescriptionText string

	// InvalidDescriptionTextError is returned for a non-empty, whitespace-only description.
	InvalidDescriptionTextError struct {
		Value DescriptionText
	}
)

func (d DescriptionText) String() string { return string(d) }

// Validate rejects descriptions that are present but blank.
func (d DescriptionText) Validate() error {
	if d != "" && strings.TrimSpace(string(d)) == "" {
		return &InvalidDescriptionTextError{Value: d}
	}
	return nil
}

// Summary returns the first non-blank line, cut to at most width runes with a
// trailing ellipsis. A width <= 0 disables the cut.
func (d DescriptionText) Summary(width int) string {
	var line string
	for l := range strings.Lines(string(d)) {
		if line = strings.TrimSpace(l); line != "" {
			break
		}
	}
	if width <= 0 || utf8.RuneCountInString(line) <= width {
		return line
	}
	if width == 1 {
		return "…"
	}
	runes := []rune(line)
	return strings.TrimSpace(string(runes[:width-1])) + "…"
}

func (e *InvalidDescriptionTextError) Error() string {
	return fmt.Sprintf("invalid description text: non-empty value must not be whitespace-only (got %q)", e.Value)
}

// Unwrap returns ErrInvalidDescriptionText for errors.Is() compatibility.
func (e *InvalidDescriptionTextError) Unwrap() error { return ErrInvalidDescriptionText }

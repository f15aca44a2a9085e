// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

var (
	// ErrInvalidDocument is the sentinel wrapped by DocumentError.
	ErrInvalidDocument = errors.New("invalid CUE document")
	// ErrFileTooLarge is the sentinel wrapped by FileTooLargeError.
	ErrFileTooLarge = errors.New("file too large")
)

type (
	// ValidationError is one problem at a location in a CUE document.
	ValidationError struct {
		// FilePath is the file being validated.
		FilePath string
		// CUEPath locates the invalid value, e.g. "variables[0].name". Empty for
		// problems without a location, such as syntax errors.
		CUEPath CUEPath
		// Message describes the problem.
		Message string
		// Suggestion is an optional hint for fixing it. It is not part of Error().
		Suggestion string
	}

	// DocumentError reports every problem CUE found in one document.
	DocumentError struct {
		FilePath string
		Problems []*ValidationError
	}

	// FileTooLargeError is returned when input exceeds the configured maximum size.
	FileTooLargeError struct {
		FilePath string
		Size     int64
		Max      int64
	}
)

func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

func (e *DocumentError) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0].Error()
	}
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		if p.CUEPath != "" {
			lines[i] = fmt.Sprintf("%s: %s", p.CUEPath, p.Message)
		} else {
			lines[i] = p.Message
		}
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// Unwrap returns ErrInvalidDocument for errors.Is() compatibility.
func (e *DocumentError) Unwrap() error { return ErrInvalidDocument }

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.FilePath, e.Size, e.Max)
}

// Unwrap returns ErrFileTooLarge for errors.Is() compatibility.
func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// FormatError turns a CUE error into a *DocumentError with one problem per CUE
// error, each located by a JSON-path style CUEPath:
//
//	bwa_mem.cue: variables[2].name: invalid value "in put"
//	config.cue: shell.validate: conflicting values true and "yes"
//
// Errors that are not CUE errors are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// cueerrors.Errors also wraps plain errors, whose Msg is empty.
	var cueErr cueerrors.Error
	if !errors.As(err, &cueErr) {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	cueErrs := cueerrors.Errors(err)

	docErr := &DocumentError{FilePath: filePath, Problems: make([]*ValidationError, 0, len(cueErrs))}
	for _, ce := range cueErrs {
		// Msg omits the path and position that Error() prefixes.
		format, args := ce.Msg()
		msg := fmt.Sprintf(format, args...)
		if msg == "" {
			msg = ce.Error()
		}
		docErr.Problems = append(docErr.Problems, &ValidationError{
			FilePath: filePath,
			CUEPath:  formatPath(cueerrors.Path(ce)),
			Message:  msg,
		})
	}
	return docErr
}

// formatPath converts a CUE error path such as ["#Tool", "variables", "0", "name"]
// to "variables[0].name". Leading schema definitions are dropped.
func formatPath(path []string) CUEPath {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	var p CUEPath
	for _, elem := range path {
		p = p.Child(elem)
	}
	return p
}

// CheckFileSize returns a *FileTooLargeError if data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return &FileTooLargeError{FilePath: filename, Size: size, Max: maxSize}
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// Exit codes with a fixed meaning for cmdresolve and resolved commands.
const (
	ExitSuccess ExitCode = 0
	ExitFailure ExitCode = 1
	// ExitUsage reports invalid templates, bindings or flags.
	ExitUsage ExitCode = 2
	// ExitNotFound is the shell status for a program missing from PATH.
	ExitNotFound ExitCode = 127
	// ExitInterrupted is 128+SIGINT, used when a run is canceled.
	ExitInterrupted ExitCode = 130
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status in the POSIX range 0-255.
	ExitCode int

	// InvalidExitCodeError is returned for codes outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is() compatibility.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate rejects codes a process cannot exit with.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

func (c ExitCode) IsNotFound() bool { return c == ExitNotFound }

// IsSignal reports whether c encodes termination by a signal (128+n).
func (c ExitCode) IsSignal() bool { return c > 128 && c <= 255 }

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is the status a slipway process reports when it exits. Command
	// handlers carry it up through errors rather than calling os.Exit
	// themselves. POSIX constrains the value to 0-255; zero means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode falls outside 0-255.
	// It wraps ErrInvalidExitCode for errors.Is() compatibility.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Validate returns an error if the ExitCode falls outside 0-255.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether the code signals a clean exit.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// Error implements the error interface for InvalidExitCodeError.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d: process exit status must fit in 0-255", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is() compatibility.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

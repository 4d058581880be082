// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath is a path handed in from outside (a --config flag, a
	// watch root) before any resolution happens. Absolute and relative forms
	// are both fine; the only rule is that the value names somewhere, so the
	// zero value ("") and whitespace-only values are invalid.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath value is
	// empty or whitespace-only. It wraps ErrInvalidFilesystemPath for
	// errors.Is() compatibility.
	InvalidFilesystemPathError struct {
		Value FilesystemPath
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// IsValid returns whether the FilesystemPath names somewhere. Empty and
// whitespace-only values are invalid.
func (p FilesystemPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidFilesystemPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: a path must name somewhere", e.Value)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }

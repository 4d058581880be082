// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/slipway-dev/slipway/pkg/types"
)

var (
	// ErrInvalidGlobPattern is the sentinel error wrapped by InvalidGlobPatternError.
	ErrInvalidGlobPattern = errors.New("invalid glob pattern")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid watch config")
)

type (
	// GlobPattern is a doublestar-compatible glob (e.g., "**/*.glb") used to
	// select or exclude files from watching. A valid pattern is non-empty and
	// parses as a doublestar glob.
	GlobPattern string

	// InvalidGlobPatternError is returned when a GlobPattern is empty or does
	// not parse. It wraps ErrInvalidGlobPattern for errors.Is() compatibility.
	InvalidGlobPatternError struct {
		Value GlobPattern
	}

	// InvalidConfigError is returned when a Config has invalid domain fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the parameters for a Watcher.
	Config struct {
		// Patterns select which files trigger callbacks. An empty slice
		// watches all non-ignored files.
		Patterns []GlobPattern

		// Ignore are additional glob patterns for paths that should never
		// trigger callbacks. These are merged with the built-in default
		// ignores.
		Ignore []GlobPattern

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values fall back to
		// defaultDebounce.
		Debounce time.Duration

		// ClearScreen controls whether the terminal is cleared before each
		// callback invocation by writing ANSI escape sequences to Stdout.
		// No terminal detection is performed; callers should ensure Stdout
		// is a real terminal when enabling this option.
		ClearScreen bool

		// Roots are the directories to watch recursively. Typically the asset
		// root plus the manifest's directory when the manifest lives outside
		// it. An empty slice defaults to the current working directory.
		Roots []types.FilesystemPath

		// OnChange is called after the debounce window closes with the
		// deduplicated list of changed file paths (relative to the containing
		// root). A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout and Stderr are the output writers for informational and
		// error messages respectively. nil values default to os.Stdout /
		// os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}
)

// String returns the string representation of the GlobPattern.
func (p GlobPattern) String() string { return string(p) }

// IsValid returns whether the GlobPattern is a non-empty, parseable glob.
func (p GlobPattern) IsValid() (bool, []error) {
	if p == "" || !doublestar.ValidatePattern(string(p)) {
		return false, []error{&InvalidGlobPatternError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidGlobPatternError.
func (e *InvalidGlobPatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q", e.Value)
}

// Unwrap returns ErrInvalidGlobPattern for errors.Is() compatibility.
func (e *InvalidGlobPatternError) Unwrap() error { return ErrInvalidGlobPattern }

// Validate checks the domain fields of the Config: every pattern must be a
// parseable glob and every root a usable path. Callback and writer fields are
// not validated; nil values have working defaults.
func (c Config) Validate() error {
	var fieldErrs []error

	for _, p := range c.Patterns {
		if valid, errs := p.IsValid(); !valid {
			fieldErrs = append(fieldErrs, errs...)
		}
	}
	for _, p := range c.Ignore {
		if valid, errs := p.IsValid(); !valid {
			fieldErrs = append(fieldErrs, errs...)
		}
	}
	for _, root := range c.Roots {
		if valid, errs := root.IsValid(); !valid {
			fieldErrs = append(fieldErrs, errs...)
		}
	}

	if len(fieldErrs) > 0 {
		return &InvalidConfigError{FieldErrors: fieldErrs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid watch config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid watch config: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

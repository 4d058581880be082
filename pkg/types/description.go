// SPDX-License-Identifier: MPL-2.0

// Package types holds value types shared across slipway's config, project,
// and watch packages. Each type carries its own validation so callers can
// depend on the rules without repeating them.
//
// The package sits at the bottom of the import graph: it depends only on the
// standard library and is imported by every domain package that needs a
// validated primitive.
package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxDescriptionRunes caps descriptions so generated workspace files and
// terminal summaries stay readable.
const maxDescriptionRunes = 1024

// ErrInvalidDescriptionText is the sentinel error wrapped by InvalidDescriptionTextError.
var ErrInvalidDescriptionText = errors.New("invalid description text")

type (
	// DescriptionText is free-form prose describing a workspace or art pack,
	// as written in slipway.toml. The zero value ("") means no description.
	// Non-zero values must contain at least one non-whitespace rune and fit
	// in 1024 runes.
	DescriptionText string

	// InvalidDescriptionTextError is returned when a DescriptionText value is
	// whitespace-only or too long. It wraps ErrInvalidDescriptionText for
	// errors.Is() compatibility.
	InvalidDescriptionTextError struct {
		Value DescriptionText
	}
)

// String returns the string representation of the DescriptionText.
func (d DescriptionText) String() string { return string(d) }

// IsValid returns whether the DescriptionText is valid. The zero value ("")
// is valid. Non-zero values must not be whitespace-only and must fit in
// 1024 runes.
func (d DescriptionText) IsValid() (bool, []error) {
	if d == "" {
		return true, nil
	}
	if strings.TrimSpace(string(d)) == "" || utf8.RuneCountInString(string(d)) > maxDescriptionRunes {
		return false, []error{&InvalidDescriptionTextError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDescriptionTextError.
func (e *InvalidDescriptionTextError) Error() string {
	return fmt.Sprintf("invalid description text: must be non-blank and at most %d runes (got %d)",
		maxDescriptionRunes, utf8.RuneCountInString(string(e.Value)))
}

// Unwrap returns ErrInvalidDescriptionText for errors.Is() compatibility.
func (e *InvalidDescriptionTextError) Unwrap() error { return ErrInvalidDescriptionText }

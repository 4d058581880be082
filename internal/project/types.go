// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/slipway-dev/slipway/internal/config"
	"github.com/slipway-dev/slipway/pkg/types"
)

// maxNameRunes caps project names at a length that stays readable in
// terminal output and generated file headers.
const maxNameRunes = 128

var (
	// ErrInvalidProjectName is the sentinel error wrapped by InvalidProjectNameError.
	ErrInvalidProjectName = errors.New("invalid project name")
	// ErrInvalidProjectFile is the sentinel error wrapped by InvalidProjectFileError.
	ErrInvalidProjectFile = errors.New("invalid project file")
)

type (
	// Name is the human-chosen identifier for a workspace. The zero value ("")
	// is valid and means the workspace is unnamed. Non-zero values must not be
	// whitespace-only and are capped at 128 runes.
	Name string

	// InvalidProjectNameError is returned when a Name value is whitespace-only
	// or too long. It wraps ErrInvalidProjectName for errors.Is() compatibility.
	InvalidProjectNameError struct {
		Value Name
	}

	// InvalidProjectFileError is returned when a parsed slipway.toml carries
	// invalid values. It wraps ErrInvalidProjectFile for errors.Is()
	// compatibility and collects field-level validation errors.
	InvalidProjectFileError struct {
		FieldErrors []error
	}

	// File is the parsed slipway.toml workspace file. Build settings here
	// override the user configuration and are themselves overridden by
	// command-line flags.
	File struct {
		// Project identifies the workspace.
		Project Info `toml:"project"`
		// Build overrides per-workspace build paths.
		Build Build `toml:"build"`
	}

	// Info identifies the workspace.
	Info struct {
		Name        Name                  `toml:"name"`
		Description types.DescriptionText `toml:"description,omitempty"`
	}

	// Build carries per-workspace overrides for the build paths. Empty fields
	// mean "no override"; they fall through to the user configuration.
	Build struct {
		AssetsDir config.AssetsDirPath `toml:"assets_dir,omitempty"`
		OutputDir config.OutputDirPath `toml:"output_dir,omitempty"`
		Manifest  config.ManifestPath  `toml:"manifest,omitempty"`
	}
)

// String returns the string representation of the Name.
func (n Name) String() string { return string(n) }

// IsValid returns whether the Name is valid. The zero value ("") is valid.
// Non-zero values must not be whitespace-only and must fit in 128 runes.
func (n Name) IsValid() (bool, []error) {
	if n == "" {
		return true, nil
	}
	if strings.TrimSpace(string(n)) == "" || utf8.RuneCountInString(string(n)) > maxNameRunes {
		return false, []error{&InvalidProjectNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidProjectNameError.
func (e *InvalidProjectNameError) Error() string {
	return fmt.Sprintf("invalid project name %q: must be non-blank and at most %d runes", e.Value, maxNameRunes)
}

// Unwrap returns ErrInvalidProjectName for errors.Is() compatibility.
func (e *InvalidProjectNameError) Unwrap() error { return ErrInvalidProjectName }

// IsValid returns whether the File carries valid values. Field errors from
// both sections are collected into a single InvalidProjectFileError.
func (f File) IsValid() (bool, []error) {
	var fieldErrs []error

	if valid, errs := f.Project.Name.IsValid(); !valid {
		fieldErrs = append(fieldErrs, errs...)
	}
	if valid, errs := f.Project.Description.IsValid(); !valid {
		fieldErrs = append(fieldErrs, errs...)
	}
	if f.Build.AssetsDir != "" {
		if valid, errs := f.Build.AssetsDir.IsValid(); !valid {
			fieldErrs = append(fieldErrs, errs...)
		}
	}
	if f.Build.OutputDir != "" {
		if valid, errs := f.Build.OutputDir.IsValid(); !valid {
			fieldErrs = append(fieldErrs, errs...)
		}
	}
	if valid, errs := f.Build.Manifest.IsValid(); !valid {
		fieldErrs = append(fieldErrs, errs...)
	}

	if len(fieldErrs) > 0 {
		return false, []error{&InvalidProjectFileError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidProjectFileError.
func (e *InvalidProjectFileError) Error() string {
	return fmt.Sprintf("invalid project file: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidProjectFile for errors.Is() compatibility.
func (e *InvalidProjectFileError) Unwrap() error { return ErrInvalidProjectFile }

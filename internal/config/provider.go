// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/slipway-dev/slipway/pkg/types"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs.
	// Zero-value fields mean "use the platform default".
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath types.FilesystemPath
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath types.FilesystemPath
	}

	// InvalidLoadOptionsError is returned when LoadOptions carries unusable
	// paths. It wraps ErrInvalidLoadOptions for errors.Is() compatibility and
	// collects field-level validation errors.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}
)

// Validate checks that every non-empty path in the options is usable.
// Empty fields are valid; they fall back to defaults.
func (o LoadOptions) Validate() error {
	var errs []error
	if o.ConfigFilePath != "" {
		if valid, fieldErrs := o.ConfigFilePath.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if o.ConfigDirPath != "" {
		if valid, fieldErrs := o.ConfigDirPath.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidLoadOptionsError.
func (e *InvalidLoadOptionsError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid load options: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid load options: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

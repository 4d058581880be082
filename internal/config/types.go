// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// defaultAssetsDir is where module sources live when nothing overrides it.
	defaultAssetsDir AssetsDirPath = "assets/ship_modules"
	// defaultOutputDir is where assembled bundles are written when nothing overrides it.
	defaultOutputDir OutputDirPath = "build/ship_art"
	// defaultDebounce is the watch debounce window applied when nothing overrides it.
	defaultDebounce DebounceInterval = "300ms"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidAssetsDirPath is returned when an AssetsDirPath value is empty or whitespace-only.
	ErrInvalidAssetsDirPath = errors.New("invalid assets dir path")
	// ErrInvalidOutputDirPath is returned when an OutputDirPath value is empty or whitespace-only.
	ErrInvalidOutputDirPath = errors.New("invalid output dir path")
	// ErrInvalidManifestPath is returned when a ManifestPath value is whitespace-only.
	ErrInvalidManifestPath = errors.New("invalid manifest path")
	// ErrInvalidDebounceInterval is returned when a DebounceInterval value does not
	// parse as a positive duration.
	ErrInvalidDebounceInterval = errors.New("invalid debounce interval")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnknownConfigKey is returned by Set for keys outside the config surface.
	ErrUnknownConfigKey = errors.New("unknown config key")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// AssetsDirPath represents the filesystem path to the asset root scanned for
	// ship module sources. A valid path must be non-empty and not whitespace-only.
	AssetsDirPath string

	// InvalidAssetsDirPathError is returned when an AssetsDirPath value is
	// empty or whitespace-only. It wraps ErrInvalidAssetsDirPath for errors.Is().
	InvalidAssetsDirPathError struct {
		Value AssetsDirPath
	}

	// OutputDirPath represents the filesystem path bundles are assembled into.
	// A valid path must be non-empty and not whitespace-only.
	OutputDirPath string

	// InvalidOutputDirPathError is returned when an OutputDirPath value is
	// empty or whitespace-only. It wraps ErrInvalidOutputDirPath for errors.Is().
	InvalidOutputDirPathError struct {
		Value OutputDirPath
	}

	// ManifestPath represents the filesystem path to the ship art manifest.
	// The zero value ("") is valid and means "use the manifest inside the
	// assets directory". Non-zero values must not be whitespace-only.
	ManifestPath string

	// InvalidManifestPathError is returned when a ManifestPath value is
	// non-empty but whitespace-only.
	InvalidManifestPathError struct {
		Value ManifestPath
	}

	// DebounceInterval represents the quiet window applied to filesystem events
	// in watch mode, written in Go duration syntax (e.g. "300ms", "2s").
	// A valid value must parse via time.ParseDuration to a positive duration.
	DebounceInterval string

	// InvalidDebounceIntervalError is returned when a DebounceInterval value
	// does not parse, or parses to a zero or negative duration.
	InvalidDebounceIntervalError struct {
		Value DebounceInterval
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidWatchConfigError is returned when a WatchConfig has invalid fields.
	// It wraps ErrInvalidWatchConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// AssetsDir is the root directory scanned for ship module sources.
		AssetsDir AssetsDirPath `json:"assets_dir" mapstructure:"assets_dir"`
		// OutputDir is the directory bundles are assembled into.
		OutputDir OutputDirPath `json:"output_dir" mapstructure:"output_dir"`
		// Manifest optionally pins the manifest location. Empty means
		// <assets_dir>/ship_art_manifest.json.
		Manifest ManifestPath `json:"manifest,omitempty" mapstructure:"manifest"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Watch configures build --watch behavior.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// WatchConfig configures filesystem watching for build --watch.
	WatchConfig struct {
		// Debounce is the quiet window before a rebuild fires.
		Debounce DebounceInterval `json:"debounce" mapstructure:"debounce"`
		// ClearScreen clears the terminal before each rebuild.
		ClearScreen bool `json:"clear_screen" mapstructure:"clear_screen"`
	}
)

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the WatchConfig has valid fields.
// It delegates to Debounce.IsValid(); bool fields need no validation.
func (c WatchConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Debounce.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidWatchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWatchConfigError.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to AssetsDir.IsValid(), OutputDir.IsValid(), Manifest.IsValid(),
// UI.IsValid(), and Watch.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.AssetsDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.OutputDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Manifest.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the AssetsDirPath.
func (p AssetsDirPath) String() string { return string(p) }

// IsValid returns whether the AssetsDirPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p AssetsDirPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidAssetsDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidAssetsDirPathError.
func (e *InvalidAssetsDirPathError) Error() string {
	return fmt.Sprintf("invalid assets dir path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidAssetsDirPath for errors.Is() compatibility.
func (e *InvalidAssetsDirPathError) Unwrap() error { return ErrInvalidAssetsDirPath }

// String returns the string representation of the OutputDirPath.
func (p OutputDirPath) String() string { return string(p) }

// IsValid returns whether the OutputDirPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p OutputDirPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidOutputDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidOutputDirPathError.
func (e *InvalidOutputDirPathError) Error() string {
	return fmt.Sprintf("invalid output dir path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidOutputDirPath for errors.Is() compatibility.
func (e *InvalidOutputDirPathError) Unwrap() error { return ErrInvalidOutputDirPath }

// String returns the string representation of the ManifestPath.
func (p ManifestPath) String() string { return string(p) }

// IsValid returns whether the ManifestPath is valid.
// The zero value ("") is valid (means "use the manifest inside the assets directory").
// Non-zero values must not be whitespace-only.
func (p ManifestPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidManifestPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidManifestPathError.
func (e *InvalidManifestPathError) Error() string {
	return fmt.Sprintf("invalid manifest path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidManifestPath for errors.Is() compatibility.
func (e *InvalidManifestPathError) Unwrap() error { return ErrInvalidManifestPath }

// String returns the string representation of the DebounceInterval.
func (d DebounceInterval) String() string { return string(d) }

// Duration parses the interval into a time.Duration.
func (d DebounceInterval) Duration() (time.Duration, error) {
	dur, err := time.ParseDuration(string(d))
	if err != nil {
		return 0, &InvalidDebounceIntervalError{Value: d}
	}
	return dur, nil
}

// IsValid returns whether the DebounceInterval parses to a positive duration.
func (d DebounceInterval) IsValid() (bool, []error) {
	dur, err := time.ParseDuration(string(d))
	if err != nil || dur <= 0 {
		return false, []error{&InvalidDebounceIntervalError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDebounceIntervalError.
func (e *InvalidDebounceIntervalError) Error() string {
	return fmt.Sprintf("invalid debounce interval %q: must be a positive Go duration such as \"300ms\"", e.Value)
}

// Unwrap returns ErrInvalidDebounceInterval for errors.Is() compatibility.
func (e *InvalidDebounceIntervalError) Unwrap() error { return ErrInvalidDebounceInterval }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		AssetsDir: defaultAssetsDir,
		OutputDir: defaultOutputDir,
		Manifest:  "", // Resolved against AssetsDir at build time
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Watch: WatchConfig{
			Debounce:    defaultDebounce,
			ClearScreen: false,
		},
	}
}

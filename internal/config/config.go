// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/slipway-dev/slipway/internal/issue"
	"github.com/slipway-dev/slipway/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "slipway"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the slipway configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. Resolution order: the explicit ConfigFilePath when set,
// otherwise config.cue under the config directory, otherwise defaults.
// Per-workspace settings come from slipway.toml, not from here.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("assets_dir", defaults.AssetsDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("manifest", defaults.Manifest)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("watch.clear_screen", defaults.Watch.ClearScreen)

	resolvedPath := ""

	// If a custom config file path is set via the --config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		cfgPath := opts.ConfigFilePath.String()
		if !fileExists(cfgPath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgPath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'slipway config show' to see default configuration").
				Wrap(fmt.Errorf("config file not found: %s", cfgPath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, cfgPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'slipway config --help' for configuration options").
				Wrap(err).
				BuildError()
		}
		resolvedPath = cfgPath
	} else {
		// Get config directory
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath.String())
		if err != nil {
			return nil, "", err
		}

		// Try to load the CUE config file; missing means "use defaults"
		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(cuePath).
					WithSuggestion("Check that the file contains valid CUE syntax").
					WithSuggestion("Verify the configuration values match the expected schema").
					WithSuggestion("See 'slipway config --help' for configuration options").
					Wrap(err).
					BuildError()
			}
			resolvedPath = cuePath
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate constraints that CUE cannot express: duration syntax for
	// watch.debounce, and values arriving via defaults without unification.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check ui.color_scheme is one of auto, dark, light").
			WithSuggestion(`Check watch.debounce is a positive Go duration such as "300ms"`).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// LocatePath reports the config file slipway would load: the explicit
// ConfigFilePath when set, otherwise config.cue under the config directory.
// found reports whether that file currently exists.
func LocatePath(opts LoadOptions) (path string, found bool, err error) {
	if opts.ConfigFilePath != "" {
		p := opts.ConfigFilePath.String()
		return p, fileExists(p), nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath.String())
	if err != nil {
		return "", false, err
	}

	p := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	return p, fileExists(p), nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Note: this decodes by hand rather than through a generic helper because:
// 1. Config decodes to map[string]any (not a struct) for Viper integration
// 2. Uses Concrete(false) because config fields are optional
// 3. Needs to merge into Viper's config map, not return a struct
func loadCUEIntoViper(v *viper.Viper, path string) error {
	// Read CUE file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Check file size using cueutil
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	// Parse with CUE
	ctx := cuecontext.New()

	// Compile the schema
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	// Compile the user's config file
	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	// Unify with schema to validate against #Config definition
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Decode to Go map
	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		return nil // File exists
	}

	defaults := DefaultConfig()
	cueContent := GenerateCUE(defaults)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	cueContent := GenerateCUE(cfg)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// Slipway Configuration File\n")
	sb.WriteString("// See https://github.com/slipway-dev/slipway for documentation.\n\n")

	sb.WriteString(fmt.Sprintf("assets_dir: %q\n", cfg.AssetsDir))
	sb.WriteString(fmt.Sprintf("output_dir: %q\n", cfg.OutputDir))
	if cfg.Manifest != "" {
		sb.WriteString(fmt.Sprintf("manifest: %q\n", cfg.Manifest))
	}

	// UI config
	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	// Watch config
	sb.WriteString("\nwatch: {\n")
	sb.WriteString(fmt.Sprintf("\tdebounce: %q\n", cfg.Watch.Debounce))
	sb.WriteString(fmt.Sprintf("\tclear_screen: %v\n", cfg.Watch.ClearScreen))
	sb.WriteString("}\n")

	return sb.String()
}

// Set assigns a configuration value addressed by its dotted key, validating
// the value before it lands. Keys match the config.cue field names.
func Set(cfg *Config, key, value string) error {
	switch key {
	case "assets_dir":
		p := AssetsDirPath(value)
		if valid, errs := p.IsValid(); !valid {
			return errs[0]
		}
		cfg.AssetsDir = p
	case "output_dir":
		p := OutputDirPath(value)
		if valid, errs := p.IsValid(); !valid {
			return errs[0]
		}
		cfg.OutputDir = p
	case "manifest":
		p := ManifestPath(value)
		if valid, errs := p.IsValid(); !valid {
			return errs[0]
		}
		cfg.Manifest = p
	case "ui.color_scheme":
		cs := ColorScheme(value)
		if valid, errs := cs.IsValid(); !valid {
			return errs[0]
		}
		cfg.UI.ColorScheme = cs
	case "ui.verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q for %s: %w", value, key, err)
		}
		cfg.UI.Verbose = b
	case "watch.debounce":
		d := DebounceInterval(value)
		if valid, errs := d.IsValid(); !valid {
			return errs[0]
		}
		cfg.Watch.Debounce = d
	case "watch.clear_screen":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q for %s: %w", value, key, err)
		}
		cfg.Watch.ClearScreen = b
	default:
		return fmt.Errorf("%w: %q (valid keys: assets_dir, output_dir, manifest, ui.color_scheme, ui.verbose, watch.debounce, watch.clear_screen)", ErrUnknownConfigKey, key)
	}
	return nil
}

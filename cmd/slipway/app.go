// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/internal/config"
	"github.com/slipway-dev/slipway/internal/issue"
	"github.com/slipway-dev/slipway/internal/project"
	"github.com/slipway-dev/slipway/pkg/manifest"
	"github.com/slipway-dev/slipway/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: all Cobra command handlers receive an App reference and
	// reach configuration through its ConfigProvider.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp. Tests can supply buffers
	// and mock providers to observe specific behavior.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlagValues holds the persistent flag state shared by every command.
	rootFlagValues struct {
		verbose    bool
		configPath string
	}

	// pathFlagValues holds the per-command pipeline path overrides. A zero
	// value means "not set on the command line"; resolveInputs then falls
	// through to the project file, the user configuration, and the defaults.
	pathFlagValues struct {
		assetsDir string
		manifest  string
		outputDir string
	}

	// buildInputs carries the fully resolved pipeline inputs after applying
	// flag > slipway.toml > user config > default precedence. Manifest is
	// always concrete: when nothing pins it, it derives from AssetsDir.
	buildInputs struct {
		AssetsDir string
		Manifest  string
		OutputDir string
		// Config is the resolved configuration the inputs came from, kept for
		// the non-path settings (watch debounce, color scheme).
		Config *config.Config
		// ProjectPath is the slipway.toml that contributed settings, empty
		// when the workspace has none.
		ProjectPath string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// logger returns the CLI logger writing to the App's stderr. Verbose mode
// lowers the level to Debug so per-file copy traces and resolution steps
// become visible.
func (a *App) logger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: "slipway",
		Level:  level,
	})
}

// registerPathFlags adds the pipeline path overrides to a command. The flag
// defaults stay empty so resolveInputs can tell "not given" from "given the
// default value"; the help text names the effective defaults instead.
func registerPathFlags(cmd *cobra.Command, flags *pathFlagValues, withOutput bool) {
	cmd.Flags().StringVar(&flags.assetsDir, "assets-dir", "",
		`asset root holding module sources (default "assets/ship_modules")`)
	cmd.Flags().StringVar(&flags.manifest, "manifest", "",
		`manifest path (default "<assets-dir>/ship_art_manifest.json")`)
	if withOutput {
		cmd.Flags().StringVar(&flags.outputDir, "output-dir", "",
			`bundle destination (default "build/ship_art")`)
	}
}

// loadConfigWithFallback loads configuration via the provider. An explicit
// --config path must work; failures there are returned as-is. On the default
// path a broken config file degrades to defaults with a warning, keeping the
// pipeline commands operational.
func loadConfigWithFallback(ctx context.Context, app *App, rootFlags *rootFlagValues) (*config.Config, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(rootFlags.configPath),
	})
	if err == nil {
		return cfg, nil
	}

	if rootFlags.configPath != "" {
		return nil, err
	}

	fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, rootFlags.verbose))
	return config.DefaultConfig(), nil
}

// resolveInputs produces the concrete pipeline paths for a command run,
// applying flag > slipway.toml > user config > default precedence. The
// project file is discovered by walking up from the working directory; a
// present but invalid one aborts the run rather than being skipped.
func resolveInputs(ctx context.Context, app *App, rootFlags *rootFlagValues, flags *pathFlagValues) (buildInputs, error) {
	cfg, err := loadConfigWithFallback(ctx, app, rootFlags)
	if err != nil {
		return buildInputs{}, err
	}

	proj, projPath, err := project.Discover(".")
	if err != nil {
		return buildInputs{}, issue.NewErrorContext().
			WithOperation("load project file").
			WithSuggestion("Fix the reported line in slipway.toml").
			WithSuggestion("Run 'slipway explain project-file-invalid' for the expected layout").
			Wrap(err).
			BuildError()
	}
	if proj != nil {
		proj.Apply(cfg)
	}

	in := buildInputs{
		AssetsDir:   cfg.AssetsDir.String(),
		Manifest:    cfg.Manifest.String(),
		OutputDir:   cfg.OutputDir.String(),
		Config:      cfg,
		ProjectPath: projPath,
	}
	if flags.assetsDir != "" {
		in.AssetsDir = flags.assetsDir
	}
	if flags.manifest != "" {
		in.Manifest = flags.manifest
	}
	if flags.outputDir != "" {
		in.OutputDir = flags.outputDir
	}
	if in.Manifest == "" {
		in.Manifest = filepath.Join(in.AssetsDir, manifest.DefaultFileName)
	}

	app.logger(rootFlags.verbose).Debug("resolved pipeline inputs",
		"assets_dir", in.AssetsDir,
		"manifest", in.Manifest,
		"output_dir", in.OutputDir,
		"project_file", projPath)
	return in, nil
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand creates the slipway command tree. All subcommands share the
// App and the persistent flag state it hands them.
func newRootCommand(app *App) *cobra.Command {
	rootFlags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "slipway",
		Short: "Validate and package modular spaceship art",
		Long: TitleStyle.Render("slipway") + SubtitleStyle.Render(" - ship-art manifest validation and bundle assembly") + `

slipway turns a tree of exported spaceship modules (hulls, wings,
exhausts, interiors) plus a ship_art_manifest.json into a
self-contained bundle an engine can load directly.

Every module is validated independently and all failures are reported
together, so one author's broken export never hides another's.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'slipway init' in your art repository
  2. Export meshes under the asset root and describe them in the manifest
  3. Run 'slipway build' to assemble the bundle

` + SubtitleStyle.Render("Examples:") + `
  slipway validate          Check the manifest without writing anything
  slipway build             Assemble the bundle into build/ship_art
  slipway build --watch     Rebuild whenever an asset changes
  slipway inspect           Summarize the modules the manifest declares
  slipway explain lod-config   Read up on a reported issue`,
	}

	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "config file (default is $HOME/.config/slipway/config.cue)")

	rootCmd.AddCommand(newBuildCommand(app, rootFlags))
	rootCmd.AddCommand(newValidateCommand(app, rootFlags))
	rootCmd.AddCommand(newInspectCommand(app, rootFlags))
	rootCmd.AddCommand(newInitCommand(app, rootFlags))
	rootCmd.AddCommand(newConfigCommand(app, rootFlags))
	rootCmd.AddCommand(newExplainCommand(app, rootFlags))
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/internal/issue"
	"github.com/slipway-dev/slipway/pkg/bundle"
	"github.com/slipway-dev/slipway/pkg/manifest"
)

// buildFlagValues holds the build command's flag state.
type buildFlagValues struct {
	pathFlagValues
	dryRun bool
	force  bool
	watch  bool
}

// newBuildCommand creates the `slipway build` command.
func newBuildCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &buildFlagValues{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate the manifest and assemble the bundle",
		Long: `Validate every module in the ship-art manifest and assemble the bundle.

The bundle is a self-contained directory an engine can load directly:

  modules/<type>/<id>/lod_<level>/   LOD and collision meshes
  modules/<type>/<id>/materials/     material definitions
  modules/<type>/<id>/thumbnails/    editor preview images
  modules/<type>/<id>/extras/        anything else the module declares
  ship_art_manifest.compiled.json    the compiled manifest

Validation failures are collected across all modules and reported together;
a failing build writes nothing.

Examples:
  slipway build                      Assemble into the configured output dir
  slipway build --dry-run            Validate and plan without writing
  slipway build --watch              Rebuild whenever an asset changes
  slipway build --force              Replace a bundle from another schema generation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := resolveInputs(cmd.Context(), app, rootFlags, &flags.pathFlagValues)
			if err != nil {
				return err
			}

			if flags.watch {
				// Watch mode re-runs the build on changes, while dry-run
				// promises no filesystem effect to re-run for.
				if flags.dryRun {
					return fmt.Errorf("--watch and --dry-run cannot be used together")
				}
				return runWatchBuild(cmd, app, rootFlags, in, flags)
			}

			return runBuild(cmd, app, rootFlags, in, flags)
		},
	}

	registerPathFlags(cmd, &flags.pathFlagValues, true)
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "validate and plan without writing anything")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite a bundle from a different schema generation")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "watch the asset root and rebuild on changes")

	return cmd
}

// runBuild executes one build pass: load the manifest, validate every module,
// assemble the bundle. All validation failures surface in a single report.
func runBuild(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, in buildInputs, flags *buildFlagValues) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	doc, err := manifest.Load(in.Manifest)
	if err != nil {
		renderDocumentError(stderr, err)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	result, err := bundle.Assemble(doc, bundle.Options{
		AssetsDir: in.AssetsDir,
		OutputDir: in.OutputDir,
		DryRun:    flags.dryRun,
		Force:     flags.force,
		Logger:    app.logger(rootFlags.verbose),
	})
	if err != nil {
		var buildErr *bundle.BuildError
		if errors.As(err, &buildErr) {
			renderIssueList(stderr, buildErr.Issues)
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return &ExitError{Code: 1, Err: err}
		}

		if errors.Is(err, bundle.ErrOutputMismatch) {
			mismatchErr := issue.NewErrorContext().
				WithOperation("assemble bundle").
				WithResource(in.OutputDir).
				WithSuggestion("Re-run with --force to replace the existing bundle").
				WithSuggestion("Or build into a fresh directory with --output-dir").
				Wrap(err).
				Build()
			fmt.Fprintln(stderr, formatErrorForDisplay(mismatchErr, rootFlags.verbose))
			fmt.Fprintln(stderr, hintStyle.Render(fmt.Sprintf("Run 'slipway explain %s' for guidance.", issue.Get(issue.OutputMismatchId).Slug())))
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return &ExitError{Code: 1, Err: err}
		}

		return fmt.Errorf("assemble bundle: %w", err)
	}

	fmt.Fprintf(stdout, "%s Packaged %d module(s) into %s\n", reportSuccessIcon, len(result.Modules), in.OutputDir)
	if result.DryRun {
		fmt.Fprintln(stdout, "Dry-run complete. No files were written.")
	} else {
		fmt.Fprintf(stdout, "Wrote compiled manifest: %s\n", result.CompiledManifestPath)
	}
	return nil
}

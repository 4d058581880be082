// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/bundle"
	"github.com/slipway-dev/slipway/pkg/manifest"
)

// newValidateCommand creates the `slipway validate` command. It runs the full
// validation pass without needing (or touching) an output directory.
func newValidateCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &pathFlagValues{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the ship-art manifest without writing anything",
		Long: `Validate the ship-art manifest against the asset root.

Checks the document shape (JSON, schema version, module list), then every
module definition independently: ids, types, LOD configuration, and that
every referenced file resolves inside the asset root and exists. All
failures are reported together in one pass.

Examples:
  slipway validate                             Validate the configured manifest
  slipway validate --manifest art/custom.json  Validate an explicit manifest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := resolveInputs(cmd.Context(), app, rootFlags, flags)
			if err != nil {
				return err
			}
			return runValidate(cmd, in)
		},
	}

	registerPathFlags(cmd, flags, false)

	return cmd
}

// runValidate performs the validation pass and renders a styled report.
func runValidate(cmd *cobra.Command, in buildInputs) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	fmt.Fprintln(stdout, reportTitleStyle.Render("Manifest Validation"))
	fmt.Fprintf(stdout, "%s Manifest:   %s\n", reportInfoIcon, reportPathStyle.Render(in.Manifest))
	fmt.Fprintf(stdout, "%s Asset root: %s\n", reportInfoIcon, reportPathStyle.Render(in.AssetsDir))
	fmt.Fprintln(stdout)

	doc, err := manifest.Load(in.Manifest)
	if err != nil {
		renderDocumentError(stderr, err)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	modules, issues, err := bundle.Validate(doc, in.AssetsDir)
	if err != nil {
		return fmt.Errorf("validate manifest: %w", err)
	}

	if len(issues) > 0 {
		renderIssueList(stderr, issues)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: &bundle.BuildError{Issues: issues}}
	}

	fmt.Fprintf(stdout, "%s %d module(s) validated, no issues found\n", reportSuccessIcon, len(modules))
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/bundle"
	"github.com/slipway-dev/slipway/pkg/manifest"
)

// newInspectCommand creates the `slipway inspect` command.
func newInspectCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &pathFlagValues{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the modules the manifest declares",
		Long: `Parse and validate the ship-art manifest, then print a per-module
summary: id, type, display name, LOD levels, and how many files of what
total size the module would place into a bundle.

Inspection requires a valid manifest; validation failures are reported
the same way 'slipway validate' reports them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := resolveInputs(cmd.Context(), app, rootFlags, flags)
			if err != nil {
				return err
			}
			return runInspect(cmd, in)
		},
	}

	registerPathFlags(cmd, flags, false)

	return cmd
}

// runInspect validates the manifest and renders the module summaries.
func runInspect(cmd *cobra.Command, in buildInputs) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	doc, err := manifest.Load(in.Manifest)
	if err != nil {
		renderDocumentError(stderr, err)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	modules, issues, err := bundle.Validate(doc, in.AssetsDir)
	if err != nil {
		return fmt.Errorf("inspect manifest: %w", err)
	}
	if len(issues) > 0 {
		renderIssueList(stderr, issues)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: &bundle.BuildError{Issues: issues}}
	}

	fmt.Fprintln(stdout, reportTitleStyle.Render("Ship Art Modules"))
	fmt.Fprintf(stdout, "%s Manifest: %s\n", reportInfoIcon, reportPathStyle.Render(in.Manifest))
	fmt.Fprintln(stdout)

	var (
		totalFiles int
		totalSize  int64
	)
	for _, mod := range modules {
		layout := bundle.Layout(mod)
		size := moduleSourceSize(mod)
		files := layout.FileCount()
		totalFiles += files
		totalSize += size

		fmt.Fprintf(stdout, "%s %s\n", moduleIDStyle.Render(mod.ID), moduleTypeStyle.Render("("+mod.Type+")"))
		if mod.DisplayName != "" {
			fmt.Fprintf(stdout, "    Display name: %s\n", mod.DisplayName)
		}
		fmt.Fprintf(stdout, "    LODs:  %d (levels %s)\n", len(mod.Lods), lodLevels(mod))
		fmt.Fprintf(stdout, "    Files: %d (%s)\n", files, formatFileSize(size))
		fmt.Fprintln(stdout)
	}

	fmt.Fprintf(stdout, "%s %d module(s), %d file(s), %s total\n",
		reportSuccessIcon, len(modules), totalFiles, formatFileSize(totalSize))
	return nil
}

// lodLevels renders a module's LOD levels as a comma-separated list, in
// declaration order.
func lodLevels(mod *manifest.Module) string {
	levels := make([]string, len(mod.Lods))
	for i, lod := range mod.Lods {
		levels[i] = strconv.Itoa(lod.Level)
	}
	return strings.Join(levels, ", ")
}

// moduleSourceSize sums the on-disk sizes of every file the module
// references. The files were proven to exist during validation; anything
// racing a deletion simply drops out of the sum.
func moduleSourceSize(mod *manifest.Module) int64 {
	var total int64
	add := func(path string) {
		if path == "" {
			return
		}
		if info, err := os.Stat(path); err == nil {
			total += info.Size()
		}
	}

	for _, lod := range mod.Lods {
		add(lod.Mesh.String())
		add(lod.Collision.String())
	}
	for _, p := range mod.Materials {
		add(p.String())
	}
	for _, p := range mod.Thumbnails {
		add(p.String())
	}
	for _, p := range mod.ExtraFiles {
		add(p.String())
	}
	return total
}

// formatFileSize renders a byte count using binary units, one decimal place
// above bytes.
func formatFileSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

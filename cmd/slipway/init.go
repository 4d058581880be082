// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/internal/config"
	"github.com/slipway-dev/slipway/internal/project"
	"github.com/slipway-dev/slipway/pkg/manifest"
)

// starterManifest is the manifest scaffolded into a new workspace. It
// references the placeholder mesh init creates alongside it, so a fresh
// workspace validates cleanly before any real export lands.
const starterManifest = `{
  "version": 1,
  "modules": [
    {
      "id": "hull_sample",
      "type": "hull",
      "displayName": "Sample Hull",
      "description": "Replace with your first exported hull module.",
      "lods": [
        {"level": 0, "mesh": "hulls/sample/hull_sample_lod0.glb"}
      ]
    }
  ]
}
`

// placeholderMesh is the path of the empty mesh file backing the starter
// manifest, relative to the asset root.
const placeholderMesh = "hulls/sample/hull_sample_lod0.glb"

// newInitCommand creates the `slipway init` command.
func newInitCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var (
		force     bool
		assetsDir string
		name      string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a slipway workspace in the current directory",
		Long: `Scaffold a slipway workspace: a slipway.toml project file, the asset
root with one placeholder directory per module type, and a starter
ship_art_manifest.json describing a sample hull.

The starter manifest references a placeholder mesh file that init also
creates, so 'slipway validate' passes immediately after scaffolding.

Existing files are never overwritten unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigWithFallback(cmd.Context(), app, rootFlags)
			if err != nil {
				return err
			}

			root := cfg.AssetsDir.String()
			if assetsDir != "" {
				root = assetsDir
			}
			workspace := name
			if workspace == "" {
				cwd, cwdErr := os.Getwd()
				if cwdErr != nil {
					return fmt.Errorf("determine workspace name: %w", cwdErr)
				}
				workspace = filepath.Base(cwd)
			}

			return runInit(cmd, root, workspace, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	cmd.Flags().StringVar(&assetsDir, "assets-dir", "", `asset root to scaffold (default "assets/ship_modules")`)
	cmd.Flags().StringVar(&name, "name", "", "project name for slipway.toml (default: current directory name)")

	return cmd
}

// runInit writes the workspace skeleton. Directories are created as needed;
// files refuse to replace existing content unless force is set.
func runInit(cmd *cobra.Command, assetsDir, workspace string, force bool) error {
	stdout := cmd.OutOrStdout()

	projectFile := project.Generate(&project.File{
		Project: project.Info{Name: project.Name(workspace)},
		Build: project.Build{
			AssetsDir: config.AssetsDirPath(assetsDir),
		},
	})

	files := []struct {
		path    string
		content string
	}{
		{project.FileName, projectFile},
		{filepath.Join(assetsDir, manifest.DefaultFileName), starterManifest},
		{filepath.Join(assetsDir, filepath.FromSlash(placeholderMesh)), ""},
	}

	if !force {
		for _, f := range files {
			if fileExistsCheck(f.path) {
				return fmt.Errorf("file '%s' already exists. Use --force to overwrite", f.path)
			}
		}
	}

	for _, t := range manifest.AllowedTypes() {
		dir := filepath.Join(assetsDir, t+"s")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		absPath, _ := filepath.Abs(f.path)
		fmt.Fprintf(stdout, "%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	}

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintln(stdout, "  1. Export your modules under "+assetsDir)
	fmt.Fprintln(stdout, "  2. Describe them in "+manifest.DefaultFileName)
	fmt.Fprintln(stdout, "  3. Run 'slipway build' to assemble the bundle")

	return nil
}

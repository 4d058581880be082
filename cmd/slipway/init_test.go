// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/slipway-dev/slipway/pkg/bundle"
	"github.com/slipway-dev/slipway/pkg/manifest"
)

func TestRunInit(t *testing.T) {
	// Not parallel: os.Chdir is process-wide.

	t.Run("scaffolds a validating workspace", func(t *testing.T) {
		chdir(t, t.TempDir())
		cmd, stdout, _ := newTestCommand()

		if err := runInit(cmd, "assets/ship_modules", "demo-pack", false); err != nil {
			t.Fatalf("runInit() failed: %v", err)
		}

		toml, err := os.ReadFile("slipway.toml")
		if err != nil {
			t.Fatalf("ReadFile(slipway.toml) failed: %v", err)
		}
		if !strings.Contains(string(toml), `name = "demo-pack"`) {
			t.Errorf("slipway.toml = %q, want project name", toml)
		}
		if !strings.Contains(string(toml), `assets_dir = "assets/ship_modules"`) {
			t.Errorf("slipway.toml = %q, want assets_dir", toml)
		}

		for _, dir := range []string{"hulls", "wings", "exhausts", "interiors"} {
			info, err := os.Stat(filepath.Join("assets", "ship_modules", dir))
			if err != nil || !info.IsDir() {
				t.Errorf("missing module type directory %s", dir)
			}
		}

		if !strings.Contains(stdout.String(), "Next steps:") {
			t.Errorf("stdout = %q, want next steps", stdout.String())
		}

		// The starter workspace must validate as-is.
		doc, err := manifest.Load(filepath.Join("assets", "ship_modules", manifest.DefaultFileName))
		if err != nil {
			t.Fatalf("Load() on starter manifest failed: %v", err)
		}
		modules, issues, err := bundle.Validate(doc, filepath.Join("assets", "ship_modules"))
		if err != nil {
			t.Fatalf("Validate() failed: %v", err)
		}
		if len(issues) != 0 {
			t.Fatalf("starter workspace has %d validation issue(s): %v", len(issues), issues)
		}
		if len(modules) != 1 || modules[0].ID != "hull_sample" {
			t.Errorf("starter modules = %v, want the sample hull", modules)
		}
	})

	t.Run("refuses to overwrite existing files", func(t *testing.T) {
		chdir(t, t.TempDir())
		cmd, _, _ := newTestCommand()
		if err := runInit(cmd, "assets/ship_modules", "demo-pack", false); err != nil {
			t.Fatalf("first runInit() failed: %v", err)
		}

		cmd, _, _ = newTestCommand()
		err := runInit(cmd, "assets/ship_modules", "demo-pack", false)
		if err == nil {
			t.Fatal("second runInit() succeeded, want already-exists error")
		}
		if !strings.Contains(err.Error(), "Use --force to overwrite") {
			t.Errorf("error = %q, want force hint", err)
		}
	})

	t.Run("force replaces existing files", func(t *testing.T) {
		chdir(t, t.TempDir())
		cmd, _, _ := newTestCommand()
		if err := runInit(cmd, "assets/ship_modules", "demo-pack", false); err != nil {
			t.Fatalf("first runInit() failed: %v", err)
		}
		if err := os.WriteFile("slipway.toml", []byte("scribbled over"), 0o644); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}

		cmd, _, _ = newTestCommand()
		if err := runInit(cmd, "assets/ship_modules", "demo-pack", true); err != nil {
			t.Fatalf("runInit() with force failed: %v", err)
		}

		toml, err := os.ReadFile("slipway.toml")
		if err != nil {
			t.Fatalf("ReadFile(slipway.toml) failed: %v", err)
		}
		if !strings.Contains(string(toml), `name = "demo-pack"`) {
			t.Errorf("slipway.toml = %q, want regenerated content", toml)
		}
	})
}

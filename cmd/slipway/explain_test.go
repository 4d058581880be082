// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"sort"
	"strings"
	"testing"

	"github.com/slipway-dev/slipway/internal/config"
)

func TestCatalogSlugList(t *testing.T) {
	t.Parallel()

	slugs := catalogSlugList()
	if !sort.StringsAreSorted(slugs) {
		t.Errorf("catalogSlugList() = %v, want sorted order", slugs)
	}

	want := map[string]bool{
		"manifest-not-found":   false,
		"manifest-invalid":     false,
		"lod-config":           false,
		"missing-file":         false,
		"duplicate-module":     false,
		"output-mismatch":      false,
		"project-file-invalid": false,
		"watch-failed":         false,
	}
	for _, slug := range slugs {
		if _, ok := want[slug]; ok {
			want[slug] = true
		}
	}
	for slug, seen := range want {
		if !seen {
			t.Errorf("catalogSlugList() is missing %q", slug)
		}
	}
}

func TestGlamourStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme config.ColorScheme
		want   string
	}{
		{config.ColorSchemeAuto, "auto"},
		{config.ColorSchemeDark, "dark"},
		{config.ColorSchemeLight, "light"},
		{config.ColorScheme("mauve"), "auto"},
	}

	for _, tt := range tests {
		if got := glamourStyle(tt.scheme); got != tt.want {
			t.Errorf("glamourStyle(%q) = %q, want %q", tt.scheme, got, tt.want)
		}
	}
}

func TestListCatalog(t *testing.T) {
	t.Parallel()

	cmd, stdout, _ := newTestCommand()
	if err := listCatalog(cmd); err != nil {
		t.Fatalf("listCatalog() failed: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"Issue Catalog", "lod-config", "missing-file", "Run 'slipway explain <issue>' to read an entry."} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestExplainEntry(t *testing.T) {
	t.Parallel()

	t.Run("renders a known entry", func(t *testing.T) {
		t.Parallel()

		cmd, stdout, _ := newTestCommand()
		app, _, _ := newTestApp(&staticConfigProvider{cfg: config.DefaultConfig()})

		if err := explainEntry(cmd, app, &rootFlagValues{}, "duplicate-module"); err != nil {
			t.Fatalf("explainEntry() failed: %v", err)
		}
		if !strings.Contains(stdout.String(), "Duplicate module id") {
			t.Errorf("stdout = %q, want rendered entry", stdout.String())
		}
	})

	t.Run("unknown slug lists alternatives", func(t *testing.T) {
		t.Parallel()

		cmd, _, stderr := newTestCommand()
		app, _, _ := newTestApp(&staticConfigProvider{cfg: config.DefaultConfig()})

		err := explainEntry(cmd, app, &rootFlagValues{}, "warp-core-breach")
		requireExitCode(t, err, 1)

		out := stderr.String()
		if !strings.Contains(out, `Unknown issue "warp-core-breach"`) {
			t.Errorf("stderr = %q, want unknown issue line", out)
		}
		if !strings.Contains(out, "Available entries:") || !strings.Contains(out, "manifest-not-found") {
			t.Errorf("stderr = %q, want available entries", out)
		}
	})
}

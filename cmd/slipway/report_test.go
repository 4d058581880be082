// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/slipway-dev/slipway/pkg/manifest"
)

func TestRenderIssueList(t *testing.T) {
	t.Parallel()

	issues := []manifest.Issue{
		{Code: manifest.IssueMissingFile, ModuleID: "hull_a", Message: "hull_a: file not found: hulls/a/hull_a_lod0.glb"},
		{Code: manifest.IssueLodLevel, ModuleID: "wing_b", Message: "wing_b: lods[0].level must be a non-negative integer"},
		{Code: manifest.IssueMissingFile, ModuleID: "wing_b", Message: "wing_b: file not found: wings/b/wing_b_lod0.glb"},
	}

	var buf bytes.Buffer
	renderIssueList(&buf, issues)
	out := buf.String()

	if !strings.Contains(out, "3 validation issue(s) found") {
		t.Errorf("output missing issue count:\n%s", out)
	}
	for i, iss := range issues {
		line := fmt.Sprintf("%d. [%s] %s", i+1, iss.Code, iss.Message)
		if !strings.Contains(out, line) {
			t.Errorf("output missing line %q:\n%s", line, out)
		}
	}
	if !strings.Contains(out, "Run 'slipway explain <issue>' for guidance: missing-file, lod-config") {
		t.Errorf("output missing catalog hint:\n%s", out)
	}
}

func TestCatalogSlugs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		issues []manifest.Issue
		want   []string
	}{
		{
			name: "deduplicates in first-seen order",
			issues: []manifest.Issue{
				{Code: manifest.IssueLodShape},
				{Code: manifest.IssueMissingFile},
				{Code: manifest.IssueLodDuplicate},
				{Code: manifest.IssueMissingFile},
			},
			want: []string{"lod-config", "missing-file"},
		},
		{
			name: "module shape codes share one entry",
			issues: []manifest.Issue{
				{Code: manifest.IssueModuleID},
				{Code: manifest.IssueModuleType},
				{Code: manifest.IssueFieldList},
			},
			want: []string{"module-definition"},
		},
		{
			name:   "unknown code is skipped",
			issues: []manifest.Issue{{Code: "something-new"}},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := catalogSlugs(tt.issues)
			if len(got) != len(tt.want) {
				t.Fatalf("catalogSlugs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("catalogSlugs()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDocumentErrorSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "not found", err: manifest.ErrNotFound, want: "manifest-not-found"},
		{name: "invalid JSON", err: manifest.ErrInvalidJSON, want: "manifest-invalid"},
		{name: "not an object", err: manifest.ErrNotAnObject, want: "manifest-invalid"},
		{name: "unsupported version", err: manifest.ErrUnsupportedVersion, want: "manifest-version"},
		{name: "no modules", err: manifest.ErrNoModules, want: "module-definition"},
		{name: "unrelated error", err: errors.New("disk on fire"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := documentErrorSlug(tt.err); got != tt.want {
				t.Errorf("documentErrorSlug(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestRenderDocumentError(t *testing.T) {
	t.Parallel()

	t.Run("document error shows message and path", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		renderDocumentError(&buf, &manifest.DocumentError{
			Path:    "assets/ship_modules/ship_art_manifest.json",
			Message: "manifest is not valid JSON: unexpected end of file",
		})
		out := buf.String()

		if !strings.Contains(out, "manifest is not valid JSON: unexpected end of file") {
			t.Errorf("output missing message:\n%s", out)
		}
		if !strings.Contains(out, "assets/ship_modules/ship_art_manifest.json") {
			t.Errorf("output missing manifest path:\n%s", out)
		}
	})

	t.Run("plain error falls back to generic line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		renderDocumentError(&buf, errors.New("read failed"))
		out := buf.String()

		if !strings.Contains(out, "read failed") {
			t.Errorf("output missing error text:\n%s", out)
		}
		if strings.Contains(out, "slipway explain") {
			t.Errorf("generic error should not carry a catalog hint:\n%s", out)
		}
	})
}

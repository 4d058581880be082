// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/slipway-dev/slipway/pkg/assetpath"
)

// assetRoot creates a temporary asset tree containing the given files, paths
// given with forward slashes.
func assetRoot(t *testing.T, files ...string) string {
	t.Helper()

	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create asset dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(f), 0o644); err != nil {
			t.Fatalf("create asset file: %v", err)
		}
	}
	return root
}

// parseOne wraps a single module definition in a minimal document and
// validates it against root.
func parseOne(t *testing.T, root, moduleJSON string) (*Module, *Issue) {
	t.Helper()

	doc, err := ParseBytes([]byte(`{"version": 1, "modules": [`+moduleJSON+`]}`), DefaultFileName)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	resolver, err := assetpath.New(root)
	if err != nil {
		t.Fatalf("create resolver: %v", err)
	}
	return ParseModule(doc.Modules[0], resolver)
}

func TestParseModuleValid(t *testing.T) {
	t.Parallel()

	root := assetRoot(t,
		"hulls/a/hull_a_lod0.glb",
		"hulls/a/hull_a_lod0_col.glb",
		"hulls/a/hull_a_lod1.glb",
		"materials/hull_standard.mat",
		"materials/hull_worn.mat",
		"thumbs/hull_a.png",
		"docs/hull_a_notes.txt",
	)

	mod, issue := parseOne(t, root, `{
		"id": "hull_a",
		"type": "hull",
		"displayName": "Hull Mk. A",
		"description": "Primary hull section",
		"tags": ["hull", "mk-a"],
		"sockets": [{"name": "wing_l", "position": [0, 1, 2]}],
		"lods": [
			{"level": 0, "mesh": "hulls/a/hull_a_lod0.glb", "collision": "hulls/a/hull_a_lod0_col.glb"},
			{"level": 1, "mesh": "hulls/a/hull_a_lod1.glb"}
		],
		"materials": ["materials/hull_standard.mat", "materials/hull_worn.mat"],
		"thumbnails": ["thumbs/hull_a.png"],
		"extraFiles": ["docs/hull_a_notes.txt"]
	}`)
	if issue != nil {
		t.Fatalf("ParseModule() issue = %v", issue)
	}

	if mod.ID != "hull_a" {
		t.Errorf("ID = %q, want %q", mod.ID, "hull_a")
	}
	if mod.Type != TypeHull {
		t.Errorf("Type = %q, want %q", mod.Type, TypeHull)
	}
	if mod.DisplayName != "Hull Mk. A" {
		t.Errorf("DisplayName = %q, want %q", mod.DisplayName, "Hull Mk. A")
	}

	if len(mod.Lods) != 2 {
		t.Fatalf("len(Lods) = %d, want 2", len(mod.Lods))
	}
	if mod.Lods[0].Level != 0 || mod.Lods[1].Level != 1 {
		t.Errorf("Lod levels = %d, %d, want 0, 1", mod.Lods[0].Level, mod.Lods[1].Level)
	}
	if got := mod.Lods[0].Mesh.Base(); got != "hull_a_lod0.glb" {
		t.Errorf("Lods[0].Mesh base = %q, want %q", got, "hull_a_lod0.glb")
	}
	if mod.Lods[0].Collision == "" {
		t.Error("Lods[0].Collision is empty, want resolved path")
	}
	if mod.Lods[1].Collision != "" {
		t.Errorf("Lods[1].Collision = %q, want empty", mod.Lods[1].Collision)
	}

	if len(mod.Materials) != 2 {
		t.Errorf("len(Materials) = %d, want 2", len(mod.Materials))
	}
	if len(mod.Thumbnails) != 1 {
		t.Errorf("len(Thumbnails) = %d, want 1", len(mod.Thumbnails))
	}
	if len(mod.ExtraFiles) != 1 {
		t.Errorf("len(ExtraFiles) = %d, want 1", len(mod.ExtraFiles))
	}

	if got := mod.Passthrough["description"]; got != "Primary hull section" {
		t.Errorf("Passthrough[description] = %v, want %q", got, "Primary hull section")
	}
	wantTags := []any{"hull", "mk-a"}
	if got := mod.Passthrough["tags"]; !reflect.DeepEqual(got, wantTags) {
		t.Errorf("Passthrough[tags] = %v, want %v", got, wantTags)
	}
	if _, ok := mod.Passthrough["sockets"]; !ok {
		t.Error("Passthrough[sockets] missing")
	}
	if _, ok := mod.Passthrough["mirrorOf"]; ok {
		t.Error("Passthrough[mirrorOf] present, want absent")
	}
}

func TestParseModuleDefaults(t *testing.T) {
	t.Parallel()

	root := assetRoot(t, "wings/wing_b.glb")

	mod, issue := parseOne(t, root, `{
		"id": "wing_b",
		"type": "wing",
		"lods": [{"level": 0, "mesh": "wings/wing_b.glb"}]
	}`)
	if issue != nil {
		t.Fatalf("ParseModule() issue = %v", issue)
	}

	if mod.DisplayName != "wing_b" {
		t.Errorf("DisplayName = %q, want id fallback %q", mod.DisplayName, "wing_b")
	}
	if mod.Materials != nil {
		t.Errorf("Materials = %v, want nil", mod.Materials)
	}
	if mod.Thumbnails != nil {
		t.Errorf("Thumbnails = %v, want nil", mod.Thumbnails)
	}
	if mod.ExtraFiles != nil {
		t.Errorf("ExtraFiles = %v, want nil", mod.ExtraFiles)
	}
	if mod.Passthrough != nil {
		t.Errorf("Passthrough = %v, want nil", mod.Passthrough)
	}
}

func TestParseModuleFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		files      []string
		module     string
		wantCode   string
		wantID     string
		wantMsg    string // exact match when set
		wantSub    string // substring match when set
	}{
		{
			name:     "string entry",
			module:   `"hull_a"`,
			wantCode: IssueModuleShape,
			wantMsg:  "Each module entry must be an object",
		},
		{
			name:     "number entry",
			module:   `42`,
			wantCode: IssueModuleShape,
			wantMsg:  "Each module entry must be an object",
		},
		{
			name:     "missing id",
			module:   `{"type": "hull"}`,
			wantCode: IssueModuleID,
			wantMsg:  "Module missing string 'id'",
		},
		{
			name:     "empty id",
			module:   `{"id": "", "type": "hull"}`,
			wantCode: IssueModuleID,
			wantMsg:  "Module missing string 'id'",
		},
		{
			name:     "numeric id",
			module:   `{"id": 7, "type": "hull"}`,
			wantCode: IssueModuleID,
			wantMsg:  "Module missing string 'id'",
		},
		{
			name:     "unsupported type",
			module:   `{"id": "hull_a", "type": "fuselage"}`,
			wantCode: IssueModuleType,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has unsupported type 'fuselage'. Allowed: [exhaust hull interior wing]",
		},
		{
			name:     "missing type",
			module:   `{"id": "hull_a"}`,
			wantCode: IssueModuleType,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has unsupported type 'null'. Allowed: [exhaust hull interior wing]",
		},
		{
			name:     "numeric type",
			module:   `{"id": "hull_a", "type": 3}`,
			wantCode: IssueModuleType,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has unsupported type '3'. Allowed: [exhaust hull interior wing]",
		},
		{
			name:     "missing lods",
			module:   `{"id": "hull_a", "type": "hull"}`,
			wantCode: IssueLodList,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' requires a non-empty 'lods' array",
		},
		{
			name:     "empty lods",
			module:   `{"id": "hull_a", "type": "hull", "lods": []}`,
			wantCode: IssueLodList,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' requires a non-empty 'lods' array",
		},
		{
			name:     "lods as string",
			module:   `{"id": "hull_a", "type": "hull", "lods": "hull_a.glb"}`,
			wantCode: IssueLodList,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' requires a non-empty 'lods' array",
		},
		{
			name:     "lod entry not an object",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 0, "mesh": "a.glb"}, "b.glb"]}`,
			wantCode: IssueLodShape,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' LOD #1 must be an object",
		},
		{
			name:     "lod level missing",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"mesh": "a.glb"}]}`,
			wantCode: IssueLodLevel,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has invalid LOD level: null",
		},
		{
			name:     "lod level negative",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": -1, "mesh": "a.glb"}]}`,
			wantCode: IssueLodLevel,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has invalid LOD level: -1",
		},
		{
			name:     "lod level fractional",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 1.5, "mesh": "a.glb"}]}`,
			wantCode: IssueLodLevel,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has invalid LOD level: 1.5",
		},
		{
			name:     "lod level written as float",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 1.0, "mesh": "a.glb"}]}`,
			wantCode: IssueLodLevel,
			wantID:   "hull_a",
			wantSub:  "has invalid LOD level:",
		},
		{
			name:     "lod level as string",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": "two", "mesh": "a.glb"}]}`,
			wantCode: IssueLodLevel,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has invalid LOD level: two",
		},
		{
			name:  "duplicate lod level",
			files: []string{"a.glb", "b.glb"},
			module: `{"id": "hull_a", "type": "hull", "lods": [
				{"level": 0, "mesh": "a.glb"},
				{"level": 0, "mesh": "b.glb"}
			]}`,
			wantCode: IssueLodDuplicate,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' reuses LOD level 0",
		},
		{
			name:     "mesh missing from lod",
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 0}]}`,
			wantCode: IssueInvalidPath,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has invalid mesh: expected string path",
		},
		{
			name:     "mesh escapes asset root",
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 0, "mesh": "../../evil.glb"}]}`,
			wantCode: IssuePathEscape,
			wantID:   "hull_a",
			wantSub:  "mesh must stay within",
		},
		{
			name:     "mesh file absent",
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 0, "mesh": "ghost.glb"}]}`,
			wantCode: IssueMissingFile,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' references missing file for mesh: ghost.glb",
		},
		{
			name:     "collision not a string",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 0, "mesh": "a.glb", "collision": 5}]}`,
			wantCode: IssueInvalidPath,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has invalid collision: expected string path",
		},
		{
			name:     "materials not a list",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 0, "mesh": "a.glb"}], "materials": "m.mat"}`,
			wantCode: IssueFieldList,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has invalid materials: expected a list of paths",
		},
		{
			name:     "materials entry not a string",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 0, "mesh": "a.glb"}], "materials": [5]}`,
			wantCode: IssueInvalidPath,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has invalid materials: expected string path",
		},
		{
			name:     "materials entry absent from disk",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 0, "mesh": "a.glb"}], "materials": ["ghost.mat"]}`,
			wantCode: IssueMissingFile,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' references missing file for materials: ghost.mat",
		},
		{
			name:     "thumbnails entry not a string",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 0, "mesh": "a.glb"}], "thumbnails": [true]}`,
			wantCode: IssueInvalidPath,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has invalid thumbnail: expected string path",
		},
		{
			name:     "legacy thumbnail empty",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 0, "mesh": "a.glb"}], "thumbnail": ""}`,
			wantCode: IssueInvalidPath,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has invalid thumbnail: expected string path",
		},
		{
			name:     "extraFiles not a list",
			files:    []string{"a.glb"},
			module:   `{"id": "hull_a", "type": "hull", "lods": [{"level": 0, "mesh": "a.glb"}], "extraFiles": {"doc": "readme.txt"}}`,
			wantCode: IssueFieldList,
			wantID:   "hull_a",
			wantMsg:  "Module 'hull_a' has invalid extraFiles: expected a list of paths",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := assetRoot(t, tt.files...)
			mod, issue := parseOne(t, root, tt.module)
			if issue == nil {
				t.Fatalf("ParseModule() = %+v, want issue", mod)
			}
			if mod != nil {
				t.Errorf("ParseModule() returned module %+v alongside issue", mod)
			}
			if issue.Code != tt.wantCode {
				t.Errorf("Issue.Code = %q, want %q", issue.Code, tt.wantCode)
			}
			if issue.ModuleID != tt.wantID {
				t.Errorf("Issue.ModuleID = %q, want %q", issue.ModuleID, tt.wantID)
			}
			if tt.wantMsg != "" && issue.Message != tt.wantMsg {
				t.Errorf("Issue.Message = %q, want %q", issue.Message, tt.wantMsg)
			}
			if tt.wantSub != "" && !strings.Contains(issue.Message, tt.wantSub) {
				t.Errorf("Issue.Message = %q, want substring %q", issue.Message, tt.wantSub)
			}
		})
	}
}

func TestParseModuleCollisionOptional(t *testing.T) {
	t.Parallel()

	root := assetRoot(t, "a.glb")

	// Absent, null and empty-string collisions all mean "no collision mesh".
	for _, lod := range []string{
		`{"level": 0, "mesh": "a.glb"}`,
		`{"level": 0, "mesh": "a.glb", "collision": null}`,
		`{"level": 0, "mesh": "a.glb", "collision": ""}`,
	} {
		mod, issue := parseOne(t, root, `{"id": "hull_a", "type": "hull", "lods": [`+lod+`]}`)
		if issue != nil {
			t.Fatalf("ParseModule() issue = %v for lod %s", issue, lod)
		}
		if mod.Lods[0].Collision != "" {
			t.Errorf("Collision = %q, want empty for lod %s", mod.Lods[0].Collision, lod)
		}
	}
}

func TestParseModuleThumbnailFallback(t *testing.T) {
	t.Parallel()

	root := assetRoot(t, "a.glb", "thumbs/old.png", "thumbs/new.png")

	// Legacy singular field is honored when no thumbnails list is present.
	mod, issue := parseOne(t, root, `{
		"id": "hull_a", "type": "hull",
		"lods": [{"level": 0, "mesh": "a.glb"}],
		"thumbnail": "thumbs/old.png"
	}`)
	if issue != nil {
		t.Fatalf("ParseModule() issue = %v", issue)
	}
	if len(mod.Thumbnails) != 1 || mod.Thumbnails[0].Base() != "old.png" {
		t.Errorf("Thumbnails = %v, want single old.png", mod.Thumbnails)
	}

	// The thumbnails list wins over the legacy field.
	mod, issue = parseOne(t, root, `{
		"id": "hull_a", "type": "hull",
		"lods": [{"level": 0, "mesh": "a.glb"}],
		"thumbnails": ["thumbs/new.png"],
		"thumbnail": "thumbs/old.png"
	}`)
	if issue != nil {
		t.Fatalf("ParseModule() issue = %v", issue)
	}
	if len(mod.Thumbnails) != 1 || mod.Thumbnails[0].Base() != "new.png" {
		t.Errorf("Thumbnails = %v, want single new.png", mod.Thumbnails)
	}

	// A non-string legacy value is ignored rather than rejected.
	mod, issue = parseOne(t, root, `{
		"id": "hull_a", "type": "hull",
		"lods": [{"level": 0, "mesh": "a.glb"}],
		"thumbnail": 5
	}`)
	if issue != nil {
		t.Fatalf("ParseModule() issue = %v", issue)
	}
	if mod.Thumbnails != nil {
		t.Errorf("Thumbnails = %v, want nil", mod.Thumbnails)
	}
}

func TestParseModuleIgnoresUnknownKeys(t *testing.T) {
	t.Parallel()

	root := assetRoot(t, "a.glb")

	mod, issue := parseOne(t, root, `{
		"id": "hull_a", "type": "hull",
		"lods": [{"level": 0, "mesh": "a.glb"}],
		"editorState": {"zoom": 2}
	}`)
	if issue != nil {
		t.Fatalf("ParseModule() issue = %v", issue)
	}
	if _, ok := mod.Passthrough["editorState"]; ok {
		t.Error("unrecognized key leaked into Passthrough")
	}
}

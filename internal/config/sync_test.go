// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// configSchema is embedded in config.go and available to tests via the same package.

// =============================================================================
// Schema Sync Tests
// =============================================================================
// These tests verify Go struct JSON tags match CUE schema field names.
// They catch misalignments at CI time, preventing silent parsing failures.

// extractCUEFields extracts all field names from a CUE struct definition.
// It returns a map of field names to whether the field is optional.
// Nested struct fields are not included; only top-level fields of the given definition.
func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)

	// Iterate over the struct fields
	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	for iter.Next() {
		sel := iter.Selector()
		// Skip hidden fields (start with _) and definitions (start with #)
		labelType := sel.LabelType()
		if labelType.IsHidden() || sel.IsDefinition() {
			continue
		}

		// The selector string may include the "?" suffix for optional fields
		// We need to strip it to get the actual field name
		fieldName := sel.String()
		fieldName = strings.TrimSuffix(fieldName, "?")
		isOptional := iter.IsOptional()
		fields[fieldName] = isOptional
	}

	return fields
}

// extractGoJSONTags extracts all JSON field names from a Go struct using reflection.
// It returns a map of JSON tag names to whether the field has "omitempty".
// Fields with json:"-" are excluded.
// Embedded structs are not expanded; only direct fields are returned.
func extractGoJSONTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	// Dereference pointer types
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		t.Fatalf("expected struct type, got %s", typ.Kind())
	}

	fields := make(map[string]bool)

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			// No json tag or explicitly excluded
			continue
		}

		// Parse the tag: "name,omitempty" or just "name"
		parts := strings.Split(tag, ",")
		name := parts[0]
		if name == "" || name == "-" {
			continue
		}

		hasOmitempty := slices.Contains(parts[1:], "omitempty")

		fields[name] = hasOmitempty
	}

	return fields
}

// assertFieldsSync verifies that CUE schema fields and Go struct JSON tags are in sync.
// It checks:
// 1. Every CUE field has a corresponding Go JSON tag
// 2. Every Go JSON tag has a corresponding CUE field
// 3. Optional/omitempty alignment (warning only, not a failure)
func assertFieldsSync(t *testing.T, structName string, cueFields, goFields map[string]bool) {
	t.Helper()

	// Check CUE fields exist in Go struct
	for field, isOptional := range cueFields {
		hasOmitempty, exists := goFields[field]
		if !exists {
			t.Errorf("[%s] CUE field %q not found in Go struct (missing JSON tag)", structName, field)
			continue
		}
		// Warn about optional/omitempty mismatch (not a hard failure)
		if isOptional && !hasOmitempty {
			t.Logf("[%s] Note: CUE field %q is optional but Go field lacks omitempty tag", structName, field)
		}
	}

	// Check Go fields exist in CUE schema
	for field := range goFields {
		if _, exists := cueFields[field]; !exists {
			t.Errorf("[%s] Go JSON tag %q not found in CUE schema (missing CUE field)", structName, field)
		}
	}
}

// getCUESchema compiles the embedded CUE schema and returns the context and compiled value.
func getCUESchema(t *testing.T) (cue.Value, *cue.Context) {
	t.Helper()

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile CUE schema: %v", schema.Err())
	}

	return schema, ctx
}

// lookupDefinition looks up a CUE definition by path (e.g., "#Config").
func lookupDefinition(t *testing.T, schema cue.Value, defPath string) cue.Value {
	t.Helper()

	def := schema.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		t.Fatalf("failed to lookup CUE definition %s: %v", defPath, def.Err())
	}

	return def
}

// TestConfigSchemaSync verifies Config Go struct matches #Config CUE definition.
func TestConfigSchemaSync(t *testing.T) {
	schema, _ := getCUESchema(t)
	cueFields := extractCUEFields(t, lookupDefinition(t, schema, "#Config"))
	goFields := extractGoJSONTags(t, reflect.TypeFor[Config]())

	assertFieldsSync(t, "Config", cueFields, goFields)
}

// TestUIConfigSchemaSync verifies UIConfig Go struct matches #UIConfig CUE definition.
func TestUIConfigSchemaSync(t *testing.T) {
	schema, _ := getCUESchema(t)
	cueFields := extractCUEFields(t, lookupDefinition(t, schema, "#UIConfig"))
	goFields := extractGoJSONTags(t, reflect.TypeFor[UIConfig]())

	assertFieldsSync(t, "UIConfig", cueFields, goFields)
}

// TestWatchConfigSchemaSync verifies WatchConfig Go struct matches #WatchConfig CUE definition.
func TestWatchConfigSchemaSync(t *testing.T) {
	schema, _ := getCUESchema(t)
	cueFields := extractCUEFields(t, lookupDefinition(t, schema, "#WatchConfig"))
	goFields := extractGoJSONTags(t, reflect.TypeFor[WatchConfig]())

	assertFieldsSync(t, "WatchConfig", cueFields, goFields)
}

// =============================================================================
// Schema Boundary Tests
// =============================================================================
// These tests verify CUE schema constraints (MaxRunes, non-empty, enums)
// catch invalid values at parse time.

// validateCUE compiles CUE test data against the embedded config schema's #Config definition.
// It returns nil if the data is valid, or an error describing why validation failed.
func validateCUE(t *testing.T, cueData string) error {
	t.Helper()

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		t.Fatalf("failed to compile schema: %v", schemaValue.Err())
	}

	userValue := ctx.CompileString(cueData)
	if userValue.Err() != nil {
		return fmt.Errorf("CUE compile error: %w", userValue.Err())
	}

	schemaDef := schemaValue.LookupPath(cue.ParsePath("#Config"))
	if schemaDef.Err() != nil {
		t.Fatalf("failed to lookup #Config: %v", schemaDef.Err())
	}

	unified := schemaDef.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("CUE validation error: %w", err)
	}

	return nil
}

// TestAssetsDirConstraints verifies assets_dir rejects empty strings and
// enforces the 4096 rune limit.
func TestAssetsDirConstraints(t *testing.T) {
	tests := []struct {
		name    string
		cueData string
		wantErr bool
	}{
		{
			name:    "empty string rejected",
			cueData: `assets_dir: ""`,
			wantErr: true,
		},
		{
			name:    "relative path accepted",
			cueData: `assets_dir: "assets/ship_modules"`,
			wantErr: false,
		},
		{
			name:    "4096-char path accepted",
			cueData: `assets_dir: "` + strings.Repeat("a", 4096) + `"`,
			wantErr: false,
		},
		{
			name:    "4097-char path rejected",
			cueData: `assets_dir: "` + strings.Repeat("a", 4097) + `"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCUE(t, tt.cueData)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

// TestColorSchemeConstraints verifies ui.color_scheme only accepts the
// auto/dark/light enum.
func TestColorSchemeConstraints(t *testing.T) {
	tests := []struct {
		name    string
		cueData string
		wantErr bool
	}{
		{
			name:    "auto accepted",
			cueData: `ui: color_scheme: "auto"`,
			wantErr: false,
		},
		{
			name:    "dark accepted",
			cueData: `ui: color_scheme: "dark"`,
			wantErr: false,
		},
		{
			name:    "light accepted",
			cueData: `ui: color_scheme: "light"`,
			wantErr: false,
		},
		{
			name:    "unknown scheme rejected",
			cueData: `ui: color_scheme: "purple"`,
			wantErr: true,
		},
		{
			name:    "uppercase rejected",
			cueData: `ui: color_scheme: "AUTO"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCUE(t, tt.cueData)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

// TestDebounceConstraints verifies the schema-level checks on watch.debounce.
// The schema requires a non-empty string; duration syntax is validated in Go
// because CUE cannot parse Go duration literals.
func TestDebounceConstraints(t *testing.T) {
	tests := []struct {
		name    string
		cueData string
		wantErr bool
	}{
		{
			name:    "duration string accepted",
			cueData: `watch: debounce: "300ms"`,
			wantErr: false,
		},
		{
			name:    "empty string rejected",
			cueData: `watch: debounce: ""`,
			wantErr: true,
		},
		{
			name:    "unparseable string passes the schema",
			cueData: `watch: debounce: "fast"`,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCUE(t, tt.cueData)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

// TestClosedSchema verifies #Config rejects fields outside the schema.
func TestClosedSchema(t *testing.T) {
	tests := []struct {
		name    string
		cueData string
		wantErr bool
	}{
		{
			name:    "unknown top-level field rejected",
			cueData: `colour_scheme: "auto"`,
			wantErr: true,
		},
		{
			name:    "unknown nested field rejected",
			cueData: `ui: { theme: "dracula" }`,
			wantErr: true,
		},
		{
			name: "full valid config accepted",
			cueData: `
assets_dir: "assets/ship_modules"
output_dir: "build/ship_art"
manifest: "assets/ship_modules/ship_art_manifest.json"
ui: {
	color_scheme: "dark"
	verbose: true
}
watch: {
	debounce: "500ms"
	clear_screen: false
}
`,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCUE(t, tt.cueData)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

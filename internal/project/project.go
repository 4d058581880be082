// SPDX-License-Identifier: MPL-2.0

package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/slipway-dev/slipway/internal/config"
)

// FileName is the well-known project file name searched for by Find.
const FileName = "slipway.toml"

// Find walks up from startDir toward the filesystem root looking for a
// slipway.toml. The nearest file wins. found is false when no ancestor
// directory carries one.
func Find(startDir string) (path string, found bool, err error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve project search root: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load reads and validates a slipway.toml file. Unknown keys are rejected so
// typos surface instead of silently doing nothing.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, fmt.Errorf("parse %s: unknown keys:\n%s", path, strictErr.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("parse %s:%d:%d: %s", path, row, col, decodeErr.Error())
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if valid, errs := f.IsValid(); !valid {
		return nil, fmt.Errorf("%s: %w", path, errs[0])
	}

	return &f, nil
}

// Discover locates and loads the project file governing startDir. A missing
// file is not an error: it returns a nil File and an empty path.
func Discover(startDir string) (*File, string, error) {
	path, found, err := Find(startDir)
	if err != nil || !found {
		return nil, "", err
	}

	f, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

// Apply overlays the file's build settings onto cfg. Only set fields
// override; empty fields keep whatever cfg already carries.
func (f *File) Apply(cfg *config.Config) {
	if f.Build.AssetsDir != "" {
		cfg.AssetsDir = f.Build.AssetsDir
	}
	if f.Build.OutputDir != "" {
		cfg.OutputDir = f.Build.OutputDir
	}
	if f.Build.Manifest != "" {
		cfg.Manifest = f.Build.Manifest
	}
}

// Generate renders a slipway.toml for the given File, suitable for writing
// during workspace scaffolding. Empty optional fields are omitted.
func Generate(f *File) string {
	var sb strings.Builder

	sb.WriteString("# Slipway project file\n")
	sb.WriteString("# Settings here override the user configuration; command-line flags override both.\n\n")

	sb.WriteString("[project]\n")
	sb.WriteString(fmt.Sprintf("name = %q\n", f.Project.Name))
	if f.Project.Description != "" {
		sb.WriteString(fmt.Sprintf("description = %q\n", f.Project.Description))
	}

	sb.WriteString("\n[build]\n")
	if f.Build.AssetsDir != "" {
		sb.WriteString(fmt.Sprintf("assets_dir = %q\n", f.Build.AssetsDir))
	}
	if f.Build.OutputDir != "" {
		sb.WriteString(fmt.Sprintf("output_dir = %q\n", f.Build.OutputDir))
	}
	if f.Build.Manifest != "" {
		sb.WriteString(fmt.Sprintf("manifest = %q\n", f.Build.Manifest))
	}

	return sb.String()
}

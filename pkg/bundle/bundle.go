// Package bundle assembles validated ship-art modules into a distributable
// bundle directory.
//
// A bundle is a self-contained folder produced from a manifest and an asset
// root. Engines consume it without ever touching the source tree.
//
// Bundle structure:
//   - modules/<type>/<id>/lod_<level>/ holds the LOD meshes and collision
//     meshes, keeping their source basenames
//   - modules/<type>/<id>/{materials,thumbnails,extras}/ hold the remaining
//     per-module files, created only when the module declares content
//   - ship_art_manifest.compiled.json at the root describes the result
//
// Assembly is all-or-nothing with respect to validation: every module is
// checked before the first file is copied, and all failures are reported
// together. The compiled manifest is written last, atomically, so a bundle
// that carries one is complete.
package bundle

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/slipway-dev/slipway/pkg/assetpath"
	"github.com/slipway-dev/slipway/pkg/manifest"
)

// ErrOutputMismatch means the output directory already holds a compiled
// manifest from a different schema generation.
var ErrOutputMismatch = errors.New("existing bundle has a different schema version")

// Options configures a single assembly run.
type Options struct {
	// AssetsDir is the asset root all manifest paths resolve against.
	AssetsDir string
	// OutputDir is the bundle destination.
	OutputDir string
	// DryRun validates and plans without touching the output directory.
	DryRun bool
	// Force overwrites an existing bundle even when its compiled manifest
	// declares a different schema version.
	Force bool
	// Logger receives per-module and per-file traces. Defaults to the
	// package-level logger.
	Logger *log.Logger
}

// Result describes a completed (or dry-run) assembly.
type Result struct {
	// OutputDir is the bundle destination, as configured.
	OutputDir string
	// Modules holds the validated module records in manifest order.
	Modules []*manifest.Module
	// FilesCopied is the number of files placed into the bundle. On a dry
	// run it is the number that would have been.
	FilesCopied int
	// CompiledManifestPath is the written compiled manifest. Empty on a
	// dry run.
	CompiledManifestPath string
	// DryRun records whether the output directory was left untouched.
	DryRun bool
}

// BuildError aggregates every validation failure found across the
// manifest's modules.
type BuildError struct {
	// Issues holds the failures in manifest order, at most one per module.
	Issues []manifest.Issue
}

// Error renders the combined report, one failure per line.
func (e *BuildError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Build failed with %d error(s):", len(e.Issues))
	for _, issue := range e.Issues {
		b.WriteByte('\n')
		b.WriteString(issue.Message)
	}
	return b.String()
}

// Validate checks every module definition against the asset root and
// returns the validated records alongside the issues found. Records and
// issues both follow manifest order. The duplicate-id check spans module
// entries, so it lives here rather than with the per-module checks.
func Validate(doc *manifest.Document, assetsDir string) ([]*manifest.Module, []manifest.Issue, error) {
	resolver, err := assetpath.New(assetsDir)
	if err != nil {
		return nil, nil, err
	}

	var (
		modules []*manifest.Module
		issues  []manifest.Issue
		seen    = make(map[string]bool)
	)
	for _, src := range doc.Modules {
		mod, issue := manifest.ParseModule(src, resolver)
		if issue != nil {
			issues = append(issues, *issue)
			continue
		}
		if seen[mod.ID] {
			issues = append(issues, manifest.Issue{
				Code:     manifest.IssueDuplicateID,
				ModuleID: mod.ID,
				Message:  fmt.Sprintf("Module '%s' reuses id of an earlier module entry", mod.ID),
			})
			continue
		}
		seen[mod.ID] = true
		modules = append(modules, mod)
	}
	return modules, issues, nil
}

// Assemble validates the manifest's modules and builds the bundle. A
// *BuildError carries all validation failures; any other error is an I/O
// failure from executing the plan.
func Assemble(doc *manifest.Document, opts Options) (*Result, error) {
	modules, issues, err := Validate(doc, opts.AssetsDir)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, &BuildError{Issues: issues}
	}

	layouts := make([]ModuleLayout, 0, len(modules))
	for _, mod := range modules {
		layouts = append(layouts, Layout(mod))
	}

	result := &Result{
		OutputDir: opts.OutputDir,
		Modules:   modules,
		DryRun:    opts.DryRun,
	}
	if opts.DryRun {
		for _, l := range layouts {
			result.FilesCopied += len(l.copies())
		}
		return result, nil
	}

	if !opts.Force {
		if err := checkExistingOutput(opts.OutputDir); err != nil {
			return nil, err
		}
	}

	logger := opts.logger()
	for _, l := range layouts {
		ops := l.copies()
		logger.Debug("packaging module",
			"id", l.Module.ID,
			"type", l.Module.Type,
			"lods", len(l.Module.Lods),
			"files", len(ops))
		for _, op := range ops {
			dest := filepath.Join(opts.OutputDir, filepath.FromSlash(op.dest))
			if err := copyFile(op.src.String(), dest); err != nil {
				return nil, fmt.Errorf("failed to copy %s into bundle: %w", op.dest, err)
			}
			logger.Debug("copied file", "source", op.src.Base(), "dest", op.dest)
			result.FilesCopied++
		}
	}

	data, err := CompiledManifest(layouts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode compiled manifest: %w", err)
	}
	compiledPath := filepath.Join(opts.OutputDir, manifest.CompiledFileName)
	if err := writeFileAtomic(compiledPath, data); err != nil {
		return nil, fmt.Errorf("failed to write compiled manifest: %w", err)
	}
	result.CompiledManifestPath = compiledPath

	logger.Info("bundle assembled",
		"modules", len(modules),
		"files", result.FilesCopied,
		"output", opts.OutputDir)
	return result, nil
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

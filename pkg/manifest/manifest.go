// SPDX-License-Identifier: MPL-2.0

// Package manifest loads ship-art manifests and validates their module
// definitions against the asset root.
//
// A manifest is a JSON document declaring the modules of a modular spaceship
// art set: hulls, wings, exhausts and interior pieces, each with LOD meshes,
// optional collision meshes, materials, thumbnails and extra files. The
// package performs the top-level document checks (schema version, module
// list shape) as immediate failures and validates each module definition
// independently, so one author's mistake never hides another's.
package manifest

import (
	"errors"
	"sort"

	"cuelang.org/go/cue"

	"github.com/slipway-dev/slipway/pkg/assetpath"
)

// SupportedVersion is the only manifest schema generation this pipeline
// accepts. Any other version aborts before module validation: partial
// validation across schema generations would produce misleading reports.
const SupportedVersion = 1

// CompiledFileName is the compiled manifest's filename inside a bundle.
const CompiledFileName = "ship_art_manifest.compiled.json"

// DefaultFileName is the manifest filename looked up under the asset root
// when no explicit path is given.
const DefaultFileName = "ship_art_manifest.json"

// The closed set of module types a manifest may declare.
const (
	TypeHull     = "hull"
	TypeWing     = "wing"
	TypeExhaust  = "exhaust"
	TypeInterior = "interior"
)

var moduleTypes = map[string]struct{}{
	TypeHull:     {},
	TypeWing:     {},
	TypeExhaust:  {},
	TypeInterior: {},
}

// PassthroughKeys are the recognized open metadata keys copied verbatim and
// unvalidated from a module definition into the compiled manifest, in the
// order they appear in the output. New optional metadata only needs a new
// entry here; nothing downstream inspects the values.
var PassthroughKeys = []string{
	"description",
	"sockets",
	"interiorAnchor",
	"metrics",
	"compatibleSockets",
	"mirrorOf",
	"tags",
	"dependencies",
	"vfxHooks",
}

// Issue codes categorize validation failures. Each code names an entry in
// the issue catalog so the CLI can point authors at a longer explanation.
const (
	IssueModuleShape  = "module-shape"
	IssueModuleID     = "module-id"
	IssueModuleType   = "module-type"
	IssueLodList      = "lod-list"
	IssueLodShape     = "lod-shape"
	IssueLodLevel     = "lod-level"
	IssueLodDuplicate = "lod-duplicate"
	IssueFieldList    = "field-list"
	IssueInvalidPath  = "invalid-path"
	IssuePathEscape   = "path-escape"
	IssueMissingFile  = "missing-file"
	IssueDuplicateID  = "duplicate-id"
)

// Sentinel errors wrapped by DocumentError, for errors.Is classification.
var (
	// ErrNotFound means the manifest file does not exist.
	ErrNotFound = errors.New("manifest not found")
	// ErrInvalidJSON means the document could not be parsed as JSON.
	ErrInvalidJSON = errors.New("manifest is not valid JSON")
	// ErrNotAnObject means the document root is not a JSON object.
	ErrNotAnObject = errors.New("manifest root is not an object")
	// ErrUnsupportedVersion means the version field is not SupportedVersion.
	ErrUnsupportedVersion = errors.New("unsupported manifest version")
	// ErrNoModules means the modules field is absent, empty, or not a list.
	ErrNoModules = errors.New("manifest has no modules")
)

type (
	// Document is a structurally sound manifest: the root is an object, the
	// version matched SupportedVersion, and modules is a non-empty list.
	// Module definitions are carried raw; their validation is per-module.
	Document struct {
		// Version is the manifest schema generation.
		Version int
		// Modules holds the raw module definitions in declaration order.
		Modules []ModuleSource
		// Path is the location the document was read from.
		Path string
	}

	// ModuleSource is one raw module definition. Its content is opaque until
	// ParseModule validates it.
	ModuleSource struct {
		// Index is the position within the manifest's modules array.
		Index int

		val cue.Value
	}

	// Module is a fully validated module record. Every path field has been
	// resolved against the asset root and proven to exist inside it.
	Module struct {
		ID          string
		Type        string
		DisplayName string
		// Lods holds the level-of-detail entries in declaration order.
		Lods []Lod
		// Materials, Thumbnails and ExtraFiles preserve declaration order.
		Materials  []assetpath.ResolvedPath
		Thumbnails []assetpath.ResolvedPath
		ExtraFiles []assetpath.ResolvedPath
		// Passthrough holds the recognized open metadata keys present on the
		// source definition, decoded verbatim. Iterate PassthroughKeys for a
		// stable order.
		Passthrough map[string]any
	}

	// Lod is a validated level-of-detail entry. Levels are unique within
	// their module but carry no ordering or contiguity requirement.
	Lod struct {
		Level int
		Mesh  assetpath.ResolvedPath
		// Collision is empty when the definition declared none.
		Collision assetpath.ResolvedPath
	}

	// Issue is a single validation failure tied to a module definition.
	// Issues are accumulated across modules and reported together; they are
	// never raised individually.
	Issue struct {
		// Code categorizes the failure (see the Issue* constants).
		Code string
		// ModuleID is the declaring module's id, when one could be read.
		ModuleID string
		// Message is the author-facing description.
		Message string
	}

	// DocumentError is a fatal top-level manifest failure. It aborts the
	// build before any module is inspected.
	DocumentError struct {
		// Path is the manifest location.
		Path string
		// Message is the author-facing description.
		Message string

		err error
	}
)

// Error implements the error interface for Issue.
func (i Issue) Error() string { return i.Message }

// Error implements the error interface for DocumentError.
func (e *DocumentError) Error() string { return e.Message }

// Unwrap returns the sentinel error classifying the failure.
func (e *DocumentError) Unwrap() error { return e.err }

// IsModuleType reports whether t is one of the accepted module types.
func IsModuleType(t string) bool {
	_, ok := moduleTypes[t]
	return ok
}

// AllowedTypes returns the accepted module types in sorted order, so
// failure messages enumerate the set deterministically.
func AllowedTypes() []string {
	types := make([]string, 0, len(moduleTypes))
	for t := range moduleTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

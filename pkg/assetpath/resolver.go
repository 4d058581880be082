// Package assetpath resolves manifest-declared file references against an
// asset root and enforces that every reference stays inside it.
//
// The asset root is the security boundary of the build: a manifest may only
// reference files beneath it. Containment is decided on the lexically
// canonicalized candidate path (".." segments resolved, no symlink
// following), never on the raw string, so traversal like "../../secrets"
// is rejected even when the target does not exist.
package assetpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind classifies why a reference failed to resolve.
type Kind int

const (
	// KindInvalidPath means the declared value was not a non-empty string.
	KindInvalidPath Kind = iota + 1
	// KindPathEscape means the canonicalized location leaves the asset root.
	KindPathEscape
	// KindMissingFile means the contained location does not exist on disk.
	KindMissingFile
)

var (
	// ErrInvalidPath is the sentinel error wrapped by KindInvalidPath failures.
	ErrInvalidPath = errors.New("invalid path reference")
	// ErrPathEscape is the sentinel error wrapped by KindPathEscape failures.
	ErrPathEscape = errors.New("path escapes asset root")
	// ErrMissingFile is the sentinel error wrapped by KindMissingFile failures.
	ErrMissingFile = errors.New("referenced file missing")
)

type (
	// ResolvedPath is an absolute filesystem location proven, at resolution
	// time, to exist and to lie within the asset root's subtree. It is
	// produced once by a Resolver and consumed read-only downstream.
	ResolvedPath string

	// Ref names the manifest location a path was declared at. It only feeds
	// error messages, so authors can find the offending field.
	Ref struct {
		// ModuleID is the id of the module declaring the reference.
		ModuleID string
		// Field is the manifest field name (e.g. "mesh", "materials").
		Field string
	}

	// ResolveError is the failure result of a single resolution attempt.
	// It wraps one of the package sentinel errors for errors.Is matching.
	ResolveError struct {
		Kind Kind
		Ref  Ref
		// Raw is the declared path string. Empty for KindInvalidPath, where
		// the declared value was not a string at all.
		Raw string
		// Root is the asset root as configured, used in escape messages.
		Root string
	}

	// Resolver resolves relative references against a single asset root.
	// It performs read-only filesystem probes and memoizes successful
	// resolutions, since material and thumbnail paths repeat across modules.
	// A Resolver is not safe for concurrent use.
	Resolver struct {
		root    string // as configured, for messages
		absRoot string // canonicalized, for containment math
		memo    map[string]ResolvedPath
	}
)

// String returns the location as a plain string.
func (p ResolvedPath) String() string { return string(p) }

// Base returns the final path element. Bundle layouts preserve basenames,
// so this is the name a file keeps inside the output tree.
func (p ResolvedPath) Base() string { return filepath.Base(string(p)) }

// Error renders the author-facing message for the failure.
func (e *ResolveError) Error() string {
	switch e.Kind {
	case KindPathEscape:
		return fmt.Sprintf("Module '%s' %s must stay within %s. Got: %s", e.Ref.ModuleID, e.Ref.Field, e.Root, e.Raw)
	case KindMissingFile:
		return fmt.Sprintf("Module '%s' references missing file for %s: %s", e.Ref.ModuleID, e.Ref.Field, e.Raw)
	default:
		return fmt.Sprintf("Module '%s' has invalid %s: expected string path", e.Ref.ModuleID, e.Ref.Field)
	}
}

// Unwrap returns the sentinel error matching the failure kind.
func (e *ResolveError) Unwrap() error {
	switch e.Kind {
	case KindPathEscape:
		return ErrPathEscape
	case KindMissingFile:
		return ErrMissingFile
	default:
		return ErrInvalidPath
	}
}

// New creates a Resolver for the given asset root. The root itself is not
// required to exist; a missing root simply makes every reference resolve
// as missing.
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve asset root %q: %w", root, err)
	}
	return &Resolver{
		root:    root,
		absRoot: filepath.Clean(abs),
		memo:    make(map[string]ResolvedPath),
	}, nil
}

// Root returns the asset root as configured.
func (r *Resolver) Root() string { return r.root }

// Resolve turns a manifest-declared value into a ResolvedPath, or fails with
// a ResolveError. Checks run in a fixed order: the value must be a non-empty
// string, the canonicalized location must stay within the asset root, and
// the location must exist. Containment is decided before existence, so
// escaping references are always reported as escapes.
func (r *Resolver) Resolve(ref Ref, raw any) (ResolvedPath, error) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", &ResolveError{Kind: KindInvalidPath, Ref: ref, Root: r.root}
	}

	if cached, hit := r.memo[s]; hit {
		return cached, nil
	}

	// An absolute declared path is taken as-is, mirroring how a relative
	// join would discard the root; it must still land inside the root.
	candidate := filepath.FromSlash(s)
	if filepath.IsAbs(candidate) {
		candidate = filepath.Clean(candidate)
	} else {
		candidate = filepath.Join(r.absRoot, candidate)
	}

	if !r.contains(candidate) {
		return "", &ResolveError{Kind: KindPathEscape, Ref: ref, Raw: s, Root: r.root}
	}

	if _, err := os.Stat(candidate); err != nil {
		return "", &ResolveError{Kind: KindMissingFile, Ref: ref, Raw: s, Root: r.root}
	}

	resolved := ResolvedPath(candidate)
	r.memo[s] = resolved
	return resolved, nil
}

// contains reports whether the canonicalized candidate lies within the asset
// root's subtree. The root itself counts as contained.
func (r *Resolver) contains(candidate string) bool {
	rel, err := filepath.Rel(r.absRoot, candidate)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

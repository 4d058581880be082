// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

// Load reads the manifest at path and performs the top-level document
// checks. Any failure is a *DocumentError; module definitions are not
// inspected here.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DocumentError{
				Path:    path,
				Message: fmt.Sprintf("Manifest not found: %s", path),
				err:     ErrNotFound,
			}
		}
		return nil, &DocumentError{
			Path:    path,
			Message: fmt.Sprintf("Manifest could not be read: %v", err),
			err:     err,
		}
	}
	return ParseBytes(data, path)
}

// ParseBytes parses manifest JSON already held in memory. The path is used
// for positions in failure messages only; the file is not read.
//
// The document is parsed through CUE rather than encoding/json so that
// number literals keep their surface form: a LOD level written as 1.0 must
// be rejected later, and stdlib decoding into interface{} would erase the
// distinction.
func ParseBytes(data []byte, path string) (*Document, error) {
	expr, err := cuejson.Extract(path, data)
	if err != nil {
		return nil, &DocumentError{
			Path:    path,
			Message: fmt.Sprintf("Manifest JSON is invalid: %v", err),
			err:     ErrInvalidJSON,
		}
	}

	ctx := cuecontext.New()
	root := ctx.BuildExpr(expr)
	if err := root.Err(); err != nil {
		return nil, &DocumentError{
			Path:    path,
			Message: fmt.Sprintf("Manifest JSON is invalid: %v", err),
			err:     ErrInvalidJSON,
		}
	}

	if root.Kind() != cue.StructKind {
		return nil, &DocumentError{
			Path:    path,
			Message: "Manifest root must be an object",
			err:     ErrNotAnObject,
		}
	}

	// Version equality is numeric: authors occasionally write 1.0 and the
	// pipeline has always accepted it.
	version, verErr := root.LookupPath(cue.ParsePath("version")).Float64()
	if verErr != nil || version != SupportedVersion {
		return nil, &DocumentError{
			Path:    path,
			Message: fmt.Sprintf("Manifest version %d expected. Update the pipeline if schema changes.", SupportedVersion),
			err:     ErrUnsupportedVersion,
		}
	}

	noModules := &DocumentError{
		Path:    path,
		Message: "Manifest requires a non-empty 'modules' array",
		err:     ErrNoModules,
	}
	iter, listErr := root.LookupPath(cue.ParsePath("modules")).List()
	if listErr != nil {
		return nil, noModules
	}
	var sources []ModuleSource
	for i := 0; iter.Next(); i++ {
		sources = append(sources, ModuleSource{Index: i, val: iter.Value()})
	}
	if len(sources) == 0 {
		return nil, noModules
	}

	return &Document{
		Version: SupportedVersion,
		Modules: sources,
		Path:    path,
	}, nil
}

// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"

	"github.com/slipway-dev/slipway/pkg/assetpath"
)

// ParseModule validates one raw module definition against the asset root
// and returns its record. Validation stops at the definition's first
// failure; callers collect Issues across modules and report them together.
func ParseModule(src ModuleSource, resolver *assetpath.Resolver) (*Module, *Issue) {
	v := src.val
	if v.Kind() != cue.StructKind {
		return nil, &Issue{
			Code:    IssueModuleShape,
			Message: "Each module entry must be an object",
		}
	}

	id, err := v.LookupPath(cue.ParsePath("id")).String()
	if err != nil || id == "" {
		return nil, &Issue{
			Code:    IssueModuleID,
			Message: "Module missing string 'id'",
		}
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	moduleType, err := typeVal.String()
	if err != nil || !IsModuleType(moduleType) {
		shown := moduleType
		if err != nil {
			shown = describeValue(typeVal)
		}
		return nil, &Issue{
			Code:     IssueModuleType,
			ModuleID: id,
			Message: fmt.Sprintf("Module '%s' has unsupported type '%s'. Allowed: %v",
				id, shown, AllowedTypes()),
		}
	}

	displayName := id
	if s, err := v.LookupPath(cue.ParsePath("displayName")).String(); err == nil && s != "" {
		displayName = s
	}

	lods, issue := parseLods(v, id, resolver)
	if issue != nil {
		return nil, issue
	}

	materials, issue := resolveList(resolver, id, v.LookupPath(cue.ParsePath("materials")), "materials")
	if issue != nil {
		return nil, issue
	}

	thumbnails, issue := parseThumbnails(v, id, resolver)
	if issue != nil {
		return nil, issue
	}

	extras, issue := resolveList(resolver, id, v.LookupPath(cue.ParsePath("extraFiles")), "extraFiles")
	if issue != nil {
		return nil, issue
	}

	var passthrough map[string]any
	for _, key := range PassthroughKeys {
		kv := v.LookupPath(cue.ParsePath(key))
		if !kv.Exists() {
			continue
		}
		var decoded any
		if err := kv.Decode(&decoded); err != nil {
			continue
		}
		if passthrough == nil {
			passthrough = make(map[string]any)
		}
		passthrough[key] = decoded
	}

	return &Module{
		ID:          id,
		Type:        moduleType,
		DisplayName: displayName,
		Lods:        lods,
		Materials:   materials,
		Thumbnails:  thumbnails,
		ExtraFiles:  extras,
		Passthrough: passthrough,
	}, nil
}

func parseLods(v cue.Value, id string, resolver *assetpath.Resolver) ([]Lod, *Issue) {
	noLods := &Issue{
		Code:     IssueLodList,
		ModuleID: id,
		Message:  fmt.Sprintf("Module '%s' requires a non-empty 'lods' array", id),
	}
	iter, err := v.LookupPath(cue.ParsePath("lods")).List()
	if err != nil {
		return nil, noLods
	}

	var lods []Lod
	seen := make(map[int64]bool)
	for i := 0; iter.Next(); i++ {
		entry := iter.Value()
		if entry.Kind() != cue.StructKind {
			return nil, &Issue{
				Code:     IssueLodShape,
				ModuleID: id,
				Message:  fmt.Sprintf("Module '%s' LOD #%d must be an object", id, i),
			}
		}

		levelVal := entry.LookupPath(cue.ParsePath("level"))
		level, err := levelVal.Int64()
		if err != nil || level < 0 {
			return nil, &Issue{
				Code:     IssueLodLevel,
				ModuleID: id,
				Message:  fmt.Sprintf("Module '%s' has invalid LOD level: %s", id, describeValue(levelVal)),
			}
		}
		if seen[level] {
			return nil, &Issue{
				Code:     IssueLodDuplicate,
				ModuleID: id,
				Message:  fmt.Sprintf("Module '%s' reuses LOD level %d", id, level),
			}
		}
		seen[level] = true

		mesh, resErr := resolveField(resolver, id, "mesh", entry.LookupPath(cue.ParsePath("mesh")))
		if resErr != nil {
			return nil, issueFromResolve(resErr)
		}
		lod := Lod{Level: int(level), Mesh: mesh}

		// Collision meshes are optional. A null or empty declaration means
		// the same as no declaration at all.
		if collVal := entry.LookupPath(cue.ParsePath("collision")); declaresValue(collVal) {
			collision, resErr := resolveField(resolver, id, "collision", collVal)
			if resErr != nil {
				return nil, issueFromResolve(resErr)
			}
			lod.Collision = collision
		}

		lods = append(lods, lod)
	}
	if len(lods) == 0 {
		return nil, noLods
	}
	return lods, nil
}

// parseThumbnails reads the thumbnails list, falling back to the legacy
// singular string field kept for manifests that predate galleries. A
// legacy value of any other type is ignored rather than rejected.
func parseThumbnails(v cue.Value, id string, resolver *assetpath.Resolver) ([]assetpath.ResolvedPath, *Issue) {
	if iter, err := v.LookupPath(cue.ParsePath("thumbnails")).List(); err == nil {
		return resolveEntries(resolver, id, "thumbnail", iter)
	}
	legacy := v.LookupPath(cue.ParsePath("thumbnail"))
	if _, err := legacy.String(); err != nil {
		return nil, nil
	}
	resolved, resErr := resolveField(resolver, id, "thumbnail", legacy)
	if resErr != nil {
		return nil, issueFromResolve(resErr)
	}
	return []assetpath.ResolvedPath{resolved}, nil
}

func resolveList(resolver *assetpath.Resolver, id string, v cue.Value, field string) ([]assetpath.ResolvedPath, *Issue) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, &Issue{
			Code:     IssueFieldList,
			ModuleID: id,
			Message:  fmt.Sprintf("Module '%s' has invalid %s: expected a list of paths", id, field),
		}
	}
	return resolveEntries(resolver, id, field, iter)
}

func resolveEntries(resolver *assetpath.Resolver, id, field string, iter cue.Iterator) ([]assetpath.ResolvedPath, *Issue) {
	var resolved []assetpath.ResolvedPath
	for iter.Next() {
		p, resErr := resolveField(resolver, id, field, iter.Value())
		if resErr != nil {
			return nil, issueFromResolve(resErr)
		}
		resolved = append(resolved, p)
	}
	return resolved, nil
}

// resolveField hands a raw manifest value to the path resolver. Non-string
// values are passed through decoded so the resolver reports them as invalid
// paths with its usual message.
func resolveField(resolver *assetpath.Resolver, id, field string, v cue.Value) (assetpath.ResolvedPath, *assetpath.ResolveError) {
	var raw any
	if v.Exists() {
		if s, err := v.String(); err == nil {
			raw = s
		} else {
			var decoded any
			if err := v.Decode(&decoded); err == nil {
				raw = decoded
			}
		}
	}
	resolved, err := resolver.Resolve(assetpath.Ref{ModuleID: id, Field: field}, raw)
	if err != nil {
		var resErr *assetpath.ResolveError
		errors.As(err, &resErr)
		return "", resErr
	}
	return resolved, nil
}

func issueFromResolve(err *assetpath.ResolveError) *Issue {
	code := IssueInvalidPath
	switch err.Kind {
	case assetpath.KindPathEscape:
		code = IssuePathEscape
	case assetpath.KindMissingFile:
		code = IssueMissingFile
	}
	return &Issue{Code: code, ModuleID: err.Ref.ModuleID, Message: err.Error()}
}

// declaresValue reports whether an optional field carries a usable value.
// Absent, null and empty-string declarations all count as undeclared.
func declaresValue(v cue.Value) bool {
	if !v.Exists() || v.Kind() == cue.NullKind {
		return false
	}
	if s, err := v.String(); err == nil && s == "" {
		return false
	}
	return true
}

// describeValue renders a manifest value for a failure message: strings
// bare, everything else in source form, absent values as null.
func describeValue(v cue.Value) string {
	if !v.Exists() || v.Kind() == cue.NullKind {
		return "null"
	}
	if s, err := v.String(); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

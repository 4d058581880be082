package bundle

import (
	"fmt"
	"path"

	"github.com/slipway-dev/slipway/pkg/assetpath"
	"github.com/slipway-dev/slipway/pkg/manifest"
)

// ModuleLayout is the bundle-relative projection of one module: where each
// of its files lands inside the output tree. All paths use forward slashes
// on every platform, matching the compiled manifest.
type ModuleLayout struct {
	// Module is the validated record the layout was projected from.
	Module *manifest.Module
	// Dir is the module's directory, modules/<type>/<id>.
	Dir string
	// Meshes holds the LOD mesh destinations, parallel to Module.Lods.
	Meshes []string
	// Collisions holds the collision mesh destinations, parallel to
	// Module.Lods, empty where a LOD declares none.
	Collisions []string
	// Materials, Thumbnails and Extras hold the remaining destinations in
	// declaration order.
	Materials  []string
	Thumbnails []string
	Extras     []string
}

// Layout projects a validated module onto the bundle tree. It is a pure
// computation; nothing is touched on disk.
func Layout(m *manifest.Module) ModuleLayout {
	dir := path.Join("modules", m.Type, m.ID)
	l := ModuleLayout{
		Module:     m,
		Dir:        dir,
		Meshes:     make([]string, len(m.Lods)),
		Collisions: make([]string, len(m.Lods)),
	}
	for i, lod := range m.Lods {
		lodDir := path.Join(dir, fmt.Sprintf("lod_%d", lod.Level))
		l.Meshes[i] = path.Join(lodDir, lod.Mesh.Base())
		if lod.Collision != "" {
			l.Collisions[i] = path.Join(lodDir, lod.Collision.Base())
		}
	}
	l.Materials = destinations(dir, "materials", m.Materials)
	l.Thumbnails = destinations(dir, "thumbnails", m.Thumbnails)
	l.Extras = destinations(dir, "extras", m.ExtraFiles)
	return l
}

// FileCount returns the number of files the layout places into the bundle.
func (l ModuleLayout) FileCount() int {
	return len(l.copies())
}

// copyOp pairs a resolved source with its bundle-relative destination.
type copyOp struct {
	src  assetpath.ResolvedPath
	dest string
}

func (l ModuleLayout) copies() []copyOp {
	m := l.Module
	var ops []copyOp
	for i, lod := range m.Lods {
		ops = append(ops, copyOp{src: lod.Mesh, dest: l.Meshes[i]})
		if l.Collisions[i] != "" {
			ops = append(ops, copyOp{src: lod.Collision, dest: l.Collisions[i]})
		}
	}
	for i, src := range m.Materials {
		ops = append(ops, copyOp{src: src, dest: l.Materials[i]})
	}
	for i, src := range m.Thumbnails {
		ops = append(ops, copyOp{src: src, dest: l.Thumbnails[i]})
	}
	for i, src := range m.ExtraFiles {
		ops = append(ops, copyOp{src: src, dest: l.Extras[i]})
	}
	return ops
}

func destinations(dir, sub string, sources []assetpath.ResolvedPath) []string {
	if len(sources) == 0 {
		return nil
	}
	dests := make([]string, len(sources))
	for i, src := range sources {
		dests[i] = path.Join(dir, sub, src.Base())
	}
	return dests
}

package bundle

import (
	"reflect"
	"testing"

	"github.com/slipway-dev/slipway/pkg/assetpath"
	"github.com/slipway-dev/slipway/pkg/manifest"
)

func TestLayoutProjection(t *testing.T) {
	t.Parallel()

	mod := &manifest.Module{
		ID:   "wing_l",
		Type: manifest.TypeWing,
		Lods: []manifest.Lod{
			{Level: 0, Mesh: "/assets/wings/l/wing_l_lod0.glb", Collision: "/assets/wings/l/wing_l_col.glb"},
			{Level: 2, Mesh: "/assets/wings/l/wing_l_lod2.glb"},
		},
	}

	l := Layout(mod)

	if l.Dir != "modules/wing/wing_l" {
		t.Errorf("Dir = %q, want %q", l.Dir, "modules/wing/wing_l")
	}
	wantMeshes := []string{
		"modules/wing/wing_l/lod_0/wing_l_lod0.glb",
		"modules/wing/wing_l/lod_2/wing_l_lod2.glb",
	}
	if !reflect.DeepEqual(l.Meshes, wantMeshes) {
		t.Errorf("Meshes = %v, want %v", l.Meshes, wantMeshes)
	}
	if l.Collisions[0] != "modules/wing/wing_l/lod_0/wing_l_col.glb" {
		t.Errorf("Collisions[0] = %q", l.Collisions[0])
	}
	if l.Collisions[1] != "" {
		t.Errorf("Collisions[1] = %q, want empty", l.Collisions[1])
	}
	if got := l.FileCount(); got != 3 {
		t.Errorf("FileCount() = %d, want 3", got)
	}
}

func TestLayoutFlattensSourceDirectories(t *testing.T) {
	t.Parallel()

	mod := &manifest.Module{
		ID:   "hull_a",
		Type: manifest.TypeHull,
		Lods: []manifest.Lod{{Level: 0, Mesh: "/assets/hulls/a/hull_a.glb"}},
		Materials: []assetpath.ResolvedPath{
			"/assets/materials/shared/base.mat",
			"/assets/materials/custom/worn.mat",
		},
	}

	l := Layout(mod)

	want := []string{
		"modules/hull/hull_a/materials/base.mat",
		"modules/hull/hull_a/materials/worn.mat",
	}
	if !reflect.DeepEqual(l.Materials, want) {
		t.Errorf("Materials = %v, want %v", l.Materials, want)
	}
}

package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slipway-dev/slipway/pkg/manifest"
)

// jsonField is one key of an orderedObject.
type jsonField struct {
	Key   string
	Value any
}

// orderedObject marshals as a JSON object whose keys appear exactly in
// slice order. encoding/json sorts map keys, which would scramble the
// compiled manifest between runs of different Go versions and against the
// layout engine teams diff their bundles with.
type orderedObject []jsonField

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", f.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CompiledManifest encodes the compiled document for a set of module
// layouts. The output is deterministic: identical inputs produce identical
// bytes, 2-space indented with a trailing newline.
func CompiledManifest(layouts []ModuleLayout) ([]byte, error) {
	modules := make([]orderedObject, 0, len(layouts))
	for _, l := range layouts {
		modules = append(modules, compiledEntry(l))
	}
	root := orderedObject{
		{"version", manifest.SupportedVersion},
		{"generated", true},
		{"modules", modules},
	}
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// compiledEntry builds one module entry. Key order is fixed: identity
// first, then LODs, then the pass-through metadata, then the optional file
// groups, which are omitted entirely when empty.
func compiledEntry(l ModuleLayout) orderedObject {
	m := l.Module
	entry := orderedObject{
		{"id", m.ID},
		{"type", m.Type},
		{"displayName", m.DisplayName},
	}

	lods := make([]orderedObject, 0, len(m.Lods))
	for i, lod := range m.Lods {
		e := orderedObject{
			{"level", lod.Level},
			{"mesh", l.Meshes[i]},
		}
		if l.Collisions[i] != "" {
			e = append(e, jsonField{"collision", l.Collisions[i]})
		}
		lods = append(lods, e)
	}
	entry = append(entry, jsonField{"lods", lods})

	for _, key := range manifest.PassthroughKeys {
		if v, ok := m.Passthrough[key]; ok {
			entry = append(entry, jsonField{key, v})
		}
	}

	if len(l.Materials) > 0 {
		entry = append(entry, jsonField{"materials", l.Materials})
	}
	if len(l.Thumbnails) > 0 {
		entry = append(entry, jsonField{"thumbnails", l.Thumbnails})
	}
	if len(l.Extras) > 0 {
		entry = append(entry, jsonField{"extraFiles", l.Extras})
	}
	return entry
}

// checkExistingOutput refuses to build over a bundle whose compiled
// manifest declares a different schema generation. A missing or absent
// compiled manifest is fine; stale bundles from the current generation are
// simply overwritten file by file.
func checkExistingOutput(outputDir string) error {
	path := filepath.Join(outputDir, manifest.CompiledFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var prior struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &prior); err != nil || prior.Version == nil {
		return fmt.Errorf("%w: %s is not a readable compiled manifest", ErrOutputMismatch, path)
	}
	if *prior.Version != manifest.SupportedVersion {
		return fmt.Errorf("%w: %s declares version %d, this pipeline writes version %d",
			ErrOutputMismatch, path, *prior.Version, manifest.SupportedVersion)
	}
	return nil
}

// writeFileAtomic writes data through a temp file in the target directory
// plus rename, so readers never observe a partially written manifest.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

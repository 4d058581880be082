// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/slipway-dev/slipway/pkg/manifest"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestInvalidId
	ManifestVersionId
	ModuleDefinitionId
	LodConfigId
	PathEscapeId
	MissingFileId
	DuplicateModuleId
	OutputMismatchId
	ConfigLoadFailedId
	ProjectFileInvalidId
	WatchFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	slug     string      // name used on the command line (slipway explain <slug>)
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation links
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Slug() string {
	return i.slug
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id:   ManifestNotFoundId,
		slug: "manifest-not-found",
		mdMsg: `
# Manifest not found!

No ship_art_manifest.json exists at the expected location.

## Where we look (in order of precedence):
1. The --manifest flag
2. The manifest path in slipway.toml
3. <assets-dir>/ship_art_manifest.json

## Things you can try:
- Scaffold a starter manifest in the current project:
~~~
$ slipway init
~~~

- Point the build at an explicit manifest:
~~~
$ slipway build --manifest path/to/ship_art_manifest.json
~~~`,
	}

	manifestInvalidIssue = &Issue{
		id:   ManifestInvalidId,
		slug: "manifest-invalid",
		mdMsg: `
# Manifest is not valid JSON!

The manifest could not be parsed, or its root is not a JSON object.

## Common causes:
- Trailing commas (JSON does not allow them)
- Comments (JSON does not allow them either)
- A top-level array instead of an object

## Things you can try:
- Check the parser detail in the error message for the exact position
- Validate without building:
~~~
$ slipway validate
~~~

## Minimal valid manifest:
~~~json
{
  "version": 1,
  "modules": [
    {
      "id": "hull_a",
      "type": "hull",
      "lods": [{"level": 0, "mesh": "hulls/a/hull_a_lod0.glb"}]
    }
  ]
}
~~~`,
	}

	manifestVersionIssue = &Issue{
		id:   ManifestVersionId,
		slug: "manifest-version",
		mdMsg: `
# Unsupported manifest version!

This pipeline only builds manifests declaring "version": 1. Mixing schema
generations would make per-module validation unreliable, so the build stops
before inspecting any module.

## Things you can try:
- Set the version field back to 1 if it was edited by hand
- Upgrade slipway if your art tooling has moved to a newer schema`,
	}

	moduleDefinitionIssue = &Issue{
		id:   ModuleDefinitionId,
		slug: "module-definition",
		mdMsg: `
# Invalid module definition!

Every entry of the "modules" array must be an object with a non-empty
string "id" and a supported "type".

## Supported module types:
- **hull**: primary structural pieces
- **wing**: lateral attachments, usually mirrored
- **exhaust**: engine and thruster pieces
- **interior**: walkable interior sections

## Example:
~~~json
{
  "id": "wing_raptor_l",
  "type": "wing",
  "displayName": "Raptor Wing (L)",
  "lods": [{"level": 0, "mesh": "wings/raptor/wing_raptor_l_lod0.glb"}]
}
~~~`,
	}

	lodConfigIssue = &Issue{
		id:   LodConfigId,
		slug: "lod-config",
		mdMsg: `
# Invalid LOD configuration!

Each module needs a non-empty "lods" array. Every entry must be an object
whose "level" is a non-negative integer, unique within the module. Levels
do not have to be contiguous; lod_0 plus lod_4 is fine.

## Things you can try:
- Write levels as integers: 1, not 1.0 or "1"
- Check for copy-pasted entries reusing a level

## Example:
~~~json
"lods": [
  {"level": 0, "mesh": "hulls/a/hull_a_lod0.glb", "collision": "hulls/a/hull_a_col.glb"},
  {"level": 1, "mesh": "hulls/a/hull_a_lod1.glb"}
]
~~~`,
	}

	pathEscapeIssue = &Issue{
		id:   PathEscapeId,
		slug: "path-escape",
		mdMsg: `
# Path escapes the asset root!

Manifest paths resolve against the asset root and must stay inside it.
References that climb out with ".." or point at absolute locations outside
the root are rejected, whether or not the target exists.

## Things you can try:
- Move the file under the asset root and reference it relatively
- Remove ".." segments from the path
- Check the assets_dir setting if the root itself looks wrong:
~~~
$ slipway config show
~~~`,
	}

	missingFileIssue = &Issue{
		id:   MissingFileId,
		slug: "missing-file",
		mdMsg: `
# Referenced file is missing!

A manifest path resolved inside the asset root, but nothing exists there.

## Common causes:
- The export step was skipped or wrote to a different folder
- The filename case differs from the manifest (exports are often
  case-sensitive on build machines even when your desktop is not)
- The file was renamed without updating the manifest

## Things you can try:
- Re-run your mesh export, then validate:
~~~
$ slipway validate
~~~`,
		extLinks: []HttpLink{
			"https://registry.khronos.org/glTF/",
		},
	}

	duplicateModuleIssue = &Issue{
		id:   DuplicateModuleId,
		slug: "duplicate-module",
		mdMsg: `
# Duplicate module id!

Two manifest entries declare the same "id". Module ids name directories in
the bundle (modules/<type>/<id>/), so a reused id would silently merge two
modules into one folder. The build refuses instead.

## Things you can try:
- Rename one of the entries
- For mirrored variants, suffix the side: wing_raptor_l, wing_raptor_r`,
	}

	outputMismatchIssue = &Issue{
		id:   OutputMismatchId,
		slug: "output-mismatch",
		mdMsg: `
# Output holds a foreign bundle!

The output directory already contains a compiled manifest from a different
schema generation. Overwriting it file by file could leave a mixed bundle,
so the build stops.

## Things you can try:
- Replace the old bundle deliberately:
~~~
$ slipway build --force
~~~

- Or build into a fresh directory:
~~~
$ slipway build --output-dir build/ship_art_v2
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		slug: "config-load-failed",
		mdMsg: `
# Failed to load configuration!

Could not load the slipway configuration file.

## Configuration file locations:
- Linux: ~/.config/slipway/config.cue
- macOS: ~/Library/Application Support/slipway/config.cue
- Windows: %APPDATA%\slipway\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ slipway config init
~~~

- Remove the config file to fall back to defaults

## Example configuration:
~~~cue
assets_dir: "assets/ship_modules"
output_dir: "build/ship_art"

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	projectFileInvalidIssue = &Issue{
		id:   ProjectFileInvalidId,
		slug: "project-file-invalid",
		mdMsg: `
# Invalid slipway.toml!

The project file could not be parsed, or sets a field to the wrong type.

## Example slipway.toml:
~~~toml
[project]
name = "corvette-pack"

[build]
assets_dir = "assets/ship_modules"
output_dir = "build/ship_art"
~~~`,
	}

	watchFailedIssue = &Issue{
		id:   WatchFailedId,
		slug: "watch-failed",
		mdMsg: `
# File watching failed!

The watcher could not keep monitoring your asset tree. On Linux this is
usually an inotify limit; large texture folders burn through watches fast.

## Things you can try:
- Raise the inotify limits:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~

- Narrow the watched tree by pointing assets_dir at the manifest's folder
- Fall back to plain rebuilds without --watch`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():   manifestNotFoundIssue,
		manifestInvalidIssue.Id():    manifestInvalidIssue,
		manifestVersionIssue.Id():    manifestVersionIssue,
		moduleDefinitionIssue.Id():   moduleDefinitionIssue,
		lodConfigIssue.Id():          lodConfigIssue,
		pathEscapeIssue.Id():         pathEscapeIssue,
		missingFileIssue.Id():        missingFileIssue,
		duplicateModuleIssue.Id():    duplicateModuleIssue,
		outputMismatchIssue.Id():     outputMismatchIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		projectFileInvalidIssue.Id(): projectFileInvalidIssue,
		watchFailedIssue.Id():        watchFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}

// BySlug returns the catalog entry named on the command line, or nil.
func BySlug(name string) *Issue {
	for _, i := range issues {
		if i.slug == name {
			return i
		}
	}
	return nil
}

// FromCode maps a validation issue code to its catalog entry, or nil for
// codes without a longer write-up.
func FromCode(code string) *Issue {
	switch code {
	case manifest.IssueModuleShape, manifest.IssueModuleID, manifest.IssueModuleType, manifest.IssueFieldList, manifest.IssueInvalidPath:
		return Get(ModuleDefinitionId)
	case manifest.IssueLodList, manifest.IssueLodShape, manifest.IssueLodLevel, manifest.IssueLodDuplicate:
		return Get(LodConfigId)
	case manifest.IssuePathEscape:
		return Get(PathEscapeId)
	case manifest.IssueMissingFile:
		return Get(MissingFileId)
	case manifest.IssueDuplicateID:
		return Get(DuplicateModuleId)
	default:
		return nil
	}
}

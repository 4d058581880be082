// SPDX-License-Identifier: MPL-2.0

// Package project handles the slipway.toml workspace file.
//
// A workspace pins its build paths (asset root, output directory, manifest
// location) in a slipway.toml at or above the working directory. Find walks
// up the directory tree the way version control tools locate their repository
// root, so slipway commands behave the same from any subdirectory of a
// workspace.
//
// Settings resolved from slipway.toml sit between command-line flags and the
// user configuration: flags > slipway.toml > config.cue > built-in defaults.
package project

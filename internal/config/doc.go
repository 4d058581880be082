// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/slipway/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/slipway/config.cue on macOS, %APPDATA%\slipway\config.cue
// on Windows). The package provides type-safe access to the asset root, output directory,
// manifest location, UI settings, and watch-mode behavior. Per-workspace overrides live
// in slipway.toml and are layered on top by the CLI.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config

// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for slipway.
//
// This package implements the Cobra command hierarchy for the slipway CLI:
// the root command, the build/validate/inspect pipeline commands, workspace
// scaffolding, configuration management and the issue catalog browser.
package cmd

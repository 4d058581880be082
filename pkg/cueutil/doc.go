// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE error formatting utilities.
//
// CUE reports validation failures as chains of located errors; this package
// flattens them into single user-facing messages of the form
//
//	<file-path>: <json-path>: <message>
//
// so that a bad value in config.cue reads like
//
//	config.cue: ui.color_scheme: 3 errors in empty disjunction
//
// rather than a multi-line CUE evaluation trace. It also holds the file size
// guard applied before any CUE input is compiled.
package cueutil

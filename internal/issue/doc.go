// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines error types that include remediation steps, plus a
// catalog of Markdown-formatted write-ups for the validation failures artists
// hit most, rendered by 'slipway explain'.
package issue

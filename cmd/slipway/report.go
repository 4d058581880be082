// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/slipway-dev/slipway/internal/issue"
	"github.com/slipway-dev/slipway/pkg/manifest"
)

// renderIssueList writes a numbered report of validation issues followed by a
// hint naming the catalog entries that cover them.
func renderIssueList(w io.Writer, issues []manifest.Issue) {
	fmt.Fprintf(w, "%s %d validation issue(s) found:\n\n", WarningStyle.Render("!"), len(issues))

	for i, iss := range issues {
		codeTag := issueCodeStyle.Render(fmt.Sprintf("[%s]", iss.Code))
		fmt.Fprintf(w, "  %d. %s %s\n", i+1, codeTag, iss.Message)
	}

	if slugs := catalogSlugs(issues); len(slugs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, hintStyle.Render("Run 'slipway explain <issue>' for guidance: "+strings.Join(slugs, ", ")))
	}
}

// catalogSlugs maps issue codes to their catalog entries, deduplicated in
// first-seen order. Codes without a catalog write-up are skipped.
func catalogSlugs(issues []manifest.Issue) []string {
	var (
		slugs []string
		seen  = make(map[string]bool)
	)
	for _, iss := range issues {
		entry := issue.FromCode(iss.Code)
		if entry == nil || seen[entry.Slug()] {
			continue
		}
		seen[entry.Slug()] = true
		slugs = append(slugs, entry.Slug())
	}
	return slugs
}

// renderDocumentError writes a fatal manifest failure with a catalog hint.
// Document errors abort before any module is inspected, so there is always
// exactly one of them.
func renderDocumentError(w io.Writer, err error) {
	var docErr *manifest.DocumentError
	if !errors.As(err, &docErr) {
		fmt.Fprintf(w, "%s %v\n", reportErrorIcon, err)
		return
	}

	fmt.Fprintf(w, "%s %s\n", reportErrorIcon, docErr.Message)
	if docErr.Path != "" {
		fmt.Fprintf(w, "  %s\n", reportPathStyle.Render(docErr.Path))
	}
	if slug := documentErrorSlug(err); slug != "" {
		fmt.Fprintln(w, hintStyle.Render(fmt.Sprintf("Run 'slipway explain %s' for guidance.", slug)))
	}
}

// documentErrorSlug maps a document error to its catalog entry slug, or ""
// when no entry covers it.
func documentErrorSlug(err error) string {
	switch {
	case errors.Is(err, manifest.ErrNotFound):
		return issue.Get(issue.ManifestNotFoundId).Slug()
	case errors.Is(err, manifest.ErrInvalidJSON), errors.Is(err, manifest.ErrNotAnObject):
		return issue.Get(issue.ManifestInvalidId).Slug()
	case errors.Is(err, manifest.ErrUnsupportedVersion):
		return issue.Get(issue.ManifestVersionId).Slug()
	case errors.Is(err, manifest.ErrNoModules):
		return issue.Get(issue.ModuleDefinitionId).Slug()
	default:
		return ""
	}
}

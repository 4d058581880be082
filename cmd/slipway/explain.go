// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/internal/config"
	"github.com/slipway-dev/slipway/internal/issue"
)

// newExplainCommand creates the `slipway explain` command.
func newExplainCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [issue]",
		Short: "Explain an issue from the catalog",
		Long: `Explain an issue from the catalog.

Validation and build failures name the catalog entry that covers them;
this command renders the full write-up with examples and fixes.

Without an argument, lists every catalog entry.

Examples:
  slipway explain                List all catalog entries
  slipway explain lod-config     Read up on LOD configuration failures`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return catalogSlugList(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listCatalog(cmd)
			}
			return explainEntry(cmd, app, rootFlags, args[0])
		},
	}
}

// listCatalog prints every catalog entry slug.
func listCatalog(cmd *cobra.Command) error {
	stdout := cmd.OutOrStdout()

	fmt.Fprintln(stdout, TitleStyle.Render("Issue Catalog"))
	fmt.Fprintln(stdout)
	for _, slug := range catalogSlugList() {
		fmt.Fprintf(stdout, "  %s\n", CmdStyle.Render(slug))
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, SubtitleStyle.Render("Run 'slipway explain <issue>' to read an entry."))
	return nil
}

// explainEntry renders one catalog entry as markdown, styled per the
// configured color scheme.
func explainEntry(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, name string) error {
	entry := issue.BySlug(name)
	if entry == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Unknown issue %q\n\n", reportErrorIcon, name)
		fmt.Fprintln(cmd.ErrOrStderr(), "Available entries:")
		for _, slug := range catalogSlugList() {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", slug)
		}
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: fmt.Errorf("unknown issue %q", name)}
	}

	scheme := config.ColorSchemeAuto
	if cfg, err := loadConfigWithFallback(cmd.Context(), app, rootFlags); err == nil {
		scheme = cfg.UI.ColorScheme
	}

	rendered, err := entry.Render(glamourStyle(scheme))
	if err != nil {
		return fmt.Errorf("render issue %q: %w", name, err)
	}

	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// catalogSlugList returns every catalog slug in sorted order.
func catalogSlugList() []string {
	entries := issue.Values()
	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		slugs = append(slugs, entry.Slug())
	}
	sort.Strings(slugs)
	return slugs
}

// glamourStyle maps the configured color scheme onto a glamour style name.
// The names line up, including "auto", which glamour resolves against the
// terminal background.
func glamourStyle(cs config.ColorScheme) string {
	switch cs {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

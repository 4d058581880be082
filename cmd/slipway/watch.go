// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/internal/issue"
	"github.com/slipway-dev/slipway/internal/watch"
	"github.com/slipway-dev/slipway/pkg/types"
)

// runWatchBuild sets up file watching over the asset root and re-runs the
// build on changes. It builds once immediately, then blocks until the context
// is cancelled (Ctrl+C). Build failures are reported but never stop the
// watcher; the author fixes the export and saves again.
func runWatchBuild(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, in buildInputs, flags *buildFlagValues) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	debounce, err := in.Config.Watch.Debounce.Duration()
	if err != nil {
		return fmt.Errorf("invalid watch debounce: %w", err)
	}

	// Watch the asset root, plus the manifest's directory when the manifest
	// lives outside it.
	roots := []types.FilesystemPath{types.FilesystemPath(in.AssetsDir)}
	if manifestDir := filepath.Dir(in.Manifest); !underRoot(in.AssetsDir, manifestDir) {
		roots = append(roots, types.FilesystemPath(manifestDir))
	}

	// Never watch our own output: a rebuild writing into a watched root would
	// trigger the next rebuild forever.
	var ignore []watch.GlobPattern
	for _, root := range roots {
		rel, ok := relUnderRoot(root.String(), in.OutputDir)
		if !ok {
			continue
		}
		if rel == "." {
			ignore = append(ignore, "**")
			continue
		}
		ignore = append(ignore, watch.GlobPattern(rel+"/**"))
	}

	// Re-run the build through the normal pipeline with watch disabled on the
	// child pass to prevent recursion.
	rebuild := func() error {
		childFlags := *flags
		childFlags.watch = false
		return runBuild(cmd, app, rootFlags, in, &childFlags)
	}

	fmt.Fprintf(stdout, "%s Watch mode: initial build\n", VerboseHighlightStyle.Render("→"))
	if buildErr := rebuild(); buildErr != nil {
		fmt.Fprintf(stderr, "%s Initial build failed; watching for fixes\n", WarningStyle.Render("!"))
	}

	fmt.Fprintf(stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", VerboseHighlightStyle.Render("→"))

	w, err := watch.New(watch.Config{
		Ignore:      ignore,
		Debounce:    debounce,
		ClearScreen: in.Config.Watch.ClearScreen,
		Roots:       roots,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(stdout, "%s Detected %d change(s). Rebuilding...\n",
				VerboseHighlightStyle.Render("→"), len(changed))
			if buildErr := rebuild(); buildErr != nil {
				fmt.Fprintf(stderr, "%s Build failed; watching for fixes\n", WarningStyle.Render("!"))
			}
			fmt.Fprintf(stdout, "\n%s Watching for changes...\n\n", VerboseHighlightStyle.Render("→"))
			return nil
		},
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		return watchFailed(cmd, err)
	}

	if err := w.Run(cmd.Context()); err != nil {
		return watchFailed(cmd, err)
	}
	return nil
}

// watchFailed wraps a watcher failure with its catalog hint.
func watchFailed(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s File watching failed: %v\n", reportErrorIcon, err)
	fmt.Fprintln(cmd.ErrOrStderr(), hintStyle.Render(fmt.Sprintf("Run 'slipway explain %s' for guidance.", issue.Get(issue.WatchFailedId).Slug())))
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: 1, Err: err}
}

// underRoot reports whether path sits at or below root.
func underRoot(root, path string) bool {
	_, ok := relUnderRoot(root, path)
	return ok
}

// relUnderRoot returns path relative to root in forward-slash form, and
// whether path actually sits at or below root.
func relUnderRoot(root, path string) (string, bool) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

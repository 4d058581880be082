// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/internal/config"
	"github.com/slipway-dev/slipway/internal/issue"
	"github.com/slipway-dev/slipway/pkg/types"
)

// newConfigCommand creates the `slipway config` command tree.
// Subcommands that read configuration use the App's config provider.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage slipway configuration",
		Long: `Manage slipway configuration.

Configuration is stored in:
  - Linux: ~/.config/slipway/config.cue
  - macOS: ~/Library/Application Support/slipway/config.cue
  - Windows: %APPDATA%\slipway\config.cue

Per-workspace overrides belong in slipway.toml, not here.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, rootFlags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, rootFlags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), cmd, app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{
				ConfigFilePath: types.FilesystemPath(rootFlags.configPath),
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, rootFlags *rootFlagValues) error {
	stdout := cmd.OutOrStdout()

	opts := config.LoadOptions{ConfigFilePath: types.FilesystemPath(rootFlags.configPath)}
	cfg, err := app.Config.Load(cmd.Context(), opts)
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render(glamourStyle(config.ColorSchemeAuto))
		fmt.Fprint(cmd.ErrOrStderr(), rendered)
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(stdout)

	cfgPath, found, pathErr := config.LocatePath(opts)
	if pathErr == nil && found {
		fmt.Fprintf(stdout, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "%s: %s\n", keyStyle.Render("assets_dir"), valueStyle.Render(cfg.AssetsDir.String()))
	fmt.Fprintf(stdout, "%s: %s\n", keyStyle.Render("output_dir"), valueStyle.Render(cfg.OutputDir.String()))
	if cfg.Manifest != "" {
		fmt.Fprintf(stdout, "%s: %s\n", keyStyle.Render("manifest"), valueStyle.Render(cfg.Manifest.String()))
	} else {
		fmt.Fprintf(stdout, "%s: %s\n", keyStyle.Render("manifest"), SubtitleStyle.Render("(derived from assets_dir)"))
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(stdout, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce.String()))
	fmt.Fprintf(stdout, "  clear_screen: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Watch.ClearScreen)))

	return nil
}

func initConfig(cmd *cobra.Command) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)
	return nil
}

func showConfigPath(cmd *cobra.Command, rootFlags *rootFlagValues) error {
	stdout := cmd.OutOrStdout()

	opts := config.LoadOptions{ConfigFilePath: types.FilesystemPath(rootFlags.configPath)}
	cfgPath, found, err := config.LocatePath(opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Config file: %s\n", cfgPath)
	if !found {
		fmt.Fprintln(stdout, SubtitleStyle.Render("(file does not exist yet; run 'slipway config init' to create it)"))
	}
	return nil
}

func setConfigValue(ctx context.Context, cmd *cobra.Command, app *App, key, value string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{})
	if err != nil {
		return err
	}

	if err := config.Set(cfg, key, value); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// newCompletionCommand creates the `slipway completion` command.
func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for slipway.

To enable shell completions, run one of the following commands:

` + SubtitleStyle.Render("Bash:") + `
  # Add to ~/.bashrc:
  eval "$(slipway completion bash)"

  # Or install system-wide:
  slipway completion bash > /etc/bash_completion.d/slipway

` + SubtitleStyle.Render("Zsh:") + `
  # Add to ~/.zshrc:
  eval "$(slipway completion zsh)"

  # Or install to fpath:
  slipway completion zsh > "${fpath[1]}/_slipway"

` + SubtitleStyle.Render("Fish:") + `
  slipway completion fish > ~/.config/fish/completions/slipway.fish

` + SubtitleStyle.Render("PowerShell:") + `
  slipway completion powershell | Out-String | Invoke-Expression

  # Or add to $PROFILE:
  slipway completion powershell >> $PROFILE
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

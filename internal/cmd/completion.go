package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/ui"
)

// NewCompletionCmd creates the completion command
func NewCompletionCmd(_ *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for emplace.

Bash:
  $ source <(emplace completion bash)

Zsh:
  $ emplace completion zsh > "${fpath[1]}/_emplace"

Fish:
  $ emplace completion fish > ~/.config/fish/completions/emplace.fish

PowerShell:
  PS> emplace completion powershell | Out-String | Invoke-Expression

This only completes emplace's own arguments. To hook emplace into your
shell so it notices installs, see "emplace init".
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shellName := args[0]
			out := cmd.OutOrStdout()

			var err error
			switch shellName {
			case "bash":
				err = cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				err = cmd.Root().GenZshCompletion(out)
			case "fish":
				err = cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				err = cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			if err != nil {
				ui.PrintError("Failed to generate %s completion: %v", shellName, err)
				return err
			}

			log.Debug().Str("shell", shellName).Msg("generated shell completion")
			return nil
		},
	}

	return cmd
}

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/shellinit"
	"github.com/quantmind-br/emplace/internal/ui"
)

// NewInitCmd creates the init command
func NewInitCmd(_ *config.Config, log *zerolog.Logger, deps *Deps) *cobra.Command {
	var exePath string

	cmd := &cobra.Command{
		Use:   "init <shell>",
		Short: "Print the shell hook that catches package installs",
		Long: `Print the hook for your shell. Add it to your shell's startup file:

Bash (~/.bashrc):
  eval "$(emplace init bash)"

Zsh (~/.zshrc):
  eval "$(emplace init zsh)"

Fish (~/.config/fish/config.fish):
  emplace init fish | source`,
		ValidArgs: shellinit.Supported(),
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exe := exePath
			if exe == "" {
				var err error
				exe, err = os.Executable()
				if err != nil {
					return fmt.Errorf("locate emplace executable: %w", err)
				}
			}

			script, err := shellinit.Script(args[0], exe, deps.Platform)
			if err != nil {
				ui.PrintError("%v", err)
				return err
			}

			log.Debug().Str("shell", args[0]).Str("exe", exe).Msg("generated shell hook")
			_, err = fmt.Fprint(cmd.OutOrStdout(), script)
			return err
		},
	}

	cmd.Flags().StringVar(&exePath, "exe", "", "emplace executable the hook calls (default: this executable)")

	return cmd
}

package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/emplace/internal/config"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	return NewRootCmdWithDeps(cfg, log, version, Deps{})
}

// NewRootCmdWithDeps creates the root command with explicit collaborators
func NewRootCmdWithDeps(cfg *config.Config, log *zerolog.Logger, version string, d Deps) *cobra.Command {
	deps := d.withDefaults(cfg, log)

	cmd := &cobra.Command{
		Use:   "emplace",
		Short: "Mirror the packages you install",
		Long: `emplace watches the commands you type, notices package installs and keeps
them in a git repository, so the same packages can be installed on any
other machine with "emplace install".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewInitCmd(cfg, log, deps))
	cmd.AddCommand(NewCatchCmd(cfg, log, deps))
	cmd.AddCommand(NewHistoryCmd(cfg, log, deps))
	cmd.AddCommand(NewInstallCmd(cfg, log, deps))
	cmd.AddCommand(NewCleanCmd(cfg, log, deps))
	cmd.AddCommand(NewListCmd(cfg, log, deps))
	cmd.AddCommand(NewLinkCmd(cfg, log, deps))
	cmd.AddCommand(NewLogCmd(cfg, log, deps))
	cmd.AddCommand(NewDoctorCmd(cfg, log, deps))
	cmd.AddCommand(NewCompletionCmd(cfg, log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}

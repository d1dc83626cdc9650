package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/core"
	"github.com/quantmind-br/emplace/internal/link"
	"github.com/quantmind-br/emplace/internal/ui"
)

// NewLinkCmd creates the link command
func NewLinkCmd(cfg *config.Config, log *zerolog.Logger, deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <target> <repo-path>",
		Short: "Move a file into the mirror repository and symlink it back",
		Long: `Move target into the mirror repository at repo-path, replace it with a
symlink and remember the link, so "emplace install" recreates it on other
machines. Useful for dotfiles.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			target, repoPath := args[0], args[1]

			r, err := openRepo(ctx, cfg, deps, log)
			if err != nil {
				return err
			}

			linker := link.New(deps.FS, r.Dir(), cfg, deps.Resolver, log)
			created, err := linker.Link(target, repoPath)
			if err != nil {
				ui.PrintError("failed to link %s: %v", target, err)
				return err
			}

			msg := fmt.Sprintf("Emplace - link %q", created.Destination)
			if err := r.CommitFile(ctx, created.Source, msg); err != nil {
				ui.PrintWarning("linked, but pushing the file failed: %v", err)
				return err
			}

			record(ctx, deps, log, core.Event{
				Kind:    core.EventLink,
				Summary: msg,
			})
			ui.PrintSuccess("Linked %s %s %s", created.Destination, ui.Arrow, created.Source)
			return nil
		},
	}

	return cmd
}

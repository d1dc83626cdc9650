package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/core"
	"github.com/quantmind-br/emplace/internal/ui"
)

// NewCleanCmd creates the clean command
func NewCleanCmd(cfg *config.Config, log *zerolog.Logger, deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove packages from the mirror",
		Long: `Show the mirrored packages with every package selected. Unselect the ones
to drop; they are removed from the mirror file and the change is pushed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			r, err := openRepo(ctx, cfg, deps, log)
			if err != nil {
				return err
			}
			stored, err := r.Read()
			if err != nil {
				ui.PrintError("failed to read mirror file: %v", err)
				return err
			}
			if len(stored) == 0 {
				ui.PrintInfo("No packages mirrored")
				return nil
			}

			keep, err := selectPackages(deps, "Packages to keep (unselect to remove)", stored)
			if err != nil {
				return err
			}

			removed, err := r.Clean(ctx, keep)
			if err != nil {
				ui.PrintError("failed to clean mirror: %v", err)
				return err
			}
			if len(removed) == 0 {
				ui.PrintInfo("Nothing removed")
				return nil
			}

			record(ctx, deps, log, core.Event{
				Kind:     core.EventClean,
				Summary:  removed.CommitMessage("remove"),
				Packages: removed.Names(),
			})
			ui.PrintSuccess("Removed %s", pluralPackages(len(removed)))
			return nil
		},
	}

	return cmd
}

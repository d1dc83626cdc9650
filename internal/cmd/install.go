package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/core"
	"github.com/quantmind-br/emplace/internal/installer"
	"github.com/quantmind-br/emplace/internal/link"
	"github.com/quantmind-br/emplace/internal/ui"
)

// NewInstallCmd creates the install command
func NewInstallCmd(cfg *config.Config, log *zerolog.Logger, deps *Deps) *cobra.Command {
	var (
		yes     bool
		dryRun  bool
		noLinks bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the mirrored packages missing on this machine",
		Long: `Install every mirrored package that is not installed yet and whose package
manager is available here, then recreate the configured symlinks.`,
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

			inst := installer.New(deps.Platform, deps.Checker, deps.Shell, log)

			if !noLinks && !dryRun {
				restoreLinks(cfg, deps, log, r.Dir())
			}

			pending, err := inst.Pending(ctx, stored)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				ui.PrintSuccess("Everything is installed")
				return nil
			}

			if dryRun {
				for _, p := range pending {
					fmt.Fprintln(cmd.OutOrStdout(), p.InstallCommand(deps.Platform))
				}
				return nil
			}

			chosen := pending
			if !yes {
				chosen, err = selectPackages(deps, "Packages to install", pending)
				if err != nil {
					return err
				}
				if len(chosen) == 0 {
					ui.PrintInfo("Nothing selected")
					return nil
				}
			}

			bar := ui.NewProgressBar(len(chosen), "Installing")
			results := inst.Install(ctx, chosen, bar)

			failed := installer.Failed(results)
			var installed []string
			for _, res := range results {
				if res.OK() {
					installed = append(installed, res.Package.FullName())
				}
			}
			if len(installed) > 0 {
				record(ctx, deps, log, core.Event{
					Kind:     core.EventInstall,
					Summary:  fmt.Sprintf("installed %s", pluralPackages(len(installed))),
					Packages: installed,
				})
			}

			if len(failed) > 0 {
				ui.PrintHeader("Failed installs")
				for _, res := range failed {
					reason := fmt.Sprintf("exit code %d", res.ExitCode)
					if res.Err != nil {
						reason = res.Err.Error()
					}
					ui.PrintError("%s: %s", res.Package.FullName(), reason)
					if res.Output != "" {
						ui.Muted.Println(res.Output)
					}
				}
				return withExitCode(core.ExitInstallFailed,
					fmt.Errorf("%d of %d installs failed", len(failed), len(results)))
			}

			ui.PrintSuccess("Installed %s", pluralPackages(len(installed)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "install every pending package without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the install commands and exit")
	cmd.Flags().BoolVar(&noLinks, "no-links", false, "do not recreate configured symlinks")

	return cmd
}

func restoreLinks(cfg *config.Config, deps *Deps, log *zerolog.Logger, repoDir string) {
	if len(cfg.Symlinks) == 0 {
		return
	}

	linker := link.New(deps.FS, repoDir, cfg, deps.Resolver, log)
	for _, res := range linker.Restore(cfg.Symlinks) {
		switch res.Status {
		case link.Linked:
			ui.PrintSuccess("Linked %s", res.Link.Destination)
		case link.AlreadyLinked:
			log.Debug().Str("destination", res.Link.Destination).Msg("already linked")
		case link.Failed:
			ui.PrintWarning("%s: %v", res.Link.Destination, res.Err)
		default:
			ui.PrintWarning("%s: %s", res.Link.Destination, res.Status)
		}
	}
}

package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/core"
	"github.com/quantmind-br/emplace/internal/history"
	"github.com/quantmind-br/emplace/internal/packages"
	"github.com/quantmind-br/emplace/internal/ui"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd(cfg *config.Config, log *zerolog.Logger, deps *Deps) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "history [file...]",
		Short: "Mirror the packages found in shell history files",
		Long: `Scan shell history files for package installs and mirror the ones you pick.
Bash, zsh (extended history) and fish history files are understood. Without
arguments the usual history files in your home directory are read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			files := args
			if len(files) == 0 {
				files = existingFiles(deps.FS, deps.Resolver.GetHistoryFiles())
				if len(files) == 0 {
					ui.PrintWarning("No history files found")
					return nil
				}
			}

			var lines []string
			for _, file := range files {
				fileLines, err := history.ReadFile(deps.FS, file)
				if err != nil {
					ui.PrintError("failed to read %s: %v", file, err)
					return err
				}
				log.Debug().Str("file", file).Int("lines", len(fileLines)).Msg("read history")
				lines = append(lines, fileLines...)
			}

			found := history.Packages(deps.recognizer(), lines)

			r, err := openRepo(ctx, cfg, deps, log)
			if err != nil {
				return err
			}
			existing, err := r.Read()
			if err != nil {
				ui.PrintError("failed to read mirror file: %v", err)
				return err
			}

			fresh := found.Difference(existing)
			if len(fresh) == 0 {
				ui.PrintInfo("No new packages in history")
				return nil
			}

			chosen := fresh
			if !yes {
				chosen, err = selectPackages(deps, "Packages to mirror", fresh)
				if err != nil {
					return err
				}
				if len(chosen) == 0 {
					ui.PrintInfo("Nothing selected")
					return nil
				}
			}

			if err := r.Mirror(ctx, chosen); err != nil {
				ui.PrintError("failed to mirror packages: %v", err)
				return err
			}

			record(ctx, deps, log, core.Event{
				Kind:     core.EventMirror,
				Summary:  chosen.CommitMessage("mirror"),
				Packages: chosen.Names(),
			})
			ui.PrintSuccess("Mirrored %s", pluralPackages(len(chosen)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "mirror every new package without asking")

	return cmd
}

// selectPackages lets the user pick from pkgs, all selected by default.
func selectPackages(deps *Deps, label string, pkgs packages.Set) (packages.Set, error) {
	indices, err := deps.Prompter.MultiSelect(label, pkgs.Names())
	if err != nil {
		return nil, err
	}

	chosen := make(packages.Set, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(pkgs) {
			chosen = append(chosen, pkgs[i])
		}
	}
	return chosen, nil
}

func existingFiles(fs afero.Fs, candidates []string) []string {
	var files []string
	for _, path := range candidates {
		if ok, _ := afero.Exists(fs, path); ok {
			files = append(files, path)
		}
	}
	return files
}

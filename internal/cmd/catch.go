package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/core"
	"github.com/quantmind-br/emplace/internal/packages"
	"github.com/quantmind-br/emplace/internal/shell"
	"github.com/quantmind-br/emplace/internal/ui"
)

// NewCatchCmd creates the catch command the shell hook calls after every
// successful command line.
func NewCatchCmd(cfg *config.Config, log *zerolog.Logger, deps *Deps) *cobra.Command {
	var (
		yes    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "catch <command line>",
		Short: "Mirror the packages installed by a command line",
		Long: `Look for package installs in a command line and add the new ones to the
mirror repository. Prints nothing when the line installs nothing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			line := strings.Join(args, " ")

			found := recognizeLine(deps, line)
			if len(found) == 0 {
				log.Debug().Str("line", line).Msg("no packages in line")
				return nil
			}

			if dryRun {
				for _, p := range found {
					fmt.Fprintln(cmd.OutOrStdout(), p.FullName())
				}
				return nil
			}

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
				log.Debug().Int("packages", len(found)).Msg("all packages already mirrored")
				return nil
			}

			if !yes {
				ok, err := confirmPackages(cmd.OutOrStdout(), deps, fresh, "Mirror")
				if err != nil || !ok {
					return err
				}
			}

			if err := r.Mirror(ctx, fresh); err != nil {
				ui.PrintError("failed to mirror packages: %v", err)
				return err
			}

			record(ctx, deps, log, core.Event{
				Kind:     core.EventMirror,
				Summary:  fresh.CommitMessage("mirror"),
				Packages: fresh.Names(),
			})
			ui.PrintSuccess("Mirrored %s", pluralPackages(len(fresh)))
			return nil
		},
	}

	// flags inside the caught line belong to the line
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "mirror without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the recognized packages and exit")

	return cmd
}

// recognizeLine splits line into simple commands and recognizes each one.
func recognizeLine(deps *Deps, line string) packages.Set {
	rec := deps.recognizer()
	if !rec.Detects(line) {
		return nil
	}

	var found packages.Set
	for _, part := range shell.SplitCommands(line) {
		found = append(found, rec.Recognize(part)...)
	}
	return found.Merge(nil)
}

// confirmPackages lists pkgs and asks whether to go on.
func confirmPackages(w io.Writer, deps *Deps, pkgs packages.Set, verb string) (bool, error) {
	ui.FprintHeader(w, fmt.Sprintf("emplace found %s", pluralPackages(len(pkgs))))
	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = p.ColorFullName()
	}
	ui.FprintList(w, names)
	fmt.Fprintln(w)

	return deps.Prompter.Confirm(verb + " them")
}

func pluralPackages(n int) string {
	if n == 1 {
		return "1 package"
	}
	return fmt.Sprintf("%d packages", n)
}

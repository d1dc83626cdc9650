package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/core"
	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/packages"
	"github.com/quantmind-br/emplace/internal/ui"
)

// NewListCmd creates the list command
func NewListCmd(cfg *config.Config, log *zerolog.Logger, deps *Deps) *cobra.Command {
	var (
		jsonOutput    bool
		filterManager string
		filterName    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mirrored packages",
		Long:  `List the packages stored in the mirror repository with filtering options.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var source *manager.Manager
			if filterManager != "" {
				m, err := manager.Parse(filterManager)
				if err != nil {
					ui.PrintError("%v", err)
					return withExitCode(core.ExitInvalidArgs, err)
				}
				source = &m
			}

			r, err := openRepo(ctx, cfg, deps, log)
			if err != nil {
				return err
			}
			stored, err := r.Read()
			if err != nil {
				ui.PrintError("failed to read mirror file: %v", err)
				return err
			}

			filtered := filterPackages(stored, source, filterName)

			if jsonOutput {
				if filtered == nil {
					filtered = packages.Set{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(filtered)
			}

			if len(filtered) == 0 {
				if source != nil || filterName != "" {
					ui.PrintWarning("No packages found matching filters")
				} else {
					ui.PrintInfo("No packages mirrored")
				}
				return nil
			}

			printSummary(cmd.OutOrStdout(), stored, filtered)
			printPackageTable(cmd, filtered, deps.Platform)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&filterManager, "manager", "", "filter by package manager (e.g. Apt, Cargo)")
	cmd.Flags().StringVar(&filterName, "name", "", "filter by package name (fuzzy match)")

	return cmd
}

// filterPackages keeps packages from source whose name fuzzily matches name.
func filterPackages(set packages.Set, source *manager.Manager, name string) packages.Set {
	if source != nil {
		set = set.BySource(*source)
	}
	if name == "" {
		return set
	}
	return set.Filter(func(p packages.Package) bool {
		return fuzzy.MatchNormalizedFold(name, p.Name)
	})
}

// printSummary prints the package count per manager
func printSummary(w io.Writer, all, filtered packages.Set) {
	counts := make(map[string]int)
	for _, p := range all {
		counts[p.Source.Name()]++
	}

	ui.FprintHeader(w, "Mirrored Packages")

	fmt.Fprintf(w, "Total: %d packages", len(all))
	if len(filtered) != len(all) {
		fmt.Fprintf(w, " (showing %d filtered)", len(filtered))
	}
	fmt.Fprintln(w)

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", ui.ColorizeManager(name), counts[name]))
	}
	fmt.Fprintf(w, "  %s\n\n", strings.Join(parts, " | "))
}

// printPackageTable prints one row per package
func printPackageTable(cmd *cobra.Command, set packages.Set, platform manager.Platform) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Name", "Manager", "Flags", "Install Command"}),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, p := range set {
		flags := strings.Join(p.Flags, " ")
		if flags == "" {
			flags = "-"
		}
		table.Append(
			p.Name,
			p.Source.Name(),
			flags,
			p.InstallCommand(platform),
		)
	}

	table.Render()
}

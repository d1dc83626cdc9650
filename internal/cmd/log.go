package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/core"
	"github.com/quantmind-br/emplace/internal/db"
	"github.com/quantmind-br/emplace/internal/ui"
)

// NewLogCmd creates the log command
func NewLogCmd(_ *config.Config, log *zerolog.Logger, deps *Deps) *cobra.Command {
	var (
		jsonOutput bool
		kind       string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show what emplace did on this machine",
		Long:  `Show the journal of mirrored, removed, installed and linked packages, newest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := db.Filter{Limit: limit}
			if kind != "" {
				k, err := core.ParseEventKind(kind)
				if err != nil {
					ui.PrintError("%v", err)
					return withExitCode(core.ExitInvalidArgs, err)
				}
				filter.Kind = k
			}

			journal, err := db.New(ctx, deps.Resolver.GetJournalFile())
			if err != nil {
				ui.PrintError("failed to open journal: %v", err)
				return fmt.Errorf("open journal: %w", err)
			}
			defer journal.Close()

			events, err := journal.List(ctx, filter)
			if err != nil {
				ui.PrintError("failed to read journal: %v", err)
				return err
			}
			log.Debug().Int("events", len(events)).Msg("read journal")

			if jsonOutput {
				if events == nil {
					events = []core.Event{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(events)
			}

			if len(events) == 0 {
				ui.PrintInfo("Journal is empty")
				return nil
			}

			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeader([]string{"Date", "Kind", "Summary", "Packages"}),
				tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
				tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
			)
			for _, e := range events {
				table.Append(
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					string(e.Kind),
					e.Summary,
					summarizeNames(e.Packages, 3),
				)
			}
			table.Render()
			return nil
		},
	}

	kinds := make([]string, 0, len(core.EventKinds()))
	for _, k := range core.EventKinds() {
		kinds = append(kinds, string(k))
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&kind, "kind", "", "only show one kind of event ("+strings.Join(kinds, ", ")+")")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of events to show, 0 for all")

	return cmd
}

// summarizeNames joins the first max names and counts the rest.
func summarizeNames(names []string, max int) string {
	if len(names) == 0 {
		return "-"
	}
	if len(names) <= max {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(names[:max], ", "), len(names)-max)
}

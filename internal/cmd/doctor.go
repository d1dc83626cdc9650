package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/db"
	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/migrate"
	"github.com/quantmind-br/emplace/internal/ui"
)

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger, deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check git, configuration, repository and package managers",
		Long:  `Check that emplace can do its work here. Nothing is cloned, pulled or changed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ui.PrintHeader("System Diagnostics")

			var issues []string
			var warnings []string

			// 1. git
			ui.PrintSubheader("Git")
			if err := deps.git(log).Available(); err != nil {
				ui.PrintError("git: NOT FOUND")
				issues = append(issues, "git is required to mirror packages")
			} else {
				ui.PrintSuccess("git: found")
			}

			// 2. configuration
			ui.PrintSubheader("Configuration")
			switch {
			case !cfg.Found():
				ui.PrintWarning("No configuration file at %s", cfg.Path())
				warnings = append(warnings, "not configured yet, the first catch will ask for a repository URL")
			case cfg.Repo.URL == "":
				ui.PrintError("repo.url is empty in %s", cfg.Path())
				issues = append(issues, "no repository URL configured")
			default:
				ui.PrintSuccess("Config: %s", cfg.Path())
				ui.PrintKeyValue("Repository", cfg.Repo.URL)
				ui.PrintKeyValue("Branch", cfg.Repo.Branch)
			}
			ui.PrintKeyValue("Log file", deps.Resolver.GetLogFile())

			// 3. repository
			ui.PrintSubheader("Repository")
			dir := cfg.RepoDirectory
			if !deps.git(log).IsRepo(dir) {
				ui.PrintWarning("%s is not cloned yet", dir)
				warnings = append(warnings, "repository not cloned")
			} else {
				ui.PrintSuccess("Working tree: %s", dir)
				if problem := checkMirrorFile(deps.FS, deps.Resolver.GetMirrorFile()); problem != "" {
					ui.PrintError("%s", problem)
					issues = append(issues, problem)
				}
			}

			// 4. journal
			ui.PrintSubheader("Journal")
			journalPath := deps.Resolver.GetJournalFile()
			if journal, err := db.New(ctx, journalPath); err != nil {
				ui.PrintWarning("Journal: NOT ACCESSIBLE (%v)", err)
				warnings = append(warnings, "journal not accessible, the log command will not work")
			} else {
				journal.Close()
				ui.PrintSuccess("Journal: %s", journalPath)
			}

			// 5. package managers
			ui.PrintSubheader("Package Managers")
			var available []string
			for _, m := range manager.All() {
				if deps.Checker.IsAvailable(m) {
					available = append(available, m.Name())
				}
			}
			if len(available) == 0 {
				ui.PrintWarning("No supported package manager found on PATH")
				warnings = append(warnings, "no package manager available, install will skip everything")
			} else {
				ui.PrintSuccess("Available: %s", strings.Join(available, ", "))
			}

			ui.PrintHeader("Summary")

			if len(issues) == 0 {
				ui.PrintSuccess("All critical checks passed!")
			} else {
				ui.PrintError("Found %d issue(s):", len(issues))
				ui.PrintList(issues)
				fmt.Fprintln(cmd.OutOrStdout())
			}

			if len(warnings) > 0 {
				ui.PrintWarning("Found %d warning(s):", len(warnings))
				ui.PrintList(warnings)
			}

			if len(issues) > 0 {
				return fmt.Errorf("system check failed with %d issue(s)", len(issues))
			}
			return nil
		},
	}

	return cmd
}

// checkMirrorFile returns a description of what is wrong with the mirror
// file, or "" when it is missing or readable.
func checkMirrorFile(fs afero.Fs, path string) string {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		ui.PrintInfo("Mirror file: not written yet")
		return ""
	}
	if err != nil {
		return fmt.Sprintf("cannot read mirror file: %v", err)
	}

	set, migrated, err := migrate.Decode(data)
	if err != nil {
		return fmt.Sprintf("mirror file %s is invalid: %v", path, err)
	}
	ui.PrintSuccess("Mirror file: %d packages", len(set))
	if migrated {
		ui.PrintInfo("Mirror file uses an old format and will be upgraded on the next write")
	}
	return ""
}

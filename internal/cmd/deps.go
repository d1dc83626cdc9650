package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/emplace/internal/checker"
	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/core"
	"github.com/quantmind-br/emplace/internal/db"
	"github.com/quantmind-br/emplace/internal/git"
	"github.com/quantmind-br/emplace/internal/helpers"
	"github.com/quantmind-br/emplace/internal/installer"
	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/paths"
	"github.com/quantmind-br/emplace/internal/recognizer"
	"github.com/quantmind-br/emplace/internal/repo"
	"github.com/quantmind-br/emplace/internal/security"
	"github.com/quantmind-br/emplace/internal/shell"
	"github.com/quantmind-br/emplace/internal/ui"
)

// Deps are the collaborators shared by every command. Nil fields are filled
// with the real implementations by withDefaults.
type Deps struct {
	FS       afero.Fs
	Commands helpers.CommandRunner
	Shell    shell.Runner
	Prompter ui.Prompter
	Checker  installer.Checker
	Resolver *paths.Resolver
	Platform manager.Platform

	platformSet bool
}

// WithPlatform pins the platform instead of the host one.
func (d Deps) WithPlatform(p manager.Platform) Deps {
	d.Platform = p
	d.platformSet = true
	return d
}

func (d Deps) withDefaults(cfg *config.Config, log *zerolog.Logger) *Deps {
	if d.FS == nil {
		d.FS = afero.NewOsFs()
	}
	if d.Commands == nil {
		d.Commands = helpers.NewOSCommandRunner(log)
	}
	if d.Shell == nil {
		d.Shell = shell.NewInterpreter()
	}
	if d.Prompter == nil {
		d.Prompter = ui.Terminal{}
	}
	if d.Resolver == nil {
		d.Resolver = paths.NewResolver(cfg)
	}
	if !d.platformSet {
		d.Platform = manager.HostPlatform()
		d.platformSet = true
	}
	if d.Checker == nil {
		d.Checker = checker.New(d.Platform, d.Shell, d.FS, d.Resolver, log)
	}
	return &d
}

func (d *Deps) recognizer() *recognizer.Recognizer {
	return recognizer.New(d.Platform)
}

func (d *Deps) git(log *zerolog.Logger) *git.Client {
	return git.New(d.Commands, d.FS, log)
}

// openRepo makes sure a repository URL is configured, then clones or pulls
// the mirror repository.
func openRepo(ctx context.Context, cfg *config.Config, deps *Deps, log *zerolog.Logger) (*repo.Repo, error) {
	if err := ensureConfig(ctx, cfg, deps, log); err != nil {
		return nil, err
	}

	r, err := repo.Open(ctx, cfg, deps.FS, deps.git(log), log)
	if err != nil {
		if errors.Is(err, repo.ErrNoRemote) {
			ui.PrintError("no repository configured, set repo.url in %s", cfg.Path())
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return r, nil
}

// ensureConfig asks for the repository URL on first use and writes the
// configuration file. A working tree left from an earlier setup is pointed
// at the new URL.
func ensureConfig(ctx context.Context, cfg *config.Config, deps *Deps, log *zerolog.Logger) error {
	if cfg.Found() && cfg.Repo.URL != "" {
		return nil
	}
	if cfg.Repo.URL == "" {
		ui.PrintInfo("No repository configured yet")
		url, err := deps.Prompter.Input("Repository URL", "", security.ValidateRepoURL)
		if err != nil {
			return err
		}
		cfg.Repo.URL = url

		g := deps.git(log)
		if g.IsRepo(cfg.RepoDirectory) {
			if err := g.SetRemote(ctx, cfg.RepoDirectory, url); err != nil {
				return err
			}
		}
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	ui.PrintSuccess("Configuration written to %s", cfg.Path())
	return nil
}

// record appends an event to the journal. A journal failure never fails
// the command.
func record(ctx context.Context, deps *Deps, log *zerolog.Logger, event core.Event) {
	journal, err := db.New(ctx, deps.Resolver.GetJournalFile())
	if err != nil {
		log.Warn().Err(err).Msg("could not open journal")
		return
	}
	defer journal.Close()

	if err := journal.Record(ctx, &event); err != nil {
		log.Warn().Err(err).Str("kind", string(event.Kind)).Msg("could not record event")
	}
}

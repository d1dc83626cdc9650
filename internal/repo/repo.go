// Package repo keeps the mirror file inside its git repository in sync.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/git"
	"github.com/quantmind-br/emplace/internal/migrate"
	"github.com/quantmind-br/emplace/internal/packages"
)

// ErrNoRemote is returned when the repository has to be cloned but no URL is
// configured.
var ErrNoRemote = errors.New("repository URL is not configured")

// Repo is an opened mirror repository.
type Repo struct {
	cfg *config.Config
	git *git.Client
	fs  afero.Fs
	log *zerolog.Logger
}

// Open clones the configured repository, or pulls it when a working tree
// already exists. A failed pull is logged and the local copy is used.
func Open(ctx context.Context, cfg *config.Config, fs afero.Fs, g *git.Client, log *zerolog.Logger) (*Repo, error) {
	r := &Repo{cfg: cfg, git: g, fs: fs, log: log}
	dir := cfg.RepoDirectory

	if g.IsRepo(dir) {
		log.Debug().Str("dir", dir).Msg("opening existing repository")
		if err := g.Pull(ctx, dir, cfg.Repo.Branch); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("could not pull repository, using local copy")
		}
		return r, nil
	}

	if cfg.Repo.URL == "" {
		return nil, ErrNoRemote
	}

	log.Info().Str("url", cfg.Repo.URL).Str("dir", dir).Msg("cloning repository")
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create repository directory: %w", err)
	}
	if err := g.CloneSingleBranch(ctx, dir, cfg.Repo.URL, cfg.Repo.Branch); err != nil {
		return nil, err
	}
	return r, nil
}

// Dir returns the working tree directory.
func (r *Repo) Dir() string {
	return r.cfg.RepoDirectory
}

// Read returns the stored packages. A missing mirror file is an empty set.
func (r *Repo) Read() (packages.Set, error) {
	path := r.cfg.FullFilePath()

	data, err := afero.ReadFile(r.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return packages.Set{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read mirror file: %w", err)
	}

	set, migrated, err := migrate.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if migrated {
		r.log.Info().Str("file", path).Msg("mirror file uses an old format, it will be upgraded on the next write")
	}
	return set, nil
}

// Mirror adds set to the stored packages, then commits and pushes the file.
func (r *Repo) Mirror(ctx context.Context, set packages.Set) error {
	if len(set) == 0 {
		return nil
	}
	// The message only names what is new.
	msg := set.CommitMessage("mirror")

	existing, err := r.Read()
	if err != nil {
		return err
	}

	return r.writeAndPush(ctx, existing.Merge(set), msg)
}

// Clean replaces the stored packages with keep and returns the packages that
// were dropped. Nothing is committed when nothing was dropped.
func (r *Repo) Clean(ctx context.Context, keep packages.Set) (packages.Set, error) {
	existing, err := r.Read()
	if err != nil {
		return nil, err
	}

	removed := existing.Difference(keep)
	if len(removed) == 0 {
		return nil, nil
	}

	if err := r.writeAndPush(ctx, keep.Merge(nil), removed.CommitMessage("remove")); err != nil {
		return nil, err
	}
	return removed, nil
}

// CommitFile stages rel, a path inside the repository, commits and pushes.
func (r *Repo) CommitFile(ctx context.Context, rel, msg string) error {
	if err := r.git.AddFile(ctx, r.Dir(), rel); err != nil {
		return err
	}
	if err := r.git.CommitAll(ctx, r.Dir(), msg); err != nil {
		return err
	}
	return r.git.Push(ctx, r.Dir())
}

func (r *Repo) writeAndPush(ctx context.Context, set packages.Set, msg string) error {
	data, err := migrate.Encode(set)
	if err != nil {
		return err
	}

	path := r.cfg.FullFilePath()
	if err := r.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create mirror directory: %w", err)
	}
	if err := afero.WriteFile(r.fs, path, data, 0644); err != nil {
		return fmt.Errorf("write mirror file: %w", err)
	}

	r.log.Info().Str("message", msg).Msg("committing")
	return r.CommitFile(ctx, r.cfg.Repo.File, msg)
}

// Package link moves files into the mirror repository and links them back.
package link

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/emplace/internal/config"
	"github.com/quantmind-br/emplace/internal/fsops"
	"github.com/quantmind-br/emplace/internal/paths"
	"github.com/quantmind-br/emplace/internal/security"
	"github.com/quantmind-br/emplace/internal/transaction"
)

// Store persists the configured symlinks; *config.Config satisfies it.
type Store interface {
	AddSymlink(s config.Symlink)
	RemoveSymlink(destination string)
	Save() error
}

// Status is the outcome of restoring one link.
type Status int

const (
	Linked Status = iota
	AlreadyLinked
	Conflict
	MissingSource
	Failed
)

func (s Status) String() string {
	switch s {
	case Linked:
		return "linked"
	case AlreadyLinked:
		return "already linked"
	case Conflict:
		return "destination exists"
	case MissingSource:
		return "missing in repository"
	default:
		return "failed"
	}
}

// RestoreResult describes what Restore did with one configured link.
type RestoreResult struct {
	Link   config.Symlink
	Status Status
	Err    error
}

// Linker converts files to links into the repository.
type Linker struct {
	fs       afero.Fs
	repoDir  string
	store    Store
	resolver *paths.Resolver
	log      *zerolog.Logger
}

// New creates a linker for the repository at repoDir.
func New(fs afero.Fs, repoDir string, store Store, resolver *paths.Resolver, log *zerolog.Logger) *Linker {
	return &Linker{fs: fs, repoDir: repoDir, store: store, resolver: resolver, log: log}
}

// Link moves target to repoPath inside the repository and puts a symlink to
// it in target's place. The link is recorded in the configuration. Any
// failure undoes the steps already taken.
func (l *Linker) Link(target, repoPath string) (config.Symlink, error) {
	target, err := filepath.Abs(l.resolver.ExpandHome(target))
	if err != nil {
		return config.Symlink{}, fmt.Errorf("resolve target: %w", err)
	}
	if !fsops.IsRegularFile(l.fs, target) {
		return config.Symlink{}, fmt.Errorf("target file %q does not exist or is not a regular file", target)
	}

	if err := security.ValidateRepoPath(l.repoDir, repoPath); err != nil {
		return config.Symlink{}, err
	}
	stored := filepath.Join(l.repoDir, repoPath)
	if fsops.Exists(l.fs, stored) {
		return config.Symlink{}, fmt.Errorf("file %q already exists in the repository", repoPath)
	}

	link := config.Symlink{
		Source:      filepath.ToSlash(filepath.Clean(repoPath)),
		Destination: l.resolver.CollapseHome(target),
	}

	tx := transaction.NewManager(l.log)
	if err := l.link(tx, link, target, stored); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return config.Symlink{}, errors.Join(err, rbErr)
		}
		return config.Symlink{}, err
	}
	tx.Commit()

	l.log.Info().Str("target", target).Str("source", link.Source).Msg("linked file into repository")
	return link, nil
}

func (l *Linker) link(tx *transaction.Manager, link config.Symlink, target, stored string) error {
	err := tx.Do("record link",
		func() error {
			l.store.AddSymlink(link)
			return l.store.Save()
		},
		func() error {
			l.store.RemoveSymlink(link.Destination)
			return l.store.Save()
		})
	if err != nil {
		// AddSymlink may have happened even when saving failed.
		l.store.RemoveSymlink(link.Destination)
		return err
	}

	err = tx.Do("copy into repository",
		func() error { return fsops.CopyFile(l.fs, target, stored) },
		func() error { return l.fs.Remove(stored) })
	if err != nil {
		return err
	}

	err = tx.Do("remove original",
		func() error { return l.fs.Remove(target) },
		func() error { return fsops.CopyFile(l.fs, stored, target) })
	if err != nil {
		return err
	}

	return tx.Do("create symlink",
		func() error { return fsops.Symlink(l.fs, stored, target) },
		nil)
}

// Restore creates the configured links that are missing on this machine.
// Existing files are never overwritten.
func (l *Linker) Restore(links []config.Symlink) []RestoreResult {
	results := make([]RestoreResult, 0, len(links))
	for _, link := range links {
		status, err := l.restore(link)
		if err != nil {
			l.log.Warn().Err(err).Str("destination", link.Destination).Msg("could not restore link")
		}
		results = append(results, RestoreResult{Link: link, Status: status, Err: err})
	}
	return results
}

func (l *Linker) restore(link config.Symlink) (Status, error) {
	if err := security.ValidateRepoPath(l.repoDir, link.Source); err != nil {
		return Failed, err
	}
	source := filepath.Join(l.repoDir, filepath.FromSlash(link.Source))
	destination := l.resolver.ExpandHome(link.Destination)

	if !fsops.Exists(l.fs, source) {
		return MissingSource, nil
	}
	if fsops.LinksTo(l.fs, destination, source) {
		return AlreadyLinked, nil
	}
	if fsops.Exists(l.fs, destination) {
		return Conflict, nil
	}

	if err := fsops.EnsureDir(l.fs, filepath.Dir(destination), 0755); err != nil {
		return Failed, err
	}
	if err := fsops.Symlink(l.fs, source, destination); err != nil {
		return Failed, err
	}
	return Linked, nil
}

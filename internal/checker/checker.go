// Package checker answers whether a package is installed and whether its
// package manager is available on this machine.
package checker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/packages"
	"github.com/quantmind-br/emplace/internal/paths"
	"github.com/quantmind-br/emplace/internal/security"
	"github.com/quantmind-br/emplace/internal/shell"
)

// Checker runs installed checks and availability lookups.
type Checker struct {
	platform   manager.Platform
	runner     shell.Runner
	fs         afero.Fs
	resolver   *paths.Resolver
	log        *zerolog.Logger
	searchPath string
	executable func(fs afero.Fs, path string) bool
}

// New creates a Checker. The search path defaults to $PATH.
func New(platform manager.Platform, runner shell.Runner, fs afero.Fs, resolver *paths.Resolver, log *zerolog.Logger) *Checker {
	return &Checker{
		platform:   platform,
		runner:     runner,
		fs:         fs,
		resolver:   resolver,
		log:        log,
		searchPath: os.Getenv("PATH"),
		executable: isExecutable,
	}
}

// SetSearchPath overrides the directories searched by IsAvailable.
func (c *Checker) SetSearchPath(path string) {
	c.searchPath = path
}

// IsInstalled reports whether p is already installed.
func (c *Checker) IsInstalled(ctx context.Context, p packages.Package) (bool, error) {
	check := p.Source.InstalledCheck(c.platform)

	switch check.Kind {
	case manager.InstalledAlways:
		return true, nil

	case manager.InstalledPath:
		if err := security.ValidatePackageToken(p.Name); err != nil {
			return false, fmt.Errorf("check %s: %w", p.Name, err)
		}
		target := c.resolver.ExpandHome(check.Resolve(p.Name))
		_, err := c.fs.Stat(filepath.FromSlash(target))
		return err == nil, nil

	case manager.InstalledScript:
		if err := security.ValidatePackageToken(p.Name); err != nil {
			return false, fmt.Errorf("check %s: %w", p.Name, err)
		}
		quoted, err := shell.Quote(p.Name)
		if err != nil {
			return false, fmt.Errorf("check %s: %w", p.Name, err)
		}
		script := check.Resolve(quoted)

		code, err := c.runner.Run(ctx, script, shell.Stdio{})
		if err != nil {
			return false, fmt.Errorf("could not check whether %s is installed: %w", p.Name, err)
		}
		c.log.Debug().
			Str("package", p.FullCommand()).
			Str("manager", p.Source.Name()).
			Int("exit_code", code).
			Msg("installed check")
		return code == 0, nil

	default:
		return false, fmt.Errorf("check %s: no installed check for %s", p.Name, p.Source)
	}
}

// IsAvailable reports whether any command of m is an executable file in one
// of the search path directories.
func (c *Checker) IsAvailable(m manager.Manager) bool {
	for _, dir := range filepath.SplitList(c.searchPath) {
		if dir == "" {
			continue
		}
		for _, command := range m.Commands(c.platform) {
			if c.executable(c.fs, filepath.Join(dir, command)) {
				return true
			}
		}
	}
	return false
}

// Available returns every manager available on this machine, in order.
func (c *Checker) Available() []manager.Manager {
	var out []manager.Manager
	for _, m := range manager.All() {
		if c.IsAvailable(m) {
			out = append(out, m)
		}
	}
	return out
}

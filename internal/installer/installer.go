// Package installer installs mirrored packages that are missing on this
// machine.
package installer

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/packages"
	"github.com/quantmind-br/emplace/internal/security"
	"github.com/quantmind-br/emplace/internal/shell"
)

// Checker answers whether packages can be and already are installed.
type Checker interface {
	IsAvailable(m manager.Manager) bool
	IsInstalled(ctx context.Context, p packages.Package) (bool, error)
}

// Tracker reports progress across packages; ui.ProgressBar satisfies it.
type Tracker interface {
	Describe(description string)
	Add(n int) error
	Finish() error
}

// Result is the outcome of installing one package.
type Result struct {
	Package  packages.Package
	Command  string
	ExitCode int
	Output   string
	Err      error
}

// OK reports whether the install command succeeded.
func (r Result) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Installer runs install commands through a shell runner.
type Installer struct {
	platform manager.Platform
	checker  Checker
	runner   shell.Runner
	log      *zerolog.Logger
}

// New creates an installer.
func New(platform manager.Platform, checker Checker, runner shell.Runner, log *zerolog.Logger) *Installer {
	return &Installer{platform: platform, checker: checker, runner: runner, log: log}
}

// Pending returns the packages of set whose manager is available here and
// which are not installed yet. Packages whose check fails are skipped.
func (i *Installer) Pending(ctx context.Context, set packages.Set) (packages.Set, error) {
	var pending packages.Set
	available := make(map[manager.Manager]bool)

	for _, p := range set {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, seen := available[p.Source]
		if !seen {
			ok = i.checker.IsAvailable(p.Source)
			available[p.Source] = ok
			if !ok {
				i.log.Debug().Str("manager", p.Source.Name()).Msg("package manager not available, skipping its packages")
			}
		}
		if !ok {
			continue
		}

		installed, err := i.checker.IsInstalled(ctx, p)
		if err != nil {
			i.log.Warn().Err(err).Str("package", p.FullName()).Msg("could not check whether package is installed")
			continue
		}
		if !installed {
			pending = append(pending, p)
		}
	}

	return pending, nil
}

// Install runs the install command of every package in order. Output is
// captured per package. A cancelled context stops before the next package.
func (i *Installer) Install(ctx context.Context, pkgs packages.Set, tracker Tracker) []Result {
	results := make([]Result, 0, len(pkgs))

	for _, p := range pkgs {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Package: p, Err: err, ExitCode: -1})
			continue
		}

		if tracker != nil {
			tracker.Describe(fmt.Sprintf("Installing %s", p.FullCommand()))
		}

		results = append(results, i.installOne(ctx, p))

		if tracker != nil {
			_ = tracker.Add(1)
		}
	}

	if tracker != nil {
		_ = tracker.Finish()
	}
	return results
}

func (i *Installer) installOne(ctx context.Context, p packages.Package) Result {
	command := p.InstallCommand(i.platform)
	if err := validate(p, command); err != nil {
		return Result{Package: p, Command: command, ExitCode: -1, Err: err}
	}
	var out bytes.Buffer

	i.log.Info().Str("package", p.FullName()).Str("command", command).Msg("installing package")
	code, err := i.runner.Run(ctx, command, shell.Stdio{Out: &out, Err: &out})

	result := Result{
		Package:  p,
		Command:  command,
		ExitCode: code,
		Output:   strings.TrimSpace(out.String()),
		Err:      err,
	}
	if !result.OK() {
		i.log.Error().Err(err).Int("exit_code", code).Str("package", p.FullName()).Msg("installation failed")
	}
	return result
}

// validate rejects packages whose install command would do more than run
// the package manager. Flag values keep the quoting they were typed with.
func validate(p packages.Package, command string) error {
	if err := security.ValidatePackageToken(p.Name); err != nil {
		return fmt.Errorf("refusing to install %s: %w", p.FullCommand(), err)
	}
	if err := shell.ValidateSimpleCommand(command); err != nil {
		return fmt.Errorf("refusing to install %s: %w", p.FullCommand(), err)
	}
	return nil
}

// Failed returns the results that did not succeed.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

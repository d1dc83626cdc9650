// Package git drives the git executable for the mirror repository.
package git

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/emplace/internal/helpers"
	"github.com/quantmind-br/emplace/internal/security"
)

const gitCmd = "git"

// Client runs git sub-commands inside a working directory.
type Client struct {
	runner helpers.CommandRunner
	fs     afero.Fs
	log    *zerolog.Logger
}

// New creates a git client.
func New(runner helpers.CommandRunner, fs afero.Fs, log *zerolog.Logger) *Client {
	return &Client{runner: runner, fs: fs, log: log}
}

// Available reports an error when git cannot be found on PATH.
func (c *Client) Available() error {
	return c.runner.RequireCommand(gitCmd)
}

// IsRepo reports whether dir holds a git working tree.
func (c *Client) IsRepo(dir string) bool {
	exists, err := afero.Exists(c.fs, filepath.Join(dir, ".git"))
	return err == nil && exists
}

// CloneSingleBranch clones only branch of url into dir, which must exist.
func (c *Client) CloneSingleBranch(ctx context.Context, dir, url, branch string) error {
	if err := security.ValidateRepoURL(url); err != nil {
		return err
	}
	if err := validateBranch(branch); err != nil {
		return err
	}

	if err := c.run(ctx, dir, "clone", "--single-branch", "--branch", branch, url, "."); err != nil {
		c.log.Error().
			Str("dir", dir).
			Msgf("cloning failed, run manually: git clone --single-branch --branch %s %s %s", branch, url, dir)
		return fmt.Errorf("clone %s: %w", url, err)
	}
	return nil
}

// Pull fetches branch from origin and merges it, preferring the remote side
// on conflicts.
func (c *Client) Pull(ctx context.Context, dir, branch string) error {
	if err := validateBranch(branch); err != nil {
		return err
	}

	if err := c.run(ctx, dir, "fetch", "--no-tags", "--no-recurse-submodules", "origin", branch); err != nil {
		return fmt.Errorf("pull: fetch: %w", err)
	}
	if err := c.run(ctx, dir, "merge", "--strategy-option", "theirs", "origin/"+branch); err != nil {
		return fmt.Errorf("pull: merge: %w", err)
	}
	return nil
}

// AddFile stages file, relative to dir.
func (c *Client) AddFile(ctx context.Context, dir, file string) error {
	if err := c.run(ctx, dir, "add", "--", file); err != nil {
		return fmt.Errorf("add %s: %w", file, err)
	}
	return nil
}

// CommitAll commits every tracked change with msg.
func (c *Client) CommitAll(ctx context.Context, dir, msg string) error {
	if err := c.run(ctx, dir, "commit", "-am", msg); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Push pushes the current branch to its upstream.
func (c *Client) Push(ctx context.Context, dir string) error {
	if err := c.run(ctx, dir, "push"); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}

// SetRemote points origin at url.
func (c *Client) SetRemote(ctx context.Context, dir, url string) error {
	if err := security.ValidateRepoURL(url); err != nil {
		return err
	}
	if err := c.run(ctx, dir, "remote", "set-url", "origin", url); err != nil {
		return fmt.Errorf("set remote: %w", err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, dir string, args ...string) error {
	c.log.Debug().Str("dir", dir).Strs("args", args).Msg("git")
	_, err := c.runner.RunCommandInDir(ctx, dir, gitCmd, args...)
	return err
}

func validateBranch(branch string) error {
	if branch == "" {
		return fmt.Errorf("branch cannot be empty")
	}
	if err := security.ValidateCommandArg(branch); err != nil {
		return fmt.Errorf("invalid branch: %w", err)
	}
	return nil
}

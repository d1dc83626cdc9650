package helpers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// CommandRunner defines an interface for executing system commands
// This allows for mocking in tests and dependency injection
type CommandRunner interface {
	// CommandExists checks if a command is available in PATH
	CommandExists(name string) bool

	// RequireCommand ensures a command exists or returns error
	RequireCommand(name string) error

	// RunCommand executes a command and returns stdout
	RunCommand(ctx context.Context, name string, args ...string) (string, error)

	// RunCommandInDir executes a command in a specific working directory
	RunCommandInDir(ctx context.Context, dir, name string, args ...string) (string, error)

	// RunCommandInDirStreaming executes a command in a specific directory with streaming output
	RunCommandInDirStreaming(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error

	// GetExitCode extracts the exit code from a command error
	GetExitCode(err error) int
}

// OSCommandRunner is the default implementation using os/exec
type OSCommandRunner struct {
	log          *zerolog.Logger
	commandCache sync.Map // map[string]bool
}

// NewOSCommandRunner creates a new OSCommandRunner instance
func NewOSCommandRunner(log *zerolog.Logger) *OSCommandRunner {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &OSCommandRunner{log: log}
}

// CommandExists checks if a command is available in PATH
func (r *OSCommandRunner) CommandExists(name string) bool {
	if cached, ok := r.commandCache.Load(name); ok {
		if exists, ok := cached.(bool); ok {
			return exists
		}
		r.commandCache.Delete(name)
	}

	_, err := exec.LookPath(name)
	exists := err == nil
	r.commandCache.Store(name, exists)
	return exists
}

// RequireCommand ensures a command exists or returns error
func (r *OSCommandRunner) RequireCommand(name string) error {
	if !r.CommandExists(name) {
		return fmt.Errorf("required command %q not found in PATH", name)
	}
	return nil
}

// RunCommand executes a command and returns stdout
// SECURITY: Uses exec.CommandContext with separate arguments to prevent command injection
func (r *OSCommandRunner) RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	return r.RunCommandInDir(ctx, "", name, args...)
}

// RunCommandInDir executes a command in a specific working directory
// SECURITY: Uses exec.CommandContext with separate arguments to prevent command injection
func (r *OSCommandRunner) RunCommandInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logCall(dir, name, args)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %q failed: %w\nstderr: %s", name, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// RunCommandInDirStreaming executes a command in a specific directory with streaming output
// Pass nil for stdout/stderr to discard output
// SECURITY: Uses exec.CommandContext with separate arguments to prevent command injection
func (r *OSCommandRunner) RunCommandInDirStreaming(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	if stdout != nil {
		cmd.Stdout = stdout
	}
	if stderr != nil {
		cmd.Stderr = stderr
	}

	r.logCall(dir, name, args)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %q failed in dir %q: %w", name, dir, err)
	}

	return nil
}

// GetExitCode extracts the exit code from a command error
func (r *OSCommandRunner) GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}

func (r *OSCommandRunner) logCall(dir, name string, args []string) {
	r.log.Debug().
		Str("dir", dir).
		Str("command", strings.Join(append([]string{name}, args...), " ")).
		Msg("running command")
}

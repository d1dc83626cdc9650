package helpers

import (
	"context"
	"io"
	"strings"
	"sync"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing
type MockCommandRunner struct {
	CommandExistsFunc            func(name string) bool
	RequireCommandFunc           func(name string) error
	RunCommandFunc               func(ctx context.Context, name string, args ...string) (string, error)
	RunCommandInDirFunc          func(ctx context.Context, dir, name string, args ...string) (string, error)
	RunCommandInDirStreamingFunc func(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error
	GetExitCodeFunc              func(err error) int

	mu    sync.Mutex
	calls []string
}

// Calls returns every command run through the mock as "name arg...", in order.
func (m *MockCommandRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockCommandRunner) record(name string, args []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, strings.Join(append([]string{name}, args...), " "))
}

// CommandExists implements CommandRunner.CommandExists
func (m *MockCommandRunner) CommandExists(name string) bool {
	if m.CommandExistsFunc != nil {
		return m.CommandExistsFunc(name)
	}
	return false
}

// RequireCommand implements CommandRunner.RequireCommand
func (m *MockCommandRunner) RequireCommand(name string) error {
	if m.RequireCommandFunc != nil {
		return m.RequireCommandFunc(name)
	}
	return nil
}

// RunCommand implements CommandRunner.RunCommand
func (m *MockCommandRunner) RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	m.record(name, args)
	if m.RunCommandFunc != nil {
		return m.RunCommandFunc(ctx, name, args...)
	}
	return "", nil
}

// RunCommandInDir implements CommandRunner.RunCommandInDir
func (m *MockCommandRunner) RunCommandInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	m.record(name, args)
	if m.RunCommandInDirFunc != nil {
		return m.RunCommandInDirFunc(ctx, dir, name, args...)
	}
	return "", nil
}

// RunCommandInDirStreaming implements CommandRunner.RunCommandInDirStreaming
func (m *MockCommandRunner) RunCommandInDirStreaming(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	m.record(name, args)
	if m.RunCommandInDirStreamingFunc != nil {
		return m.RunCommandInDirStreamingFunc(ctx, dir, stdout, stderr, name, args...)
	}
	return nil
}

// GetExitCode implements CommandRunner.GetExitCode
func (m *MockCommandRunner) GetExitCode(err error) int {
	if m.GetExitCodeFunc != nil {
		return m.GetExitCodeFunc(err)
	}
	if err != nil {
		return 1
	}
	return 0
}

package cmd

import (
	"context"
	"errors"

	"github.com/quantmind-br/emplace/internal/core"
	"github.com/quantmind-br/emplace/internal/ui"
)

// exitError carries a specific process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return core.ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ui.ErrCancelled) {
		return core.ExitInterrupted
	}
	return core.ExitGeneral
}

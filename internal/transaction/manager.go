package transaction

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// RollbackFunc is a function that reverses an operation
type RollbackFunc func() error

type step struct {
	name string
	undo RollbackFunc
}

// Manager manages a stack of rollback operations
type Manager struct {
	steps  []step
	mu     sync.Mutex
	logger *zerolog.Logger
}

// NewManager creates a new transaction manager
func NewManager(logger *zerolog.Logger) *Manager {
	return &Manager{logger: logger}
}

// Add adds a rollback function to the stack
func (m *Manager) Add(name string, fn RollbackFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step{name: name, undo: fn})
}

// Do runs op and, when it succeeds, registers undo under name. A failing op
// registers nothing.
func (m *Manager) Do(name string, op func() error, undo RollbackFunc) error {
	if m.logger != nil {
		m.logger.Debug().Str("operation", name).Msg("running")
	}
	if err := op(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if undo != nil {
		m.Add(name, undo)
	}
	return nil
}

// Rollback executes all registered rollback functions in reverse order (LIFO)
func (m *Manager) Rollback() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.steps) == 0 {
		return nil
	}

	if m.logger != nil {
		m.logger.Info().Msg("Rolling back transaction...")
	}

	var errs []error
	for i := len(m.steps) - 1; i >= 0; i-- {
		op := m.steps[i]
		if m.logger != nil {
			m.logger.Debug().Str("operation", op.name).Msg("rolling back")
		}

		if err := op.undo(); err != nil {
			errs = append(errs, fmt.Errorf("failed to rollback '%s': %w", op.name, err))
			if m.logger != nil {
				m.logger.Error().Err(err).Str("operation", op.name).Msg("rollback failed")
			}
		}
	}

	m.steps = nil

	if len(errs) > 0 {
		return fmt.Errorf("rollback completed with errors: %w", errors.Join(errs...))
	}
	return nil
}

// Commit clears the rollback stack, confirming the transaction
func (m *Manager) Commit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = nil
}

package transaction

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	logger := zerolog.Nop()
	return NewManager(&logger)
}

// registered returns the number of rollback steps waiting to run.
func registered(m *Manager) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.steps)
}

func TestAddAndCommit(t *testing.T) {
	manager := newTestManager()
	assert.Equal(t, 0, registered(manager))

	manager.Add("copy file", func() error { return nil })
	assert.Equal(t, 1, registered(manager))

	manager.Commit()
	assert.Equal(t, 0, registered(manager))
}

func TestRollbackOrder(t *testing.T) {
	manager := newTestManager()

	var executionOrder []string
	for _, name := range []string{"op1", "op2", "op3"} {
		manager.Add(name, func() error {
			executionOrder = append(executionOrder, name)
			return nil
		})
	}

	require.NoError(t, manager.Rollback())
	assert.Equal(t, []string{"op3", "op2", "op1"}, executionOrder)
	assert.Equal(t, 0, registered(manager))
}

func TestRollbackEmpty(t *testing.T) {
	manager := NewManager(nil)
	assert.NoError(t, manager.Rollback())
}

func TestRollbackWithErrors(t *testing.T) {
	manager := newTestManager()

	err1 := errors.New("error 1")
	err2 := errors.New("error 2")
	ran := false
	manager.Add("op1", func() error { return err1 })
	manager.Add("op2", func() error { ran = true; return nil })
	manager.Add("op3", func() error { return err2 })

	err := manager.Rollback()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollback completed with errors")
	assert.Contains(t, err.Error(), "'op1'")
	assert.ErrorIs(t, err, err1)
	assert.ErrorIs(t, err, err2)
	assert.True(t, ran, "a failing rollback does not stop the others")
	assert.Equal(t, 0, registered(manager))
}

func TestDo(t *testing.T) {
	manager := newTestManager()

	var undone []string
	require.NoError(t, manager.Do("first", func() error { return nil }, func() error {
		undone = append(undone, "first")
		return nil
	}))
	require.NoError(t, manager.Do("no undo", func() error { return nil }, nil))

	opErr := errors.New("disk full")
	err := manager.Do("second", func() error { return opErr }, func() error {
		undone = append(undone, "second")
		return nil
	})
	require.ErrorIs(t, err, opErr)
	assert.Equal(t, "second: disk full", err.Error())
	assert.Equal(t, 1, registered(manager), "failed operations register no rollback")

	require.NoError(t, manager.Rollback())
	assert.Equal(t, []string{"first"}, undone)
}

func TestConcurrentAdd(t *testing.T) {
	manager := newTestManager()

	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				manager.Add(fmt.Sprintf("op-%d-%d", g, i), func() error { return nil })
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 200, registered(manager))
	require.NoError(t, manager.Rollback())
	assert.Equal(t, 0, registered(manager))
}

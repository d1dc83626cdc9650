package shell

import (
	"context"
	"sync"
)

// MockRunner is a mock implementation of Runner for testing
type MockRunner struct {
	RunFunc func(ctx context.Context, script string, stdio Stdio) (int, error)

	mu      sync.Mutex
	scripts []string
}

// Run implements Runner.Run
func (m *MockRunner) Run(ctx context.Context, script string, stdio Stdio) (int, error) {
	m.mu.Lock()
	m.scripts = append(m.scripts, script)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, script, stdio)
	}
	return 0, nil
}

// Scripts returns every script passed to Run, in call order.
func (m *MockRunner) Scripts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.scripts...)
}

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantmind-br/emplace/internal/core"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("EMPLACE_CONFIG", filepath.Join(dir, "emplace.toml"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
}

func TestRun(t *testing.T) {
	isolate(t)

	assert.Equal(t, core.ExitSuccess, run([]string{"version"}))
	assert.Equal(t, core.ExitSuccess, run([]string{"catch", "--dry-run", "ls -la"}))
	assert.Equal(t, core.ExitGeneral, run([]string{"no-such-command"}))
}

func TestIsHook(t *testing.T) {
	assert.True(t, isHook([]string{"catch", "apt install x"}))
	assert.False(t, isHook([]string{"list"}))
	assert.False(t, isHook(nil))
}

package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/emplace/internal/core"
	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/packages"
	"github.com/quantmind-br/emplace/internal/shell"
)

func installEnv(t *testing.T) *testEnv {
	t.Helper()

	e := newTestEnv(t)
	e.writeMirror(packages.Set{
		pkg(manager.Apt, "curl"),
		pkg(manager.Cargo, "ripgrep"),
		pkg(manager.Apt, "vim"),
		pkg(manager.Brew, "wget"),
	})
	e.checker.available[manager.Apt] = true
	e.checker.available[manager.Cargo] = true
	e.checker.installed["vim"] = true
	return e
}

func TestInstall_Yes(t *testing.T) {
	t.Parallel()

	e := installEnv(t)

	_, err := e.run("install", "--yes")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"sudo apt-get install -y curl",
		"cargo install --quiet ripgrep",
	}, e.shell.Scripts())
	assert.Empty(t, e.gitCalls("commit"), "installing never changes the mirror")
}

func TestInstall_Selection(t *testing.T) {
	t.Parallel()

	e := installEnv(t)
	e.prompter.pick = func([]string) []int { return []int{1} }

	_, err := e.run("install")
	require.NoError(t, err)

	require.Len(t, e.prompter.selects, 1)
	assert.Equal(t, []string{"curl (Advanced Package Tool)", "ripgrep (Cargo Rust)"}, e.prompter.selects[0])
	assert.Equal(t, []string{"cargo install --quiet ripgrep"}, e.shell.Scripts())
}

func TestInstall_DryRun(t *testing.T) {
	t.Parallel()

	e := installEnv(t)

	out, err := e.run("install", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "sudo apt-get install -y curl\ncargo install --quiet ripgrep\n", out)
	assert.Empty(t, e.shell.Scripts())
}

func TestInstall_NothingPending(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	e.writeMirror(packages.Set{pkg(manager.Brew, "wget")})

	_, err := e.run("install", "--yes")
	require.NoError(t, err)
	assert.Empty(t, e.shell.Scripts())
}

func TestInstall_Failure(t *testing.T) {
	t.Parallel()

	e := installEnv(t)
	e.shell.RunFunc = func(_ context.Context, script string, _ shell.Stdio) (int, error) {
		if script == "cargo install --quiet ripgrep" {
			return 101, nil
		}
		return 0, nil
	}

	_, err := e.run("install", "--yes")
	require.Error(t, err)
	assert.Equal(t, core.ExitInstallFailed, ExitCode(err))

	out, err := e.run("log", "--json", "--kind", "install")
	require.NoError(t, err)
	assert.Contains(t, out, "curl (Advanced Package Tool)")
	assert.NotContains(t, out, "ripgrep")
}

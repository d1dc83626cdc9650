package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/packages"
)

const zshHistory = `: 1700000000:0;sudo apt install curl
: 1700000010:0;ls
: 1700000020:0;cargo install ripgrep && npm i -g typescript
: 1700000030:0;sudo apt install vim
`

func TestHistory_File(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	e.writeMirror(packages.Set{pkg(manager.Apt, "vim")})
	require.NoError(t, afero.WriteFile(e.fs, "/tmp/zsh_history", []byte(zshHistory), 0600))

	_, err := e.run("history", "/tmp/zsh_history")
	require.NoError(t, err)

	require.Len(t, e.prompter.selects, 1)
	assert.Equal(t, []string{
		"curl (Advanced Package Tool)",
		"ripgrep (Cargo Rust)",
		"typescript (Node Package Manager)",
	}, e.prompter.selects[0], "only packages not mirrored yet are offered")

	assert.Len(t, e.readMirror(), 4)
	assert.Equal(t, []string{"git commit -am Emplace - mirror 3 packages"}, e.gitCalls("commit"))
}

func TestHistory_PartialSelection(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	e.prompter.pick = func([]string) []int { return []int{1} }
	require.NoError(t, afero.WriteFile(e.fs, "/tmp/zsh_history", []byte(zshHistory), 0600))

	_, err := e.run("history", "/tmp/zsh_history")
	require.NoError(t, err)

	assert.Equal(t, packages.Set{pkg(manager.Cargo, "ripgrep")}, e.readMirror())
}

func TestHistory_NothingSelected(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)
	e.prompter.pick = func([]string) []int { return nil }
	require.NoError(t, afero.WriteFile(e.fs, "/tmp/zsh_history", []byte(zshHistory), 0600))

	_, err := e.run("history", "/tmp/zsh_history")
	require.NoError(t, err)
	assert.Empty(t, e.gitCalls("commit"))
}

func TestHistory_DefaultFiles(t *testing.T) {
	t.Setenv("HISTFILE", "")
	t.Setenv("XDG_DATA_HOME", "")

	e := newTestEnv(t)
	bash := filepath.Join(e.dir, ".bash_history")
	require.NoError(t, afero.WriteFile(e.fs, bash, []byte("#1700000000\nsudo apt install htop\n"), 0600))

	_, err := e.run("history", "--yes")
	require.NoError(t, err)
	assert.Empty(t, e.prompter.selects)
	assert.Equal(t, packages.Set{pkg(manager.Apt, "htop")}, e.readMirror())
}

func TestHistory_MissingFile(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t)

	_, err := e.run("history", "/nope")
	assert.Error(t, err)
}

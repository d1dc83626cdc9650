package shellinit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/shell"
)

func TestScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell    string
		contains []string
	}{
		{
			shell: "bash",
			contains: []string{
				"PROMPT_COMMAND=\"emplace_postexec_invoke_exec;$PROMPT_COMMAND\"",
				`[[ $hist == *"apt"* ]] || [[ $hist == *"apt-get"* ]]`,
				`[[ $hist == *"zypper"* ]] || return`,
				`/usr/local/bin/emplace catch "$hist"`,
			},
		},
		{
			shell: "zsh",
			contains: []string{
				"precmd_functions+=(emplace_precmd)",
				"hist=$(fc -ln -1)",
				`[[ $hist == *"npm"* ]]`,
				`/usr/local/bin/emplace catch "$hist"`,
			},
		},
		{
			shell: "fish",
			contains: []string{
				"--on-event fish_postexec",
				"for word in apt apt-get brew cargo",
				`/usr/local/bin/emplace catch "$hist"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			script, err := Script(tt.shell, "/usr/local/bin/emplace", manager.PlatformUnix)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, script, want)
			}
			assert.NotContains(t, script, "{{")
		})
	}
}

func TestScript_ValidShellSyntax(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"bash", "zsh"} {
		script, err := Script(name, "/opt/my tools/emplace", manager.PlatformUnix)
		require.NoError(t, err)
		assert.NoError(t, shell.Validate(script), name)
		assert.Contains(t, script, `'/opt/my tools/emplace' catch`)
	}
}

func TestScript_EveryCommandChecked(t *testing.T) {
	t.Parallel()

	script, err := Script("bash", "emplace", manager.PlatformUnix)
	require.NoError(t, err)

	for _, m := range manager.All() {
		for _, c := range m.Commands(manager.PlatformUnix) {
			assert.Contains(t, script, `*"`+c+`"*`, m.Name())
		}
	}
}

func TestScript_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := Script("tcsh", "emplace", manager.PlatformUnix)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "bash, fish, zsh"))
}

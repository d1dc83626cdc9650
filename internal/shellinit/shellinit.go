// Package shellinit renders the hook scripts that feed executed commands to
// emplace catch.
package shellinit

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/recognizer"
	"github.com/quantmind-br/emplace/internal/shell"
)

const (
	placeholderExe    = "{{EMPLACE}}"
	placeholderChecks = "{{CHECKS}}"
)

const bashInit = `
emplace_postexec_invoke_exec() {
    # skip failed commands
    [ $? -eq 0 ] || return

    local hist
    hist=$(HISTTIMEFORMAT= history 1 | sed -e 's/^[ ]*[0-9]*[ ]*//')
    # cheap substring check before starting emplace
    {{CHECKS}} || return

    {{EMPLACE}} catch "$hist"
}
if [[ $PROMPT_COMMAND != *emplace_postexec_invoke_exec* ]]; then
    PROMPT_COMMAND="emplace_postexec_invoke_exec;$PROMPT_COMMAND"
fi
`

const zshInit = `
emplace_precmd() {
    # skip failed commands
    [ $? -eq 0 ] || return

    local hist
    hist=$(fc -ln -1)
    # cheap substring check before starting emplace
    {{CHECKS}} || return

    {{EMPLACE}} catch "$hist"
}
if [[ -z "${EMPLACE_PRECMD_HOOKED-}" ]]; then
    EMPLACE_PRECMD_HOOKED=1
    precmd_functions+=(emplace_precmd)
fi
`

const fishInit = `
function emplace_postexec --on-event fish_postexec
    test $status -eq 0; or return

    set -l hist $argv[1]
    set -l found 0
    for word in {{CHECKS}}
        if string match -q -- "*$word*" $hist
            set found 1
            break
        end
    end
    test $found -eq 1; or return

    {{EMPLACE}} catch "$hist"
end
`

type dialect struct {
	template string
	checks   func(commands []string) string
	validate bool
}

var dialects = map[string]dialect{
	"bash": {template: bashInit, checks: bracketChecks, validate: true},
	"zsh":  {template: zshInit, checks: bracketChecks, validate: true},
	"fish": {template: fishInit, checks: wordList},
}

// Supported returns the shells a hook can be generated for.
func Supported() []string {
	return []string{"bash", "fish", "zsh"}
}

// Script renders the hook for shellName. exePath is the emplace executable
// the hook calls.
func Script(shellName, exePath string, platform manager.Platform) (string, error) {
	d, ok := dialects[shellName]
	if !ok {
		return "", fmt.Errorf("shell %q is not supported, use one of %s", shellName, strings.Join(Supported(), ", "))
	}

	exe, err := shell.Quote(exePath)
	if err != nil {
		return "", fmt.Errorf("quote executable path: %w", err)
	}

	commands := recognizer.New(platform).Commands()
	script := strings.NewReplacer(
		placeholderChecks, d.checks(commands),
		placeholderExe, exe,
	).Replace(d.template)

	if d.validate {
		if err := shell.Validate(script); err != nil {
			return "", fmt.Errorf("generated %s hook is invalid: %w", shellName, err)
		}
	}
	return script, nil
}

func bracketChecks(commands []string) string {
	checks := make([]string, len(commands))
	for i, c := range commands {
		checks[i] = fmt.Sprintf(`[[ $hist == *"%s"* ]]`, c)
	}
	return strings.Join(checks, " || ")
}

func wordList(commands []string) string {
	return strings.Join(commands, " ")
}

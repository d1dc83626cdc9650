// Package shell runs and inspects POSIX shell snippets in-process.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Stdio are the streams a script is connected to. Nil streams are discarded.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Runner executes shell scripts.
type Runner interface {
	// Run executes script and returns its exit status. A non-zero status is
	// not an error; err is set only when the script could not run.
	Run(ctx context.Context, script string, stdio Stdio) (int, error)
}

// Interpreter runs scripts with the mvdan.cc/sh interpreter, so installed
// checks and install commands behave the same with or without /bin/sh.
type Interpreter struct {
	// Env defaults to the process environment.
	Env []string
	// Dir defaults to the current directory.
	Dir string
}

// NewInterpreter returns an interpreter using the process environment.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Run implements Runner.
func (i *Interpreter) Run(ctx context.Context, script string, stdio Stdio) (int, error) {
	prog, err := parse(script)
	if err != nil {
		return -1, err
	}

	env := i.Env
	if env == nil {
		env = os.Environ()
	}

	opts := []interp.RunnerOption{
		interp.StdIO(stdio.In, orDiscard(stdio.Out), orDiscard(stdio.Err)),
		interp.Env(expand.ListEnviron(env...)),
	}
	if i.Dir != "" {
		opts = append(opts, interp.Dir(i.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return -1, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return int(status), nil
		}
		return -1, fmt.Errorf("failed to run script: %w", err)
	}
	return 0, nil
}

// Validate reports whether script parses as bash.
func Validate(script string) error {
	_, err := parse(script)
	return err
}

// ValidateSimpleCommand accepts script only if it is one plain command:
// words made of literals, single-quoted or double-quoted text, with no
// parameter or command expansion, assignments, redirects or separators.
func ValidateSimpleCommand(script string) error {
	prog, err := parse(script)
	if err != nil {
		return err
	}
	if len(prog.Stmts) != 1 {
		return fmt.Errorf("expected a single command, found %d", len(prog.Stmts))
	}

	stmt := prog.Stmts[0]
	if stmt.Negated || stmt.Background || stmt.Coprocess || len(stmt.Redirs) > 0 {
		return errors.New("command must not redirect or run in the background")
	}
	call, ok := stmt.Cmd.(*syntax.CallExpr)
	if !ok || len(call.Args) == 0 {
		return errors.New("expected a simple command")
	}
	if len(call.Assigns) > 0 {
		return errors.New("command must not assign variables")
	}

	for _, word := range call.Args {
		for _, part := range word.Parts {
			if err := checkPlainPart(part); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkPlainPart(part syntax.WordPart) error {
	switch p := part.(type) {
	case *syntax.Lit:
		if strings.ContainsAny(p.Value, expandChars) || strings.HasPrefix(p.Value, "~") {
			return fmt.Errorf("unquoted word %q would be expanded", p.Value)
		}
		return nil
	case *syntax.SglQuoted:
		if p.Dollar {
			return errors.New("ANSI-C quoting is not allowed")
		}
		return nil
	case *syntax.DblQuoted:
		if p.Dollar {
			return errors.New("locale quoting is not allowed")
		}
		for _, inner := range p.Parts {
			if _, ok := inner.(*syntax.Lit); !ok {
				return errors.New("double-quoted text must not expand")
			}
		}
		return nil
	default:
		return fmt.Errorf("word part %T is not allowed", part)
	}
}

// Quote renders s as a single shell word.
func Quote(s string) (string, error) {
	return syntax.Quote(s, syntax.LangBash)
}

// SplitCommands returns the simple commands of line, printed back as shell
// text, in source order. A line that does not parse is returned unchanged as
// the only element.
func SplitCommands(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	prog, err := parse(line)
	if err != nil {
		return []string{line}
	}

	printer := syntax.NewPrinter(syntax.Minify(false))
	var commands []string
	syntax.Walk(prog, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok || len(call.Args) == 0 {
			return true
		}
		var buf bytes.Buffer
		if err := printer.Print(&buf, call); err != nil {
			return true
		}
		commands = append(commands, strings.TrimSpace(buf.String()))
		return true
	})

	if len(commands) == 0 {
		return []string{line}
	}
	return commands
}

// expandChars are expanded by the interpreter in unquoted words. Brackets
// stay allowed for pip extras such as requests[socks].
const expandChars = "*?{"

func parse(script string) (*syntax.File, error) {
	prog, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(strings.NewReader(script), "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return prog, nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

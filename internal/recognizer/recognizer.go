// Package recognizer finds package installations in shell command lines.
package recognizer

import (
	"slices"
	"strings"
	"unicode"

	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/packages"
)

// grammar is the per-manager data the recognizer needs, resolved once for a
// platform.
type grammar struct {
	manager     manager.Manager
	commands    []string
	subCommands [][]string
	knownFlags  []string
	captures    []manager.CaptureFlag
	invalidates []string
}

// Recognizer classifies command lines. It is immutable after New and safe for
// concurrent use.
type Recognizer struct {
	grammars []grammar
}

// New builds a recognizer for the given platform.
func New(platform manager.Platform) *Recognizer {
	r := &Recognizer{}
	for _, m := range manager.All() {
		g := grammar{
			manager:     m,
			commands:    m.Commands(platform),
			knownFlags:  m.KnownFlagsWithValues(),
			captures:    m.CaptureFlags(),
			invalidates: m.InvalidatingFlags(),
		}
		for _, sub := range m.SubCommands() {
			g.subCommands = append(g.subCommands, strings.Fields(sub))
		}
		r.grammars = append(r.grammars, g)
	}
	return r
}

// Commands returns every command word the recognizer reacts to, in manager
// order and without duplicates.
func (r *Recognizer) Commands() []string {
	var out []string
	for _, g := range r.grammars {
		for _, c := range g.commands {
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Detects reports whether any manager command appears as a whole word in
// line. It is cheap enough to run on every command a shell executes.
func (r *Recognizer) Detects(line string) bool {
	tokens := strings.Fields(line)
	for _, g := range r.grammars {
		if g.mentionedIn(tokens) {
			return true
		}
	}
	return false
}

// Candidates returns the managers whose command appears as a whole word in line.
func (r *Recognizer) Candidates(line string) []manager.Manager {
	tokens := strings.Fields(line)
	var out []manager.Manager
	for _, g := range r.grammars {
		if g.mentionedIn(tokens) {
			out = append(out, g.manager)
		}
	}
	return out
}

// Extract returns the packages installed through m by line.
func (r *Recognizer) Extract(m manager.Manager, line string) []packages.Package {
	if !m.Valid() {
		return nil
	}
	return r.grammars[m].extract(strings.Fields(line))
}

// Recognize runs Extract for every candidate manager and concatenates the
// results in manager order.
func (r *Recognizer) Recognize(line string) packages.Set {
	tokens := strings.Fields(line)
	var out packages.Set
	for _, g := range r.grammars {
		if !g.mentionedIn(tokens) {
			continue
		}
		out = append(out, g.extract(tokens)...)
	}
	return out
}

func (g grammar) mentionedIn(tokens []string) bool {
	for _, command := range g.commands {
		if slices.Contains(tokens, command) {
			return true
		}
	}
	return false
}

// extract walks every command word of the manager. Each one contributes the
// packages after its first whole-word occurrence.
func (g grammar) extract(tokens []string) []packages.Package {
	var out []packages.Package
	for _, command := range g.commands {
		// The command must be followed by something to be an invocation.
		i := slices.Index(tokens, command)
		if i < 0 || i == len(tokens)-1 {
			continue
		}
		out = append(out, g.extractArgs(tokens[i+1:])...)
	}
	return out
}

func (g grammar) extractArgs(rest []string) []packages.Package {
	args, ok := g.stripSubCommand(rest)
	if !ok {
		return nil
	}

	var (
		names    []string
		captured []string
	)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case isFlag(arg):
			if slices.Contains(g.invalidates, arg) {
				return nil
			}
			if capture, ok := g.captureFor(arg); ok {
				flag, consumed, matched := applyCapture(capture, args[i+1:])
				if matched {
					captured = append(captured, flag)
					i += consumed
					continue
				}
			}
			if slices.Contains(g.knownFlags, arg) {
				i++
			}
		case startsAlphanumeric(arg):
			names = append(names, arg)
		}
	}

	out := make([]packages.Package, 0, len(names))
	for _, name := range names {
		out = append(out, packages.New(g.manager, name, captured))
	}
	return out
}

// stripSubCommand removes the first occurrence of the first declared
// sub-command found in rest. Later occurrences stay, they may be package names.
func (g grammar) stripSubCommand(rest []string) ([]string, bool) {
	for _, sub := range g.subCommands {
		if i := indexSequence(rest, sub); i >= 0 {
			args := make([]string, 0, len(rest)-len(sub))
			args = append(args, rest[:i]...)
			args = append(args, rest[i+len(sub):]...)
			return args, true
		}
	}
	return nil, false
}

func (g grammar) captureFor(arg string) (manager.CaptureFlag, bool) {
	for _, c := range g.captures {
		if c.Flag() == arg {
			return c, true
		}
	}
	return manager.CaptureFlag{}, false
}

// applyCapture returns the rendered flag and how many following tokens it
// consumed. A fixed value that does not match is neither captured nor
// consumed; the token is then read as an ordinary argument.
func applyCapture(c manager.CaptureFlag, following []string) (string, int, bool) {
	switch c.Kind() {
	case manager.CaptureSingle:
		return c.Flag(), 0, true
	case manager.CaptureFixedValue:
		if len(following) > 0 && following[0] == c.Value() {
			return c.Flag() + " " + c.Value(), 1, true
		}
	case manager.CaptureDynamicValue:
		if len(following) > 0 {
			return c.Flag() + " " + following[0], 1, true
		}
	}
	return "", 0, false
}

func indexSequence(tokens, seq []string) int {
	if len(seq) == 0 {
		return -1
	}
	for i := 0; i+len(seq) <= len(tokens); i++ {
		if slices.Equal(tokens[i:i+len(seq)], seq) {
			return i
		}
	}
	return -1
}

func isFlag(token string) bool {
	return strings.HasPrefix(token, "-") || strings.HasPrefix(token, "+")
}

func startsAlphanumeric(token string) bool {
	for _, r := range token {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return false
}

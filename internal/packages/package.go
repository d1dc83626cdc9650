// Package packages holds the values produced by the recognizer and the set
// operations used before packages are mirrored.
package packages

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/quantmind-br/emplace/internal/manager"
)

var (
	nameColor   = color.New(color.FgYellow)
	flagColor   = color.New(color.FgHiBlack)
	sourceColor = color.New(color.FgCyan, color.Italic)
)

// Package is one installable package together with the flags that change how
// it has to be installed.
type Package struct {
	Source manager.Manager `json:"source"`
	Name   string          `json:"name"`
	Flags  []string        `json:"flags,omitempty"`
}

// New creates a package, copying flags so packages from the same line do not
// share a backing array.
func New(source manager.Manager, name string, flags []string) Package {
	return Package{Source: source, Name: name, Flags: slices.Clone(flags)}
}

// FullCommand renders the captured flags followed by the name. It is the key
// used for ordering and deduplication.
func (p Package) FullCommand() string {
	if len(p.Flags) == 0 {
		return p.Name
	}
	return strings.Join(p.Flags, " ") + " " + p.Name
}

// FullName renders the full command with the manager label.
func (p Package) FullName() string {
	return fmt.Sprintf("%s (%s)", p.FullCommand(), p.Source.FullName())
}

// ColorFullName is FullName for terminals.
func (p Package) ColorFullName() string {
	var b strings.Builder
	for _, flag := range p.Flags {
		b.WriteString(flagColor.Sprint(flag))
		b.WriteByte(' ')
	}
	b.WriteString(nameColor.Sprint(p.Name))
	b.WriteByte(' ')
	b.WriteString(sourceColor.Sprintf("(%s)", p.Source.FullName()))
	return b.String()
}

func (p Package) String() string {
	return p.FullName()
}

// Equal reports whether both packages have the same source and full command.
func (p Package) Equal(other Package) bool {
	return p.Source == other.Source && p.FullCommand() == other.FullCommand()
}

// Compare orders by full command, then by source.
func (p Package) Compare(other Package) int {
	if c := strings.Compare(p.FullCommand(), other.FullCommand()); c != 0 {
		return c
	}
	return cmp.Compare(p.Source, other.Source)
}

// InstallCommand is the shell command that installs the package on platform.
// Managers needing root are prefixed with sudo outside Windows.
func (p Package) InstallCommand(platform manager.Platform) string {
	parts := make([]string, 0, len(p.Flags)+3)
	if p.Source.NeedsRoot() && platform != manager.PlatformWindows {
		parts = append(parts, "sudo")
	}
	parts = append(parts, p.Source.InstallCommand(platform))
	parts = append(parts, p.Flags...)
	parts = append(parts, p.Name)
	return strings.Join(parts, " ")
}

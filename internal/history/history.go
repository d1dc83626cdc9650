// Package history extracts command lines from shell history files.
package history

import (
	"fmt"
	"io"
	"iter"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/emplace/internal/packages"
	"github.com/quantmind-br/emplace/internal/recognizer"
	"github.com/quantmind-br/emplace/internal/shell"
)

// Format is a history file layout.
type Format int

const (
	FormatBash Format = iota
	FormatZsh
	FormatFish
)

func (f Format) String() string {
	switch f {
	case FormatZsh:
		return "zsh"
	case FormatFish:
		return "fish"
	default:
		return "bash"
	}
}

var (
	// zsh EXTENDED_HISTORY: ": <start>:<elapsed>;<command>"
	zshEntryRegex = regexp.MustCompile(`^: *\d+:\d+;`)
	// bash HISTTIMEFORMAT comment lines: "#<epoch>"
	bashTimestampRegex = regexp.MustCompile(`^#\d+$`)
)

const fishCmdPrefix = "- cmd:"

type fishEntry struct {
	Cmd string `yaml:"cmd"`
}

// Detect guesses the format of a history file from its content.
func Detect(data []byte) Format {
	for line := range splitLines(data) {
		switch {
		case strings.HasPrefix(line, fishCmdPrefix):
			return FormatFish
		case zshEntryRegex.MatchString(line):
			return FormatZsh
		}
	}
	return FormatBash
}

// Lines returns the distinct commands of a history file, whitespace
// normalised and sorted.
func Lines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var raw []string
	switch Detect(data) {
	case FormatFish:
		raw = fishLines(data)
	case FormatZsh:
		raw = prefixedLines(data, func(line string) (string, bool) {
			if loc := zshEntryRegex.FindStringIndex(line); loc != nil {
				return line[loc[1]:], true
			}
			return line, true
		})
	default:
		raw = prefixedLines(data, func(line string) (string, bool) {
			return line, !bashTimestampRegex.MatchString(line)
		})
	}

	return normalize(raw), nil
}

// ReadFile reads the history file at path.
func ReadFile(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	return Lines(f)
}

// Packages recognizes the packages installed by lines. Each line is split
// into its simple commands first so chained installs are attributed to the
// right manager.
func Packages(rec *recognizer.Recognizer, lines []string) packages.Set {
	var found packages.Set
	for _, line := range lines {
		if !rec.Detects(line) {
			continue
		}
		for _, cmd := range shell.SplitCommands(line) {
			found = append(found, rec.Recognize(cmd)...)
		}
	}
	return found.Merge(nil)
}

func fishLines(data []byte) []string {
	var entries []fishEntry
	if err := yaml.Unmarshal(data, &entries); err == nil {
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, e.Cmd)
		}
		return lines
	}

	// fish does not always write valid YAML; fall back to the cmd lines.
	return prefixedLines(data, func(line string) (string, bool) {
		cmd, ok := strings.CutPrefix(line, fishCmdPrefix)
		return cmd, ok
	})
}

func prefixedLines(data []byte, extract func(string) (string, bool)) []string {
	var out []string
	for line := range splitLines(data) {
		if cmd, ok := extract(line); ok {
			out = append(out, cmd)
		}
	}
	return out
}

// splitLines yields the lines of data without their terminators. Lines have no
// length limit.
func splitLines(data []byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.Lines(string(data)) {
			if !yield(strings.TrimRight(line, "\r\n")) {
				return
			}
		}
	}
}

func normalize(raw []string) []string {
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	slices.Sort(lines)
	return slices.Compact(lines)
}

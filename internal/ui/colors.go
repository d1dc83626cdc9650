package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Color scheme for emplace
var (
	// Primary actions
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow)
	Info    = color.New(color.FgCyan)

	// Secondary actions
	Highlight = color.New(color.FgHiCyan, color.Bold)
	Muted     = color.New(color.Faint)
	Bold      = color.New(color.Bold)

	// Status indicators
	CheckMark = color.GreenString("✓")
	CrossMark = color.RedString("✗")
	Arrow     = color.CyanString("→")
	Bullet    = color.HiBlackString("•")

	// Manager names in listings
	ManagerName = color.New(color.FgMagenta)
)

// InitColors initializes color settings based on environment
func InitColors() {
	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	// Respect TERM environment variable
	if os.Getenv("TERM") == "dumb" {
		color.NoColor = true
	}
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Fprintf(os.Stdout, "%s %s\n", CheckMark, fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "%s Error: %s\n", CrossMark, fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Fprintf(os.Stderr, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Fprintf(os.Stdout, "%s %s\n", Arrow, fmt.Sprintf(format, args...))
}

// PrintKeyValue prints a key-value pair with color
func PrintKeyValue(key, value string) {
	Bold.Fprintf(os.Stdout, "%s: ", key)
	fmt.Fprintln(os.Stdout, value)
}

// PrintHeader prints a section header
func PrintHeader(text string) {
	FprintHeader(os.Stdout, text)
}

// FprintHeader prints a section header to w
func FprintHeader(w io.Writer, text string) {
	fmt.Fprintln(w)
	Bold.Fprintln(w, text)
	Muted.Fprintln(w, "────────────────────────────────────────")
}

// PrintSubheader prints a subsection header
func PrintSubheader(text string) {
	fmt.Fprintln(os.Stdout)
	Highlight.Fprintln(os.Stdout, text)
}

// ColorizeManager returns a colored manager name
func ColorizeManager(name string) string {
	return ManagerName.Sprint(name)
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	FprintList(os.Stdout, items)
}

// FprintList prints a bulleted list to w
func FprintList(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", Bullet, item)
	}
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}

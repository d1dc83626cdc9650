package manager

import (
	"runtime"
	"slices"
	"strings"
)

// Platform selects the OS-specific variant of a descriptor.
type Platform int

const (
	PlatformUnix Platform = iota
	PlatformWindows
)

// HostPlatform returns the platform emplace is running on.
func HostPlatform() Platform {
	if runtime.GOOS == "windows" {
		return PlatformWindows
	}
	return PlatformUnix
}

func (p Platform) String() string {
	if p == PlatformWindows {
		return "windows"
	}
	return "unix"
}

// windowsSuffixes are appended to every command word on Windows.
var windowsSuffixes = []string{".exe", ".cmd"}

// CaptureKind tells how a capture flag treats the token following it.
type CaptureKind int

const (
	// CaptureSingle flags take no value.
	CaptureSingle CaptureKind = iota
	// CaptureFixedValue flags are captured only when followed by one expected value.
	CaptureFixedValue
	// CaptureDynamicValue flags always capture the following token.
	CaptureDynamicValue
)

// CaptureFlag is a flag that is stored together with the package because it
// changes how the package has to be reinstalled.
type CaptureFlag struct {
	kind  CaptureKind
	flag  string
	value string
}

// Single captures a valueless flag verbatim.
func Single(flag string) CaptureFlag {
	return CaptureFlag{kind: CaptureSingle, flag: flag}
}

// FixedValue captures "flag value" only when the next token equals value.
func FixedValue(flag, value string) CaptureFlag {
	return CaptureFlag{kind: CaptureFixedValue, flag: flag, value: value}
}

// DynamicValue captures "flag <next token>" whatever the next token is.
func DynamicValue(flag string) CaptureFlag {
	return CaptureFlag{kind: CaptureDynamicValue, flag: flag}
}

func (c CaptureFlag) Kind() CaptureKind { return c.kind }
func (c CaptureFlag) Flag() string      { return c.flag }

// Value is the expected value of a FixedValue flag; empty otherwise.
func (c CaptureFlag) Value() string { return c.value }

// InstalledKind is the mechanism used to test whether a package is installed.
type InstalledKind int

const (
	// InstalledScript runs a shell script; exit code zero means installed.
	InstalledScript InstalledKind = iota + 1
	// InstalledPath checks that a file or directory exists.
	InstalledPath
	// InstalledAlways treats every package as installed.
	InstalledAlways
)

// namePlaceholder is replaced by the package name in check templates.
const namePlaceholder = "{name}"

// InstalledCheck describes how to test whether a package is installed.
type InstalledCheck struct {
	Kind     InstalledKind
	Template string
}

// Script checks installation by running template with {name} substituted.
func Script(template string) InstalledCheck {
	return InstalledCheck{Kind: InstalledScript, Template: template}
}

// PathExists checks installation by the existence of a path; {name} is substituted.
func PathExists(template string) InstalledCheck {
	return InstalledCheck{Kind: InstalledPath, Template: template}
}

// Always is used by managers whose packages cannot be checked at all.
func Always() InstalledCheck {
	return InstalledCheck{Kind: InstalledAlways}
}

// IsZero reports whether no check was declared.
func (c InstalledCheck) IsZero() bool {
	return c.Kind == 0
}

// Resolve returns the template with the package name filled in.
func (c InstalledCheck) Resolve(name string) string {
	return strings.ReplaceAll(c.Template, namePlaceholder, name)
}

// descriptor is the static grammar of one package manager. Windows fields
// override their portable counterpart only when set.
type descriptor struct {
	name                  string
	fullName              string
	commands              []string
	subCommands           []string
	installCommand        string
	windowsInstallCommand string
	needsRoot             bool
	installed             InstalledCheck
	windowsInstalled      InstalledCheck
	knownFlagsWithValues  []string
	captureFlags          []CaptureFlag
	invalidatingFlags     []string
}

// FullName is a human readable label.
func (m Manager) FullName() string {
	return descriptors[m].fullName
}

// Commands returns the invocation words for the platform. On Windows every
// word also gets its executable suffix variants.
func (m Manager) Commands(p Platform) []string {
	base := descriptors[m].commands
	if p != PlatformWindows {
		return slices.Clone(base)
	}

	commands := make([]string, 0, len(base)*(len(windowsSuffixes)+1))
	for _, command := range base {
		commands = append(commands, command)
		for _, suffix := range windowsSuffixes {
			commands = append(commands, command+suffix)
		}
	}
	return commands
}

// SubCommands returns the words marking an install action. Multi-word
// sub-commands such as "component add" are single entries.
func (m Manager) SubCommands() []string {
	return slices.Clone(descriptors[m].subCommands)
}

// InstallCommand is the command prefix used to reinstall a package.
func (m Manager) InstallCommand(p Platform) string {
	d := descriptors[m]
	if p == PlatformWindows && d.windowsInstallCommand != "" {
		return d.windowsInstallCommand
	}
	return d.installCommand
}

// NeedsRoot reports whether installing requires privilege escalation.
func (m Manager) NeedsRoot() bool {
	return descriptors[m].needsRoot
}

// InstalledCheck returns how to check the package on the platform.
func (m Manager) InstalledCheck(p Platform) InstalledCheck {
	d := descriptors[m]
	if p == PlatformWindows && !d.windowsInstalled.IsZero() {
		return d.windowsInstalled
	}
	return d.installed
}

// KnownFlagsWithValues lists flags whose next token is a value, not a package.
func (m Manager) KnownFlagsWithValues() []string {
	return slices.Clone(descriptors[m].knownFlagsWithValues)
}

// CaptureFlags lists flags kept alongside the package, in matching order.
func (m Manager) CaptureFlags() []CaptureFlag {
	return slices.Clone(descriptors[m].captureFlags)
}

// InvalidatingFlags lists flags that mean the line is not a package install.
func (m Manager) InvalidatingFlags() []string {
	return slices.Clone(descriptors[m].invalidatingFlags)
}

package manager

// pacmanFlagsWithValues is the list from https://archlinux.org/pacman/pacman.8.html.
// Descriptors copy it instead of sharing the slice.
func pacmanFlagsWithValues() []string {
	return []string{
		"-b", "--dbpath",
		"-r", "--root",
		"--arch",
		"--cachedir",
		"--color",
		"--config",
		"--gpgdir",
		"--hookdir",
		"--logfile",
		"--sysroot",
		"--assume-installed",
		"--print-format",
		"--ignore",
		"--ignoregroup",
		"--overwrite",
		"-o", "--owns",
		"-s", "--search",
		"--asdeps",
		"--asexplicit",
	}
}

// goInstalledCheck builds the Go installed check for a GOPATH list
// separator and executable suffix.
func goInstalledCheck(listSep, exeSuffix string) string {
	return `p={name}; p=${p%%@*}; b=${p##*/}; ` +
		`case $b in v[0-9]*) p=${p%/*}; b=${p##*/} ;; esac; ` +
		`d=$(go env GOBIN); if [ -z "$d" ]; then d=$(go env GOPATH); d=${d%%"` + listSep + `"*}/bin; fi; ` +
		`[ -x "$d/$b` + exeSuffix + `" ]`
}

var descriptors = [managerCount]descriptor{
	Apt: {
		name:           "Apt",
		fullName:       "Advanced Package Tool",
		commands:       []string{"apt", "apt-get"},
		subCommands:    []string{"install"},
		installCommand: "apt-get install -y",
		needsRoot:      true,
		installed:      Script("dpkg -s {name}"),
		knownFlagsWithValues: []string{
			"-c", "--config-file",
			"-o", "--option",
		},
		captureFlags: []CaptureFlag{
			FixedValue("-t", "experimental"),
		},
	},
	Brew: {
		name:                 "Brew",
		fullName:             "Homebrew",
		commands:             []string{"brew"},
		subCommands:          []string{"install"},
		installCommand:       "brew install",
		installed:            Script("brew list {name}"),
		knownFlagsWithValues: []string{"--env", "--cc"},
		captureFlags: []CaptureFlag{
			Single("--cask"),
			Single("--devel"),
			Single("--HEAD"),
			Single("--fetch-HEAD"),
		},
	},
	Cargo: {
		name:             "Cargo",
		fullName:         "Cargo Rust",
		commands:         []string{"cargo"},
		subCommands:      []string{"install"},
		installCommand:   "cargo install --quiet",
		installed:        Script("cargo install --list | grep 'v[0-9]' | grep -q {name}"),
		windowsInstalled: Script("cargo install --list | findstr {name}"),
		knownFlagsWithValues: []string{
			"-Z",
			"--version",
			"-j", "--jobs",
			"--root",
			"--registry",
			"--index",
			"--target",
			"--target-dir",
			"--profile",
		},
		captureFlags: []CaptureFlag{
			Single("--git"),
			DynamicValue("--branch"),
			Single("+nightly"),
			Single("+stable"),
			Single("+beta"),
			Single("--no-default-features"),
			DynamicValue("--features"),
		},
		invalidatingFlags: []string{"--path"},
	},
	CargoBinstall: {
		name:             "CargoBinstall",
		fullName:         "Cargo B(inary)Install",
		commands:         []string{"cargo"},
		subCommands:      []string{"binstall"},
		installCommand:   "cargo binstall --no-confirm",
		installed:        Script("cargo install --list | grep 'v[0-9]' | grep -q {name}"),
		windowsInstalled: Script("cargo install --list | findstr {name}"),
		knownFlagsWithValues: []string{
			"--log-level",
			"--github-token",
			"--root-certificates",
			"--min-tls-version",
			"--registry",
			"--index",
			"--root",
			"--install-path",
			"--disable-strategies",
			"--strategies",
			"--rate-limit",
			"--pkg-url",
			"--pkg-fmt",
			"--bin-dir",
			"--manifest-path",
		},
		captureFlags: []CaptureFlag{
			Single("--git"),
			DynamicValue("--version"),
			DynamicValue("--targets"),
		},
	},
	Chocolatey: {
		name:           "Chocolatey",
		fullName:       "Chocolatey",
		commands:       []string{"choco"},
		subCommands:    []string{"install"},
		installCommand: "choco install -y",
		needsRoot:      true,
		installed:      Script(`choco feature enable --name="'useEnhancedExitCodes'" && choco search -le --no-color {name}`),
		knownFlagsWithValues: []string{
			"-s", "--source",
			"--version",
			"--params",
		},
	},
	Dnf: {
		name:           "Dnf",
		fullName:       "Dandified YUM",
		commands:       []string{"dnf", "yum"},
		subCommands:    []string{"install"},
		installCommand: "dnf install -y",
		needsRoot:      true,
		installed:      Script("rpm -q {name}"),
		knownFlagsWithValues: []string{
			"-c", "--config",
			"--releasever",
			"--installroot",
			"--enablerepo",
			"--disablerepo",
		},
	},
	Gem: {
		name:           "Gem",
		fullName:       "Ruby Gem",
		commands:       []string{"gem"},
		subCommands:    []string{"install"},
		installCommand: "gem install",
		installed:      Script("gem list -i {name}"),
		knownFlagsWithValues: []string{
			"-n", "--bindir",
			"--document",
			"--build-root",
			"-P", "--trust-policy",
			"-g", "--file",
			"--without",
			"-s", "--source",
			"-B", "--bulk-threshold",
			"-p", "--http-proxy",
			"--config-file",
		},
		captureFlags: []CaptureFlag{
			DynamicValue("-i"),
			DynamicValue("--install-dir"),
			DynamicValue("--platform"),
			DynamicValue("-v"),
			DynamicValue("--version"),
		},
	},
	Go: {
		name:           "Go",
		fullName:       "Go",
		commands:       []string{"go"},
		subCommands:    []string{"install", "get"},
		installCommand: "go install",
		// go install leaves only the binary behind: look for the last path
		// element (before @version, skipping a /vN suffix) in GOBIN or the
		// first GOPATH entry.
		installed:        Script(goInstalledCheck(":", "")),
		windowsInstalled: Script(goInstalledCheck(";", ".exe")),
	},
	Guix: {
		name:           "Guix",
		fullName:       "GNU Guix",
		commands:       []string{"guix"},
		subCommands:    []string{"install"},
		installCommand: "guix install",
		installed:      Script(`guix package --list-installed="^{name}$" | grep -q {name}`),
		knownFlagsWithValues: []string{
			"-L", "--load-path",
			"-v", "--verbosity",
			"--max-silent-time",
			"-c", "--cores",
			"-M", "--max-jobs",
			"--debug",
		},
		captureFlags: []CaptureFlag{
			DynamicValue("-p"),
			DynamicValue("--profile"),
		},
	},
	Nix: {
		name:           "Nix",
		fullName:       "Nix",
		commands:       []string{"nix-env"},
		subCommands:    []string{"-i", "--install", "-iA"},
		installCommand: "nix-env -iA",
		installed:      Script("nix-env -q | grep -q {name}"),
		knownFlagsWithValues: []string{
			"-p", "--profile",
			"--option",
		},
		captureFlags: []CaptureFlag{
			DynamicValue("-f"),
		},
	},
	Npm: {
		name:             "Npm",
		fullName:         "Node Package Manager",
		commands:         []string{"npm"},
		subCommands:      []string{"install", "i", "add"},
		installCommand:   "npm install -g",
		installed:        Script("npm list --depth=0 -g | grep -q {name}"),
		windowsInstalled: Script("npm list --depth=0 -g | findstr {name}"),
		knownFlagsWithValues: []string{
			"--registry",
			"--prefix",
			"--tag",
			"-w", "--workspace",
		},
	},
	Pacman: {
		name:                 "Pacman",
		fullName:             "Pacman",
		commands:             []string{"pacman"},
		subCommands:          []string{"-S"},
		installCommand:       "pacman -S --noconfirm --quiet",
		needsRoot:            true,
		installed:            Script("pacman -Q {name}"),
		knownFlagsWithValues: pacmanFlagsWithValues(),
	},
	Paru: {
		name:           "Paru",
		fullName:       "Paru",
		commands:       []string{"paru"},
		subCommands:    []string{"-S"},
		installCommand: "paru -S --noconfirm --quiet",
		installed:      Script("paru -Q {name}"),
		knownFlagsWithValues: append(pacmanFlagsWithValues(),
			"--clonedir",
			"--makepkg",
			"--makepkgconf",
			"--pacman",
			"--pacman-conf",
			"--git",
			"--gitflags",
			"--gpg",
			"--gpgflags",
			"--fm",
			"--asp",
			"--mflags",
			"--bat",
			"--batflags",
			"--sudo",
			"--sudoflags",
			"--chrootflags",
			"--completioninterval",
			"--sortby",
			"--searchby",
			"--removemake",
			"--limit",
			"--redownload",
			"--rebuild",
			"--sudoloop",
			"--localrepo",
			"--chroot",
			"--sign",
			"--signdb",
		),
	},
	Pip: {
		name:           "Pip",
		fullName:       "Python Pip",
		commands:       []string{"pip"},
		subCommands:    []string{"install"},
		installCommand: "pip install -q",
		needsRoot:      true,
		installed:      Script("pip show -q {name}"),
		knownFlagsWithValues: []string{
			"-i", "--index-url",
			"--extra-index-url",
			"-c", "--constraint",
			"--trusted-host",
		},
		captureFlags: []CaptureFlag{
			Single("--user"),
		},
		invalidatingFlags: []string{"-r", "--requirement", "-e", "--editable"},
	},
	Pip3: {
		name:           "Pip3",
		fullName:       "Python 3 Pip",
		commands:       []string{"pip3"},
		subCommands:    []string{"install"},
		installCommand: "pip3 install -q",
		needsRoot:      true,
		installed:      Script("pip3 show -q {name}"),
		knownFlagsWithValues: []string{
			"-i", "--index-url",
			"--extra-index-url",
			"-c", "--constraint",
			"--trusted-host",
		},
		captureFlags: []CaptureFlag{
			Single("--user"),
		},
		invalidatingFlags: []string{"-r", "--requirement", "-e", "--editable"},
	},
	Pkg: {
		name:           "Pkg",
		fullName:       "Pkg",
		commands:       []string{"pkg"},
		subCommands:    []string{"install"},
		installCommand: "pkg install -y",
		needsRoot:      true,
		installed:      Script("pkg info -e {name}"),
		captureFlags: []CaptureFlag{
			DynamicValue("--repository"),
			DynamicValue("-r"),
		},
	},
	Rua: {
		name:           "Rua",
		fullName:       "RUA",
		commands:       []string{"rua"},
		subCommands:    []string{"install"},
		installCommand: "rua install",
		installed:      Script("pacman -Q {name}"),
	},
	Rustup: {
		name:             "Rustup",
		fullName:         "Rustup Rust",
		commands:         []string{"rustup"},
		subCommands:      []string{"component add"},
		installCommand:   "rustup component add",
		installed:        Script("rustup component list --installed | grep -q {name}"),
		windowsInstalled: Script("rustup component list --installed | findstr {name}"),
		captureFlags: []CaptureFlag{
			DynamicValue("--target"),
			DynamicValue("--toolchain"),
		},
	},
	Scoop: {
		name:                  "Scoop",
		fullName:              "Scoop",
		commands:              []string{"scoop"},
		subCommands:           []string{"install"},
		installCommand:        "scoop install",
		windowsInstallCommand: "cmd /c scoop install",
		installed:             Script("scoop list {name}"),
		windowsInstalled:      PathExists("~/scoop/apps/{name}"),
		captureFlags: []CaptureFlag{
			DynamicValue("-a"),
			DynamicValue("--arch"),
		},
	},
	Snap: {
		name:           "Snap",
		fullName:       "Snap",
		commands:       []string{"snap"},
		subCommands:    []string{"install"},
		installCommand: "snap install",
		needsRoot:      true,
		installed:      Script("snap list {name}"),
		captureFlags: []CaptureFlag{
			Single("--classic"),
			DynamicValue("--channel"),
		},
	},
	Yay: {
		name:           "Yay",
		fullName:       "Yay",
		commands:       []string{"yay"},
		subCommands:    []string{"-S"},
		installCommand: "yay -S --noconfirm --quiet",
		installed:      Script("yay -Q {name}"),
	},
	Zypper: {
		name:           "Zypper",
		fullName:       "Command-line interface to ZYpp system management library",
		commands:       []string{"zypper"},
		subCommands:    []string{"install", "in"},
		installCommand: "zypper install -y",
		needsRoot:      true,
		installed:      Script("rpm -q {name}"),
		knownFlagsWithValues: []string{
			"-c", "--config",
			"-r", "--repo",
			"--from",
		},
	},
}

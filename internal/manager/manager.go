package manager

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Manager identifies one supported package manager.
//
// The set of managers is closed: every value between the first constant and
// managerCount has a descriptor, and All enumerates them in declaration order.
type Manager int

const (
	Apt Manager = iota
	Brew
	Cargo
	CargoBinstall
	Chocolatey
	Dnf
	Gem
	Go
	Guix
	Nix
	Npm
	Pacman
	Paru
	Pip
	Pip3
	Pkg
	Rua
	Rustup
	Scoop
	Snap
	Yay
	Zypper

	managerCount
)

// All returns every supported manager in declaration order.
func All() []Manager {
	all := make([]Manager, 0, managerCount)
	for m := Manager(0); m < managerCount; m++ {
		all = append(all, m)
	}
	return all
}

// Valid reports whether m is one of the declared managers.
func (m Manager) Valid() bool {
	return m >= 0 && m < managerCount
}

// Name returns the stable identifier used when a manager is serialized.
func (m Manager) Name() string {
	if !m.Valid() {
		return fmt.Sprintf("Manager(%d)", int(m))
	}
	return descriptors[m].name
}

// String implements fmt.Stringer.
func (m Manager) String() string {
	return m.Name()
}

// Parse returns the manager with the given serialized name. Matching is
// case-insensitive so hand-edited mirror files still load.
func Parse(name string) (Manager, error) {
	for _, m := range All() {
		if strings.EqualFold(descriptors[m].name, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown package manager %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Manager) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid package manager %d", int(m))
	}
	return []byte(m.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Manager) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Manager) MarshalJSON() ([]byte, error) {
	text, err := m.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Manager) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("package manager must be a string: %w", err)
	}
	return m.UnmarshalText([]byte(name))
}

// Package migrate decodes and encodes the mirror file, upgrading files written
// by older releases on the way in.
package migrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/quantmind-br/emplace/internal/manager"
	"github.com/quantmind-br/emplace/internal/packages"
)

// FormatVersion is written into every mirror file.
const FormatVersion = "0.3.0"

// legacyConstraint selects files that still use the old source names.
const legacyConstraint = "< 0.3.0"

var (
	current = semver.MustParse(FormatVersion)
	legacy  = mustConstraint(legacyConstraint)
)

type document struct {
	Version  string          `json:"version"`
	Packages json.RawMessage `json:"packages"`
}

type encoded struct {
	Version  string             `json:"version"`
	Packages []packages.Package `json:"packages"`
}

type legacyPackage struct {
	Source string   `json:"source"`
	Name   string   `json:"name"`
	Flags  []string `json:"flags,omitempty"`
}

// Decode reads a mirror file. Bare arrays and objects older than the current
// format are migrated; an empty file yields an empty set. migrated reports
// whether the content has to be rewritten in the current format.
func Decode(data []byte) (set packages.Set, migrated bool, err error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return packages.Set{}, false, nil
	}

	if data[0] == '[' {
		set, err := decodeLegacy(data)
		return set, true, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("decode mirror file: %w", err)
	}

	version, err := semver.NewVersion(doc.Version)
	if err != nil {
		return nil, false, fmt.Errorf("mirror file version %q: %w", doc.Version, err)
	}
	if version.GreaterThan(current) && version.Major() != current.Major() {
		return nil, false, fmt.Errorf("mirror file version %s is newer than supported %s", version, current)
	}

	if len(doc.Packages) == 0 || string(doc.Packages) == "null" {
		return packages.Set{}, false, nil
	}

	if legacy.Check(version) {
		set, err := decodeLegacy(doc.Packages)
		return set, true, err
	}

	var set packages.Set
	if err := json.Unmarshal(doc.Packages, &set); err != nil {
		return nil, false, fmt.Errorf("decode packages: %w", err)
	}
	return set, false, nil
}

// Encode renders set as an indented mirror file in the current format.
func Encode(set packages.Set) ([]byte, error) {
	if set == nil {
		set = packages.Set{}
	}
	data, err := json.MarshalIndent(encoded{Version: FormatVersion, Packages: set}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode mirror file: %w", err)
	}
	return append(data, '\n'), nil
}

func decodeLegacy(data []byte) (packages.Set, error) {
	var old []legacyPackage
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, fmt.Errorf("decode legacy packages: %w", err)
	}

	set := make(packages.Set, 0, len(old))
	for _, o := range old {
		p, err := upgrade(o)
		if err != nil {
			return nil, err
		}
		set = append(set, p)
	}
	return set, nil
}

func upgrade(o legacyPackage) (packages.Package, error) {
	flags := o.Flags

	var source manager.Manager
	switch o.Source {
	case "PipUser":
		source = manager.Pip
		flags = append(flags, "--user")
	case "Pip3User":
		source = manager.Pip3
		flags = append(flags, "--user")
	case "RustupComponent":
		source = manager.Rustup
	default:
		m, err := manager.Parse(o.Source)
		if err != nil {
			return packages.Package{}, fmt.Errorf("migrate %q: %w", o.Name, err)
		}
		source = m
	}

	name := o.Name
	if rest, ok := strings.CutPrefix(name, "--git"); ok {
		name = strings.Join(strings.Fields(rest), " ")
		flags = append(flags, "--git")
	}

	return packages.New(source, name, flags), nil
}

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

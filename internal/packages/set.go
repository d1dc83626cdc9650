package packages

import (
	"fmt"
	"slices"

	"github.com/quantmind-br/emplace/internal/manager"
)

// Set is an ordered collection of packages.
type Set []Package

// Merge returns the union of s and other, sorted and without duplicates.
// Neither input is modified.
func (s Set) Merge(other Set) Set {
	merged := make(Set, 0, len(s)+len(other))
	merged = append(merged, s...)
	merged = append(merged, other...)

	slices.SortStableFunc(merged, Package.Compare)
	return slices.CompactFunc(merged, Package.Equal)
}

// Difference returns the packages of s that are not in existing, keeping
// their order.
func (s Set) Difference(existing Set) Set {
	var out Set
	for _, p := range s {
		if !existing.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// Contains reports whether an equal package is in the set.
func (s Set) Contains(p Package) bool {
	return slices.ContainsFunc(s, p.Equal)
}

// Filter returns the packages for which keep returns true.
func (s Set) Filter(keep func(Package) bool) Set {
	var out Set
	for _, p := range s {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// BySource returns the packages installed through m.
func (s Set) BySource(m manager.Manager) Set {
	return s.Filter(func(p Package) bool { return p.Source == m })
}

// Names returns the full name of every package, in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.FullName()
	}
	return names
}

// CommitMessage describes the set for a commit, e.g.
// `Emplace - mirror package "test (Cargo Rust)"`. An empty set has no
// meaningful message and returns "".
func (s Set) CommitMessage(verb string) string {
	switch len(s) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("Emplace - %s package \"%s\"", verb, s[0].FullName())
	default:
		return fmt.Sprintf("Emplace - %s %d packages", verb, len(s))
	}
}

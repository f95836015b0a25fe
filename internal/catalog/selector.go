package catalog

import (
	"sort"
	"strings"
)

// InclusionSet is the set of conformance class names enabled for a run.
type InclusionSet map[string]struct{}

// NewInclusionSet builds a set from class names.
func NewInclusionSet(names ...string) InclusionSet {
	set := make(InclusionSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// ParseInclusionSet splits a comma-separated list of class names.
// Surrounding whitespace is trimmed and empty tokens are dropped; the
// remaining tokens are kept verbatim.
func ParseInclusionSet(s string) InclusionSet {
	set := InclusionSet{}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Names returns the members of the set, sorted.
func (s InclusionSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsEnabled reports whether className is a member of set. Matching is exact:
// no prefix matching and no case folding. A nil set enables nothing.
func IsEnabled(className string, set InclusionSet) bool {
	_, ok := set[className]
	return ok
}

package keyboard

import (
	"fmt"
	"sort"
	"strings"
)

// Set is the ordered list of layouts of one physical keyboard, one per
// shift state (lowercase, shifted, AltGr...). Earlier layouts take
// precedence when a character appears in several.
type Set struct {
	name    string
	layouts []*Layout
}

// NewSet groups layouts under a name. The order of layouts is the lookup order.
func NewSet(name string, layouts ...*Layout) *Set {
	return &Set{name: name, layouts: append([]*Layout(nil), layouts...)}
}

// Name returns the set name, e.g. "qwerty".
func (s *Set) Name() string { return s.name }

// Layouts returns the member layouts in lookup order.
func (s *Set) Layouts() []*Layout {
	return append([]*Layout(nil), s.layouts...)
}

// Resolve returns the first layout that has a key for c.
func (s *Set) Resolve(c rune) (*Layout, error) {
	for _, l := range s.layouts {
		if l.Contains(c) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not on any %s layout", ErrUnsupportedCharacter, c, s.name)
}

// Named returns a built-in layout set. Names are case-insensitive.
func Named(name string) (*Set, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if s, ok := builtinSets[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownLayoutSet, name, strings.Join(Names(), ", "))
}

// Names lists the built-in layout sets in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(builtinSets))
	for n := range builtinSets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

package link

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/txlink/manifest"
)

// Registry is the closed set of rules which may be extended by contributions.
// At most one of them is removed from the grammar if nobody contributes to it.
type Registry struct {
	rules           *treeset.Set
	removeWhenEmpty string
}

// NewRegistry creates a registry of extendable rules. removeWhenEmpty may be
// empty; otherwise it must be one of rules.
func NewRegistry(rules []string, removeWhenEmpty string) (*Registry, error) {
	reg := &Registry{
		rules:           treeset.NewWithStringComparator(),
		removeWhenEmpty: removeWhenEmpty,
	}
	for _, r := range rules {
		reg.rules.Add(r)
	}
	if removeWhenEmpty != "" && !reg.rules.Contains(removeWhenEmpty) {
		return nil, fmt.Errorf("rule %s cannot be removed when empty: not extendable", removeWhenEmpty)
	}
	return reg, nil
}

// RegistryFor creates the registry configured by a manifest.
func RegistryFor(m *manifest.Manifest) (*Registry, error) {
	return NewRegistry(m.Extendable, m.RemoveWhenEmpty)
}

// Contains is true if rule is extendable.
func (reg *Registry) Contains(rule string) bool {
	return reg.rules.Contains(rule)
}

// Rules returns the extendable rules in lexical order.
func (reg *Registry) Rules() []string {
	names := make([]string, 0, reg.rules.Size())
	for _, v := range reg.rules.Values() {
		names = append(names, v.(string))
	}
	return names
}

// RemoveWhenEmpty returns the rule to drop when it has no contributions, if any.
func (reg *Registry) RemoveWhenEmpty() string {
	return reg.removeWhenEmpty
}

package module

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Contributions maps rule names to alternative clauses collected from extend
// blocks. Rule names keep the order in which they were first contributed to,
// clauses keep source order. Clauses are never reordered or deduplicated.
type Contributions struct {
	rules *linkedhashmap.Map // string → []string
}

// NewContributions creates an empty contribution map.
func NewContributions() *Contributions {
	return &Contributions{rules: linkedhashmap.New()}
}

// Add appends clauses to the contributions for rule. Adding no clauses is a
// no-op, i.e. the rule will not be registered.
func (c *Contributions) Add(rule string, clauses ...string) {
	if len(clauses) == 0 {
		return
	}
	var existing []string
	if v, found := c.rules.Get(rule); found {
		existing = v.([]string)
	}
	c.rules.Put(rule, append(existing, clauses...))
}

// Clauses returns the clauses contributed to rule, possibly nil.
func (c *Contributions) Clauses(rule string) []string {
	if v, found := c.rules.Get(rule); found {
		clauses := v.([]string)
		return clauses[:len(clauses):len(clauses)]
	}
	return nil
}

// Rules returns all rule names with contributions, in order of first contribution.
func (c *Contributions) Rules() []string {
	names := make([]string, 0, c.rules.Size())
	it := c.rules.Iterator()
	for it.Next() {
		names = append(names, it.Key().(string))
	}
	return names
}

// Merge appends all contributions of other to c, rule by rule.
func (c *Contributions) Merge(other *Contributions) {
	if other == nil {
		return
	}
	it := other.rules.Iterator()
	for it.Next() {
		c.Add(it.Key().(string), it.Value().([]string)...)
	}
}

// Len returns the number of rules with contributions.
func (c *Contributions) Len() int {
	return c.rules.Size()
}

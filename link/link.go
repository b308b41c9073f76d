package link

import (
	"cmp"
	"strings"

	"github.com/npillmayer/txlink"
	"github.com/npillmayer/txlink/module"
	"github.com/npillmayer/txlink/rules"
	"golang.org/x/exp/slices"
)

// Source is the text of a module file.
type Source struct {
	Name string // module file name
	Text string
}

// Document is a consolidated grammar together with the intermediate results
// it has been linked from.
type Document struct {
	Text          string                // the consolidated grammar
	Modules       []*module.Module      // parsed modules, in module order
	Contributions *module.Contributions // aggregated contributions
	Unregistered  []string              // contributed rules which are not extendable
}

// Rules indexes the rule definitions of the consolidated grammar.
func (doc *Document) Rules() (*rules.Index, error) {
	return rules.Scan(doc.Text)
}

// Link parses sources in the given order and links them into one grammar.
// Link is deterministic: identical sources in identical order produce an
// identical document.
func Link(sources []Source, reg *Registry) (*Document, error) {
	doc := &Document{Modules: make([]*module.Module, 0, len(sources))}
	for _, src := range sources {
		m, err := module.Parse(src.Name, src.Text)
		if err != nil {
			return nil, err
		}
		tracer().Debugf("parsed module %s, %d rule(s) extended", src.Name, m.Contributions.Len())
		doc.Modules = append(doc.Modules, m)
	}
	doc.Contributions = Aggregate(doc.Modules)
	for _, rule := range doc.Contributions.Rules() {
		if !reg.Contains(rule) {
			tracer().Infof("warning: rule %s is not extendable, its %d contribution(s) are ignored",
				rule, len(doc.Contributions.Clauses(rule)))
			doc.Unregistered = append(doc.Unregistered, rule)
		}
	}
	text, err := Inject(Assemble(doc.Modules), doc.Contributions, reg)
	if err != nil {
		return nil, err
	}
	doc.Text = text
	return doc, nil
}

// Aggregate merges the contributions of modules, in module order.
func Aggregate(modules []*module.Module) *module.Contributions {
	all := module.NewContributions()
	for _, m := range modules {
		all.Merge(m.Contributions)
	}
	return all
}

// Assemble concatenates module bodies, separated by a blank line.
func Assemble(modules []*module.Module) string {
	parts := make([]string, len(modules))
	for i, m := range modules {
		parts[i] = m.Body
	}
	return strings.Join(parts, "\n")
}

// --- Injection -------------------------------------------------------------

// edit replaces a span of the grammar text.
type edit struct {
	span txlink.Span
	text string
}

// Inject rewrites the extendable rules of grammar. Every rule of the registry
// which is defined in grammar gets its body replaced by the disjunction of
// its contributions. The remove-when-empty rule is deleted instead if it has
// no contributions, together with every line `| Rule` referencing it.
// Rules which are not defined or not terminated by a semicolon are left alone.
func Inject(grammar string, contrib *module.Contributions, reg *Registry) (string, error) {
	ix, err := rules.Scan(grammar)
	if err != nil {
		return "", err
	}
	var edits []edit
	for _, name := range reg.Rules() {
		r, ok := ix.Lookup(name)
		if !ok {
			tracer().Debugf("extendable rule %s is not defined", name)
			continue
		}
		if !r.Terminated {
			tracer().Infof("warning: extendable rule %s is not terminated, left unchanged", name)
			continue
		}
		clauses := contrib.Clauses(name)
		if name == reg.RemoveWhenEmpty() && len(clauses) == 0 {
			tracer().Debugf("removing empty rule %s and its use-sites", name)
			edits = append(edits, edit{span: removal(grammar, r)})
			edits = append(edits, useSites(grammar, name)...)
			continue
		}
		tracer().Debugf("injecting %d alternative(s) into %s", len(clauses), name)
		edits = append(edits, edit{
			span: txlink.Span{r.Header.To(), r.LineEnd},
			text: "\n" + FormatAlternatives(clauses),
		})
	}
	return apply(grammar, edits), nil
}

// FormatAlternatives formats clauses as the body of a rule, terminated by a
// semicolon. Without clauses the body is empty.
func FormatAlternatives(clauses []string) string {
	if len(clauses) == 0 {
		return "    ;"
	}
	var b strings.Builder
	b.WriteString("      ")
	b.WriteString(clauses[0])
	for _, c := range clauses[1:] {
		b.WriteString("\n    | ")
		b.WriteString(c)
	}
	b.WriteString("\n;")
	return b.String()
}

// removal returns the span covering the complete definition of r, including
// the newline ending it. Indentation in front of the rule name is included.
func removal(grammar string, r *rules.Rule) txlink.Span {
	start := r.Header.From()
	ls := uint64(strings.LastIndexByte(grammar[:start], '\n') + 1)
	if strings.TrimSpace(grammar[ls:start]) == "" {
		start = ls
	}
	end := r.LineEnd
	if end < uint64(len(grammar)) {
		end++ // newline
	}
	return txlink.Span{start, end}
}

// useSites finds all lines consisting of nothing but an alternative `| rule`.
func useSites(grammar string, rule string) []edit {
	var edits []edit
	var pos uint64
	for _, line := range strings.SplitAfter(grammar, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.TrimSpace(trimmed[1:]) == rule {
			edits = append(edits, edit{span: txlink.Span{pos, pos + uint64(len(line))}})
		}
		pos += uint64(len(line))
	}
	return edits
}

// apply performs edits on text. An edit lying within a preceding edit is
// dropped, as its text is gone anyway. An edit only partially overlapping a
// preceding one is dropped as well.
func apply(text string, edits []edit) string {
	slices.SortStableFunc(edits, func(a, b edit) int {
		return cmp.Compare(a.span.From(), b.span.From())
	})
	var b strings.Builder
	var pos uint64
	var last txlink.Span // last edit applied
	for _, e := range edits {
		if !last.IsNull() && last.Contains(e.span) {
			tracer().Debugf("dropping edit %s, lies within %s", e.span, last)
			continue
		}
		if e.span.From() < pos {
			tracer().Infof("warning: dropping edit %s, overlaps %s", e.span, last)
			continue
		}
		b.WriteString(text[pos:e.span.From()])
		b.WriteString(e.text)
		pos = e.span.To()
		last = e.span
	}
	b.WriteString(text[pos:])
	return b.String()
}

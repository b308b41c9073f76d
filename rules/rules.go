/*
Package rules indexes the rule definitions of a textX grammar text.

A rule definition starts with a header, i.e. a rule name at top level followed
by a colon (optionally with a bracketed list of rule modifiers in between), and
ends with the first semicolon token behind the header. Semicolons within
strings, regular expression matches and comments do not end a rule, and a rule
name never matches a longer name it is a prefix of.

    ix, err := rules.Scan(grammar)
    if r, ok := ix.Lookup("Model"); ok {
        fmt.Println(r.Body.Of(grammar))
    }

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rules

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/txlink"
	"github.com/npillmayer/txlink/scanner"
)

// tracer traces with key 'txlink.rules'.
func tracer() tracing.Trace {
	return tracing.Select("txlink.rules")
}

// Rule is a rule definition within a grammar text. All positions are byte
// offsets into the text the index has been built from.
type Rule struct {
	Name       string
	Header     txlink.Span // rule name up to and including the colon
	Body       txlink.Span // behind the colon up to the terminating semicolon
	Terminated bool        // false if the text ended before a semicolon
	LineEnd    uint64      // end of the line holding the semicolon, newline excluded
}

// Block returns the span from the rule name to the end of the line holding
// the terminating semicolon.
func (r *Rule) Block() txlink.Span {
	return txlink.Span{r.Header.From(), r.LineEnd}
}

func (r *Rule) String() string {
	return fmt.Sprintf("<rule %s %s>", r.Name, r.Block())
}

// Index maps rule names to their definitions. If a name is defined more than
// once, the first definition is indexed and the name is reported by
// Duplicates.
type Index struct {
	text       string
	rules      *linkedhashmap.Map // name → *Rule, in order of definition
	duplicates []string
}

// Scan tokenizes a grammar text and builds the rule index for it.
func Scan(text string) (*Index, error) {
	tokens, err := scanner.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("cannot tokenize grammar: %w", err)
	}
	ix := &Index{
		text:  text,
		rules: linkedhashmap.New(),
	}
	for i := 0; i < len(tokens); {
		r, next := header(tokens, i)
		if r == nil {
			i++
			continue
		}
		i = body(text, tokens, next, r)
		if _, found := ix.rules.Get(r.Name); found {
			tracer().Infof("rule %s is defined more than once, using first definition", r.Name)
			ix.duplicates = append(ix.duplicates, r.Name)
			continue
		}
		tracer().Debugf("indexed %s", r)
		ix.rules.Put(r.Name, r)
	}
	return ix, nil
}

// header checks for a rule header starting at token i. It returns the rule
// with its header set and the position of the first body token, or nil.
func header(tokens []txlink.Token, i int) (*Rule, int) {
	name := tokens[i]
	if name.TokType() != scanner.Ident {
		return nil, i
	}
	j := i + 1
	if j < len(tokens) && tokens[j].TokType() == scanner.LBracket {
		for j < len(tokens) && tokens[j].TokType() != scanner.RBracket {
			j++
		}
		j++
	}
	if j >= len(tokens) || tokens[j].TokType() != scanner.Colon {
		return nil, i
	}
	r := &Rule{
		Name:   name.Lexeme(),
		Header: txlink.Span{name.Span().From(), tokens[j].Span().To()},
	}
	return r, j + 1
}

// body searches the terminating semicolon of r, starting at token j, and
// returns the position of the first token behind the rule.
func body(text string, tokens []txlink.Token, j int, r *Rule) int {
	for ; j < len(tokens); j++ {
		if tokens[j].TokType() == scanner.Semicolon {
			semi := tokens[j].Span()
			r.Body = txlink.Span{r.Header.To(), semi.From()}
			r.Terminated = true
			r.LineEnd = lineEnd(text, semi.To())
			return j + 1
		}
	}
	end := uint64(len(text))
	r.Body = txlink.Span{r.Header.To(), end}
	r.LineEnd = end
	tracer().Infof("rule %s is not terminated by a semicolon", r.Name)
	return j
}

func lineEnd(text string, pos uint64) uint64 {
	if nl := strings.IndexByte(text[pos:], '\n'); nl >= 0 {
		return pos + uint64(nl)
	}
	return uint64(len(text))
}

// Lookup returns the first definition of a rule.
func (ix *Index) Lookup(name string) (*Rule, bool) {
	r, found := ix.rules.Get(name)
	if !found {
		return nil, false
	}
	return r.(*Rule), true
}

// Names returns the names of all rules in order of definition.
func (ix *Index) Names() []string {
	names := make([]string, 0, ix.rules.Size())
	for _, k := range ix.rules.Keys() {
		names = append(names, k.(string))
	}
	return names
}

// Len returns the number of distinct rules.
func (ix *Index) Len() int {
	return ix.rules.Size()
}

// Duplicates returns the names of rules defined more than once, once for
// every redefinition.
func (ix *Index) Duplicates() []string {
	return ix.duplicates
}

// Definition returns the source text of a rule, from its name to the end of
// the line holding the terminating semicolon.
func (ix *Index) Definition(name string) (string, bool) {
	r, ok := ix.Lookup(name)
	if !ok {
		return "", false
	}
	return r.Block().Of(ix.text), true
}

package module

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedExtend is the cause of a SyntaxError for extend headers without
// a rule name.
var ErrMalformedExtend = errors.New("extend block without rule name")

// SyntaxError reports malformed authoring syntax within a module.
type SyntaxError struct {
	Module string // module name
	Line   int    // 1-based line number
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("module %s, line %d: %v", e.Module, e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Module is a parsed grammar module.
type Module struct {
	Name          string         // file name of the module
	Body          string         // grammar text, always ending in a newline
	Contributions *Contributions // contributions of all extend blocks
}

// Parse parses the text of a module. name is used for error messages only.
func Parse(name string, text string) (*Module, error) {
	return ParseLines(name, SplitLines(text))
}

// SplitLines splits text at line breaks (\n, \r\n or \r). A final line break
// does not start another line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// ParseLines parses a module given as a sequence of lines.
func ParseLines(name string, lines []string) (*Module, error) {
	m := &Module{
		Name:          name,
		Contributions: NewContributions(),
	}
	var body []string
	for i := 0; i < len(lines); {
		fields := strings.Fields(lines[i])
		if len(fields) == 0 {
			body = append(body, lines[i])
			i++
			continue
		}
		switch fields[0] {
		case HeaderKeyword:
			tracer().Debugf("%s: dropping header %q", name, strings.TrimSpace(lines[i]))
			i++
		case ExtendKeyword:
			next, err := m.extend(lines, i)
			if err != nil {
				return nil, err
			}
			i = next
		default:
			body = append(body, NormalizeLine(lines[i]))
			i++
		}
	}
	m.Body = strings.Join(body, "\n") + "\n"
	return m, nil
}

// extend consumes the extend block starting at line i and returns the index
// of the first line behind it.
func (m *Module) extend(lines []string, i int) (int, error) {
	rule, inline := extendHeader(lines[i])
	if rule == "" {
		return i, &SyntaxError{Module: m.Name, Line: i + 1, Err: ErrMalformedExtend}
	}
	var block []string
	terminated := false
	if inline != "" {
		block, terminated = blockLine(block, inline)
	}
	start := i + 1
	i++
	for ; !terminated && i < len(lines); i++ {
		block, terminated = blockLine(block, lines[i])
	}
	if !terminated {
		tracer().Infof("%s: extend %s starting at line %d is not terminated by a semicolon",
			m.Name, rule, start)
	}
	clauses := cleanClauses(block)
	tracer().Debugf("%s: extend %s with %d clause(s)", m.Name, rule, len(clauses))
	m.Contributions.Add(rule, clauses...)
	return i, nil
}

// extendHeader splits `extend NAME[:] [inline]` into the rule name and the
// text following it.
func extendHeader(line string) (string, string) {
	rest := strings.TrimSpace(line)
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ExtendKeyword))
	end := strings.IndexAny(rest, " \t:")
	if end < 0 {
		end = len(rest)
	}
	rule := rest[:end]
	rest = strings.TrimSpace(rest[end:])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	return rule, rest
}

// blockLine appends a line to an extend block. A line containing a semicolon
// terminates the block; only the text before the semicolon is kept.
func blockLine(block []string, line string) ([]string, bool) {
	if semi := strings.IndexByte(line, ';'); semi >= 0 {
		return append(block, line[:semi]), true
	}
	return append(block, line), false
}

// cleanClauses turns raw block lines into alternative clauses: blank lines and
// comments are dropped, a leading '|' is removed.
func cleanClauses(block []string) []string {
	var clauses []string
	for _, entry := range block {
		candidate := strings.TrimSpace(entry)
		if candidate == "" || strings.HasPrefix(candidate, "//") {
			continue
		}
		if strings.HasPrefix(candidate, "|") {
			candidate = strings.TrimSpace(candidate[1:])
		}
		if candidate == "" {
			continue
		}
		clauses = append(clauses, candidate)
	}
	return clauses
}

package module

import "strings"

// NormalizeLine converts a legacy declaration
//
//    terminal NAME: <pattern>;
//
// to the plain rule form `NAME: <pattern>;`, keeping the leading whitespace of
// the line. Any line which does not consist of the keyword, exactly one name
// and a colon is returned unchanged.
// NormalizeLine is idempotent.
func NormalizeLine(line string) string {
	stripped := strings.TrimSpace(line)
	if !strings.HasPrefix(stripped, TerminalKeyword+" ") && !strings.HasPrefix(stripped, TerminalKeyword+"\t") {
		return line
	}
	colon := strings.IndexByte(stripped, ':')
	if colon < 0 || colon == len(stripped)-1 {
		return line
	}
	head := strings.Fields(stripped[:colon])
	if len(head) != 2 {
		return line
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	return indent + head[1] + stripped[colon:]
}

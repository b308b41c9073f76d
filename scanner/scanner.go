/*
Package scanner tokenizes textX grammar text.

The tokenizer is not a full textX lexer. It knows just enough of the grammar
language to find rule boundaries reliably: identifiers, the punctuation
`:`, `;`, `|`, `[` and `]`, quoted strings, regular expression matches and
comments. Everything else is reported as token category Other, one byte at a
time. The scanner is backed by lexmachine.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/txlink"
)

// tracer traces with key 'txlink.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("txlink.scanner")
}

// Token categories for grammar text.
const (
	EOF       txlink.TokType = iota // end of input
	Ident                           // rule names, attribute names, keywords
	String                          // '…' or "…"
	Match                           // regular expression match /…/
	Colon                           // ':'
	Semicolon                       // ';'
	Bar                             // '|'
	LBracket                        // '['
	RBracket                        // ']'
	Other                           // any other non-blank byte
)

var tokTypeNames = []string{"EOF", "Ident", "String", "Match", "':'", "';'", "'|'", "'['", "']'", "Other"}

// TokTypeString is a txlink.TokTypeStringer for grammar text categories.
func TokTypeString(t txlink.TokType) string {
	if int(t) < 0 || int(t) >= len(tokTypeNames) {
		return fmt.Sprintf("<%d>", t)
	}
	return tokTypeNames[t]
}

var _ txlink.TokTypeStringer = TokTypeString

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() txlink.Token
	SetErrorHandler(func(error))
}

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, produced by the
// lexmachine scanner.
type DefaultToken struct {
	kind   txlink.TokType
	lexeme string
	span   txlink.Span
}

func MakeDefaultToken(typ txlink.TokType, lexeme string, span txlink.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t DefaultToken) TokType() txlink.TokType {
	return t.kind
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() txlink.Span {
	return t.span
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("%s %q %s", TokTypeString(t.kind), t.lexeme, t.span)
}

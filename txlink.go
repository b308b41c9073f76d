package txlink

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. Package scanner defines the categories
// for grammar text.
type TokType int

// TokTypeStringer is a type to be provided by a scanner to be able
// to print out token categories.
type TokTypeStringer func(TokType) string

// Tokens represent input tokens of a grammar text.
//
// An example would be the header of a rule definition:
//
//    TokType = Ident       // identifier category (see package scanner)
//    Lexeme  = "Model"     // lexeme how it appeared in the grammar text
//    Span    = 67…72       // byte offsets within the grammar text
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a run of bytes within a text. Rule
// headers, rule bodies and tokens track which byte positions they cover. A
// span denotes a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// IsNull is true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Contains is true if other lies completely within s.
func (s Span) Contains(other Span) bool {
	return other[0] >= s[0] && other[1] <= s[1]
}

// Of returns the part of text covered by s.
func (s Span) Of(text string) string {
	return text[s[0]:s[1]]
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

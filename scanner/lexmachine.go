package scanner

import (
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/txlink"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// Punctuation relevant for finding rule boundaries.
var literals = map[string]txlink.TokType{
	":": Colon,
	";": Semicolon,
	"|": Bar,
	"[": LBracket,
	"]": RBracket,
}

var literalOrder = []string{":", ";", "|", "[", "]"}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

var (
	grammarLexer    *LMAdapter
	grammarLexerErr error
	initOnce        sync.Once // monitors one-time initialization
)

// GrammarLexer returns the (shared) lexer for textX grammar text. The DFA is
// compiled once on first use.
func GrammarLexer() (*LMAdapter, error) {
	initOnce.Do(func() {
		patterns := func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(`//[^\n]*`), Skip)
			lexer.Add([]byte(`/\*([^*]|\r|\n|(\*+([^*/]|\r|\n)))*\*+/`), Skip)
			lexer.Add([]byte(`( |\t|\n|\r)+`), Skip)
			lexer.Add([]byte(`'([^'\\\n]|\\.)*'`), MakeToken(String))
			lexer.Add([]byte(`"([^"\\\n]|\\.)*"`), MakeToken(String))
			lexer.Add([]byte(`/([^/*\n\\]|\\.)([^/\n\\]|\\.)*/`), MakeToken(Match))
			lexer.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), MakeToken(Ident))
		}
		grammarLexer, grammarLexerErr = NewLMAdapter(patterns, literalOrder, literals)
	})
	return grammarLexer, grammarLexerErr
}

// NewLMAdapter creates a new lexmachine adapter. It receives an init function
// adding the patterns of a language, a list of literals (':', ';', …) and a
// map for translating literals to their token categories. A catch-all pattern
// for single bytes is added last, so no input is ever left unconsumed.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, tokenIds map[string]txlink.TokType) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	init(adapter.Lexer)
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(tokenIds[lit]))
	}
	adapter.Lexer.Add([]byte(`[^ \t\r\n]`), MakeToken(Other))
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{s, logError}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
}

var _ Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// NextToken is part of the Tokenizer interface. Spans are byte offsets into
// the input.
func (lms *LMScanner) NextToken() txlink.Token {
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			if ui.FailTC > lms.scanner.TC {
				lms.scanner.TC = ui.FailTC
			} else {
				lms.scanner.TC++
			}
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		return MakeDefaultToken(EOF, "", txlink.Span{})
	}
	token := tok.(*lexmachine.Token)
	tracer().Debugf("token %s %q @%d", TokTypeString(txlink.TokType(token.Type)), token.Lexeme, token.TC)
	from := uint64(token.TC)
	return MakeDefaultToken(
		txlink.TokType(token.Type),
		string(token.Lexeme),
		txlink.Span{from, from + uint64(len(token.Lexeme))},
	)
}

// Tokenize scans a complete grammar text and returns all of its tokens,
// without the final EOF token. Scanner errors are reported after the
// remaining input has been tokenized.
func Tokenize(text string) ([]txlink.Token, error) {
	lm, err := GrammarLexer()
	if err != nil {
		return nil, err
	}
	sc, err := lm.Scanner(text)
	if err != nil {
		return nil, err
	}
	var scanErr error
	sc.SetErrorHandler(func(e error) {
		logError(e)
		if scanErr == nil {
			scanErr = e
		}
	})
	tokens := drain(sc)
	if scanErr != nil {
		return tokens, fmt.Errorf("grammar text not fully tokenized: %w", scanErr)
	}
	return tokens, nil
}

// drain reads tokens up to, but not including, EOF.
func drain(sc Tokenizer) []txlink.Token {
	var tokens []txlink.Token
	for tok := sc.NextToken(); tok.TokType() != EOF; tok = sc.NextToken() {
		tokens = append(tokens, tok)
	}
	return tokens
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(typ txlink.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(typ), string(m.Bytes), m), nil
	}
}

/*
Package engine is the contract towards the external grammar engine.

The consolidated grammar produced by package link is consumed by textX. The
linker never depends on the engine, but the command line tool uses it to
verify a freshly built grammar and to parse model files with it.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'txlink.engine'.
func tracer() tracing.Trace {
	return tracing.Select("txlink.engine")
}

// Mode configures how the engine compiles a grammar.
type Mode struct {
	IgnoreCase   bool // match keywords case-insensitively
	AutoKeywords bool // keywords must match on word boundaries
	Memoization  bool // packrat parsing
	Debug        bool // engine debug output
}

// DefaultMode is the mode the consolidated grammar is written for.
func DefaultMode() Mode {
	return Mode{AutoKeywords: true, Memoization: true}
}

// Engine compiles grammars and parses models.
type Engine interface {
	// CompileGrammar compiles the grammar file at path.
	CompileGrammar(ctx context.Context, grammar string) error
	// ParseModel compiles a grammar and parses a model file with it.
	ParseModel(ctx context.Context, grammar, model string) error
}

// Error is an engine failure, carrying the engine's output.
type Error struct {
	Op     string // "compile" or "parse"
	Path   string // grammar or model file
	Output string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("engine: %s %s: %v", e.Op, e.Path, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

package engine

import (
	"context"
	"os/exec"
)

// Runner runs a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// program is handed to the Python interpreter. Arguments are the grammar
// file, the mode flags and an optional model file.
const program = `import sys
from textx import metamodel_from_file
grammar, ignore_case, autokwd, memoization, debug = sys.argv[1:6]
mm = metamodel_from_file(grammar, ignore_case=ignore_case == "1", autokwd=autokwd == "1",
                         memoization=memoization == "1", debug=debug == "1")
if len(sys.argv) > 6:
    mm.model_from_file(sys.argv[6])
`

// TextX is an Engine backed by the textX Python package.
type TextX struct {
	Python string // interpreter
	Mode   Mode
	Run    Runner
}

var _ Engine = (*TextX)(nil)

// NewTextX creates a textX engine using python3 and the default mode.
func NewTextX() *TextX {
	return &TextX{Python: "python3", Mode: DefaultMode(), Run: ExecRunner}
}

// CompileGrammar is part of the Engine interface.
func (tx *TextX) CompileGrammar(ctx context.Context, grammar string) error {
	return tx.run(ctx, "compile", grammar, tx.args(grammar))
}

// ParseModel is part of the Engine interface.
func (tx *TextX) ParseModel(ctx context.Context, grammar, model string) error {
	return tx.run(ctx, "parse", model, append(tx.args(grammar), model))
}

func (tx *TextX) args(grammar string) []string {
	return []string{
		"-c", program,
		grammar,
		flag(tx.Mode.IgnoreCase),
		flag(tx.Mode.AutoKeywords),
		flag(tx.Mode.Memoization),
		flag(tx.Mode.Debug),
	}
}

func (tx *TextX) run(ctx context.Context, op, path string, args []string) error {
	python, run := tx.Python, tx.Run
	if python == "" {
		python = "python3"
	}
	if run == nil {
		run = ExecRunner
	}
	tracer().Debugf("%s %s with mode %+v", op, path, tx.Mode)
	out, err := run(ctx, python, args...)
	if err != nil {
		return &Error{Op: op, Path: path, Output: string(out), Err: err}
	}
	tracer().Infof("%s %s: ok", op, path)
	return nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

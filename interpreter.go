/*
Package mython implements Mython, a small, indentation-sensitive, dynamically
typed language with single-parent class inheritance.

A program is a flat sequence of statements executed top to bottom. Classes
are the only user-defined types; a class is a named, ordered table of methods,
each of which receives its instance implicitly as the first bound name in its
call frame. There are no modules, no free functions, and no import statement:
everything a program needs is declared in the one file it is given.

To run a program, construct an Interpreter and feed it a source reader:

	interp := mython.NewInterpreter(os.Stdout)
	err := interp.Run(strings.NewReader("print 1 + 2\n"))

Run lexes, parses, and evaluates src against the Interpreter's persistent
root closure, so a sequence of calls to Run on the same Interpreter behaves
like separate top-level blocks of one growing program: classes and globals
defined in one call are visible to the next. This is what lets the REPL front
ends in cmd/mython and cmd/mython-tui maintain state across submissions
without re-implementing any of the evaluator.
*/
package mython

import (
	"io"
	"strings"
)

// Interpreter holds the state that persists across one or more calls to
// Run: the root closure (global variables and class definitions) and the
// output sink every print ultimately writes to.
type Interpreter struct {
	root *Closure
	ctx  *Context
}

// NewInterpreter returns an Interpreter whose print statements write to
// output.
func NewInterpreter(output io.Writer) *Interpreter {
	return &Interpreter{
		root: NewClosure(),
		ctx:  &Context{Output: output},
	}
}

// Run lexes, parses, and executes src against i's root closure. A LexError,
// ParseError, or RuntimeError aborts execution and is returned; whatever
// output was produced before the error is kept.
func (i *Interpreter) Run(src io.Reader) error {
	lex := NewLexer(src)
	p := NewParser(lex)
	for name, h := range i.root.vars {
		if class, ok := h.Value().(*Class); ok {
			p.classes[name] = class
		}
	}
	program, err := p.ParseProgram()
	if err != nil {
		for lex.Current().Kind != eofTokenKind && lex.Err() == nil {
			lex.Advance()
		}
		return err
	}
	_, err = program.Execute(i.root, i.ctx)
	if _, ok := asReturn(err); ok {
		return &RuntimeError{Msg: "return outside of a method body"}
	}
	return err
}

// RunString is a convenience wrapper around Run for in-memory source.
func (i *Interpreter) RunString(src string) error {
	return i.Run(strings.NewReader(src))
}

// Run is a one-shot convenience: it builds a fresh Interpreter writing to
// output and executes src against it, for callers that have no need to
// retain state between programs (the batch mode of cmd/mython).
func Run(src io.Reader, output io.Writer) error {
	return NewInterpreter(output).Run(src)
}

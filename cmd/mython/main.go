package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/mythonlang/mython"
)

const (
	historyFile = ".mython_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mython", flag.ContinueOnError)
	interactive := fs.Bool("i", false, "run an interactive REPL instead of batch mode")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	if len(rest) > 1 {
		fmt.Fprintln(os.Stderr, "mython: usage: mython [-i] [file]")
		return 2
	}

	if *interactive || (len(rest) == 0 && isTerminal(os.Stdin)) {
		return runREPL()
	}

	var src io.Reader = os.Stdin
	if len(rest) == 1 {
		f, err := os.Open(rest[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "mython: %v\n", err)
			return 1
		}
		defer f.Close()
		src = f
	}

	if err := mython.Run(src, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "mython: %v\n", err)
		return 1
	}
	return 0
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// runREPL drives an interactive session: persistent Interpreter state, one
// liner.State for history-backed editing, and a blockReader that buffers
// the lines of one logical statement or suite before handing them to the
// Interpreter, the way a batch run would receive them already assembled.
func runREPL() int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	interp := mython.NewInterpreter(os.Stdout)
	reader := &blockReader{ln: ln}

	for {
		block, err := reader.readBlock()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println()
				return 0
			}
			fmt.Fprintf(os.Stderr, "mython: %v\n", err)
			return 1
		}
		if strings.TrimSpace(block) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(block, "\n", "\\n"))
		if err := interp.RunString(block + "\n"); err != nil {
			fmt.Fprintf(os.Stderr, "mython: %v\n", err)
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

// blockReader buffers liner.State lines into one logical statement or
// class/if suite at a time, tracking the running indent column the same
// way the lexer's own lexLineStart does: a line ending in ':' opens a new
// two-space indent level, and a line whose indent falls back below the
// level that opened the current suite closes it. The block ends at the
// first line that falls back below every open suite (a blank line does
// this), unless that line is an else continuing the if. Since liner hands back
// lines one at a time with no way to "unread" one, a line read too far
// ahead is kept in pending and replayed as the first line of the next
// block.
type blockReader struct {
	ln      *liner.State
	pending string
	pendOK  bool
}

func (r *blockReader) nextLine(prompt string) (string, error) {
	if r.pendOK {
		r.pendOK = false
		return r.pending, nil
	}
	return r.ln.Prompt(prompt)
}

func (r *blockReader) pushBack(line string) {
	r.pending, r.pendOK = line, true
}

func (r *blockReader) readBlock() (string, error) {
	var lines []string
	var open []int // indent column of each open suite, innermost last
	for {
		prompt := promptMain
		if len(lines) > 0 {
			prompt = promptCont
		}
		line, err := r.nextLine(prompt)
		if err != nil {
			if len(lines) == 0 {
				return "", err
			}
			break
		}
		if len(lines) == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		col := leadingSpaces(line)
		for len(open) > 0 && col < open[len(open)-1] {
			open = open[:len(open)-1]
		}
		text := strings.TrimSpace(line)
		isElse := strings.HasPrefix(text, "else") && strings.HasPrefix(strings.TrimSpace(text[4:]), ":")
		if len(lines) > 0 && len(open) == 0 && !isElse {
			r.pushBack(line)
			break
		}
		lines = append(lines, line)
		if strings.HasSuffix(strings.TrimRight(line, " \t"), ":") {
			open = append(open, col+2)
			continue
		}
		if len(lines) == 1 {
			break
		}
	}
	return strings.Join(lines, "\n"), nil
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

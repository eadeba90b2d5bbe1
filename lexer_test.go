package mython

import (
	"strings"
	"testing"
)

// collect drains a Lexer into a slice of tokens, including the final Eof.
func collect(t *testing.T, src string) []token {
	t.Helper()
	lex := NewLexer(strings.NewReader(src))
	var toks []token
	for {
		toks = append(toks, lex.Current())
		if lex.Current().Kind == eofTokenKind {
			break
		}
		if lex.Err() != nil {
			t.Fatalf("lex error: %v", lex.Err())
		}
		lex.Advance()
	}
	return toks
}

func kinds(toks []token) []tokenKind {
	ks := make([]tokenKind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestLexKeywordsAndIdents(t *testing.T) {
	cases := map[string]struct {
		text string
		want []tokenKind
	}{
		"class keyword":  {"class", []tokenKind{classTokenKind, newlineTokenKind, eofTokenKind}},
		"plain ident":    {"classy", []tokenKind{idTokenKind, newlineTokenKind, eofTokenKind}},
		"return keyword": {"return", []tokenKind{returnTokenKind, newlineTokenKind, eofTokenKind}},
		"True/False":     {"True False", []tokenKind{trueTokenKind, falseTokenKind, newlineTokenKind, eofTokenKind}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got := kinds(collect(t, c.text))
			if len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("got %v, want %v", got, c.want)
				}
			}
		})
	}
}

func TestLexIndentation(t *testing.T) {
	src := "if 1:\n  print 1\n  if 2:\n    print 2\nprint 3\n"
	got := kinds(collect(t, src))
	want := []tokenKind{
		ifTokenKind, numberTokenKind, charTokenKind, newlineTokenKind,
		indentTokenKind,
		printTokenKind, numberTokenKind, newlineTokenKind,
		ifTokenKind, numberTokenKind, charTokenKind, newlineTokenKind,
		indentTokenKind,
		printTokenKind, numberTokenKind, newlineTokenKind,
		dedentTokenKind, dedentTokenKind,
		printTokenKind, numberTokenKind, newlineTokenKind,
		eofTokenKind,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLexOddIndentIsError(t *testing.T) {
	lex := NewLexer(strings.NewReader("if 1:\n   print 1\n"))
	for lex.Current().Kind != eofTokenKind && lex.Err() == nil {
		lex.Advance()
	}
	if lex.Err() == nil {
		t.Fatal("expected a lex error for a three-space indent")
	}
	if _, ok := lex.Err().(*LexError); !ok {
		t.Fatalf("expected *LexError, got %T", lex.Err())
	}
}

func TestLexCompareOperators(t *testing.T) {
	cases := map[string]tokenKind{
		"==": eqTokenKind,
		"!=": notEqTokenKind,
		"<=": lessOrEqTokenKind,
		">=": greaterOrEqTokenKind,
	}
	for text, want := range cases {
		t.Run(text, func(t *testing.T) {
			toks := collect(t, text)
			if toks[0].Kind != want {
				t.Fatalf("got %v, want %v", toks[0].Kind, want)
			}
		})
	}
}

func TestLexBareCompareByteFallsBackToChar(t *testing.T) {
	toks := collect(t, "< 1")
	if toks[0].Kind != charTokenKind || toks[0].Char != '<' {
		t.Fatalf("got %v, want Char('<')", toks[0])
	}
}

func TestLexStringEscapes(t *testing.T) {
	toks := collect(t, `'a\nb\tc\\d'`)
	if toks[0].Kind != stringTokenKind {
		t.Fatalf("got %v, want String", toks[0])
	}
	if toks[0].Text != "a\nb\tc\\d" {
		t.Fatalf("got %q", toks[0].Text)
	}
}

func TestLexUnterminatedStringIsError(t *testing.T) {
	lex := NewLexer(strings.NewReader("'abc"))
	for lex.Current().Kind != eofTokenKind && lex.Err() == nil {
		lex.Advance()
	}
	if lex.Err() == nil {
		t.Fatal("expected a lex error for an unterminated string")
	}
}

func TestLexCommentsAreIndentationNeutral(t *testing.T) {
	got := kinds(collect(t, "# full line comment\nprint 1 # trailing\n"))
	want := []tokenKind{printTokenKind, numberTokenKind, newlineTokenKind, eofTokenKind}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLexTrailingNewlineIsOptional(t *testing.T) {
	withNL := kinds(collect(t, "print 1\n"))
	withoutNL := kinds(collect(t, "print 1"))
	if len(withNL) != len(withoutNL) {
		t.Fatalf("with newline %v, without %v", withNL, withoutNL)
	}
	for i := range withNL {
		if withNL[i] != withoutNL[i] {
			t.Fatalf("with newline %v, without %v", withNL, withoutNL)
		}
	}
}

func TestLexBalancedIndentDedent(t *testing.T) {
	src := "class A:\n  def f(self):\n    return 1\nprint 1\n"
	toks := collect(t, src)
	indents, dedents := 0, 0
	for _, tok := range toks {
		switch tok.Kind {
		case indentTokenKind:
			indents++
		case dedentTokenKind:
			dedents++
		}
	}
	if indents != dedents {
		t.Fatalf("unbalanced Indent/Dedent: %d vs %d", indents, dedents)
	}
	if toks[len(toks)-1].Kind != eofTokenKind {
		t.Fatalf("stream did not end in Eof: %v", toks[len(toks)-1])
	}
}

package mython

import (
	"bufio"
	"io"
	"strconv"
)

// lexFn is a lexer state function, in the style of the teacher's channel-fed
// DFA (see lex.go in the retrieved zephyrtronium/iolang sources): each lexFn
// consumes bytes from the shared reader, emits zero or more tokens on the
// shared channel, and returns the next lexFn to run. The loop in run stops
// when a lexFn returns nil, which happens exactly once, after Eof (or a bad
// token) has been sent.
type lexFn func(l *lexState) lexFn

// lexState drives the indentation-sensitive DFA. It owns the indentation
// counter so that, unlike a process-global scanner, every Lexer gets its own
// lexState and is independently reentrant.
type lexState struct {
	src    *bufio.Reader
	tokens chan token

	line, col int

	cur         int  // current indentation level, in spaces
	tokensOnLine bool // whether any real token has been emitted since the last Newline
}

func (l *lexState) run() {
	state := lexLineStart
	for state != nil {
		state = state(l)
	}
	close(l.tokens)
}

func (l *lexState) send(t token) {
	t.Line, t.Col = l.line, l.col
	l.tokens <- t
}

func (l *lexState) bad(msg string) lexFn {
	l.send(token{Kind: badTokenKind, Err: &LexError{Line: l.line, Col: l.col, Msg: msg}})
	return nil
}

func (l *lexState) readByte() (byte, error) {
	b, err := l.src.ReadByte()
	if err == nil {
		l.col++
	}
	return b, err
}

// finish implements end-of-stream finalization: a closing Newline if the
// current line had tokens, then Dedents back to indentation level zero,
// then Eof.
func (l *lexState) finish() lexFn {
	if l.tokensOnLine {
		l.send(token{Kind: newlineTokenKind})
		l.tokensOnLine = false
	}
	for ; l.cur > 0; l.cur -= 2 {
		l.send(token{Kind: dedentTokenKind})
	}
	l.send(token{Kind: eofTokenKind})
	return nil
}

// lexLineStart counts leading spaces at the beginning of a logical line and
// decides whether the line is blank, comment-only (both indentation-neutral),
// or carries real content, in which case it emits the Indent or Dedent
// tokens implied by the change in indentation and hands off to lexNeutral.
func lexLineStart(l *lexState) lexFn {
	n := 0
	for {
		b, err := l.src.ReadByte()
		if err != nil {
			if err != io.EOF {
				return l.bad(err.Error())
			}
			return l.finish()
		}
		if b != ' ' {
			l.src.UnreadByte()
			break
		}
		n++
		l.col++
	}

	b, err := l.readByte()
	if err != nil {
		return l.finish()
	}
	switch b {
	case '\n':
		l.line++
		l.col = 1
		return lexLineStart
	case '#':
		return lexLineComment
	}
	l.src.UnreadByte()
	l.col--

	if n%2 != 0 {
		return l.bad("indentation must be a multiple of two spaces")
	}
	diff := n - l.cur
	switch {
	case diff > 0:
		for i := 0; i < diff/2; i++ {
			l.send(token{Kind: indentTokenKind})
		}
	case diff < 0:
		for i := 0; i < -diff/2; i++ {
			l.send(token{Kind: dedentTokenKind})
		}
	}
	l.cur = n
	l.tokensOnLine = true
	return lexNeutral
}

// lexLineComment consumes a comment that occupies an entire line (one that
// began in lexLineStart, at column zero of content). It is indentation
// neutral: the following real line's Indent/Dedent tokens are computed
// against the same cur as if this line did not exist.
func lexLineComment(l *lexState) lexFn {
	for {
		b, err := l.readByte()
		if err != nil {
			if err != io.EOF {
				return l.bad(err.Error())
			}
			return l.finish()
		}
		if b == '\n' {
			l.line++
			l.col = 1
			return lexLineStart
		}
	}
}

// lexTrailingComment consumes a comment following other tokens on a line.
// It does not suppress the Newline that lexNeutral will still emit.
func lexTrailingComment(l *lexState) lexFn {
	for {
		b, err := l.readByte()
		if err != nil {
			if err != io.EOF {
				return l.bad(err.Error())
			}
			return l.finish()
		}
		if b == '\n' {
			l.src.UnreadByte()
			l.col--
			return lexNeutral
		}
	}
}

// lexNeutral lexes tokens between the start and end of a logical line.
func lexNeutral(l *lexState) lexFn {
	for {
		b, err := l.src.ReadByte()
		if err != nil {
			if err != io.EOF {
				return l.bad(err.Error())
			}
			return l.finish()
		}
		if b != ' ' {
			l.src.UnreadByte()
			break
		}
		l.col++
	}

	b, err := l.readByte()
	if err != nil {
		return l.finish()
	}
	switch {
	case b == '\n':
		l.col--
		l.send(token{Kind: newlineTokenKind})
		l.line++
		l.tokensOnLine = false
		l.col = 1
		return lexLineStart
	case b == '#':
		return lexTrailingComment
	case isIdentStart(b):
		l.src.UnreadByte()
		l.col--
		return lexIdent
	case '0' <= b && b <= '9':
		l.src.UnreadByte()
		l.col--
		return lexNumber
	case b == '=' || b == '<' || b == '>' || b == '!':
		return lexCompareByte(l, b)
	case b == '\'' || b == '"':
		return lexStringByte(l, b)
	case isSingleCharToken(b):
		l.col--
		l.send(token{Kind: charTokenKind, Char: b})
		l.col++
		return lexNeutral
	default:
		return l.bad("unexpected character " + strconv.QuoteRune(rune(b)))
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || ('0' <= b && b <= '9')
}

func isSingleCharToken(b byte) bool {
	switch b {
	case '(', ')', ',', ':', '.', '+', '-', '*', '/':
		return true
	}
	return false
}

// lexIdent consumes an identifier and emits either its keyword token or an
// Id token carrying the text.
func lexIdent(l *lexState) lexFn {
	startCol := l.col
	var text []byte
	for {
		b, err := l.src.ReadByte()
		if err != nil {
			break
		}
		if !isIdentPart(b) {
			l.src.UnreadByte()
			break
		}
		text = append(text, b)
		l.col++
	}
	l.col = startCol
	if kind, ok := keywords[string(text)]; ok {
		l.send(token{Kind: kind})
	} else {
		l.send(token{Kind: idTokenKind, Text: string(text)})
	}
	l.col = startCol + len(text)
	return lexNeutral
}

// lexNumber consumes a run of decimal digits and emits a Number token.
func lexNumber(l *lexState) lexFn {
	startCol := l.col
	var text []byte
	for {
		b, err := l.src.ReadByte()
		if err != nil {
			break
		}
		if b < '0' || b > '9' {
			l.src.UnreadByte()
			break
		}
		text = append(text, b)
		l.col++
	}
	n, err := strconv.ParseInt(string(text), 10, 32)
	if err != nil {
		return l.bad("invalid numeric literal " + string(text))
	}
	l.col = startCol
	l.send(token{Kind: numberTokenKind, Num: int32(n)})
	l.col = startCol + len(text)
	return lexNeutral
}

// lexCompareByte implements the one-byte look-ahead needed for the
// = < > ! family: a following = makes a compound comparison token,
// otherwise first is emitted alone as a Char.
func lexCompareByte(l *lexState, first byte) lexFn {
	col := l.col - 1
	b, err := l.src.ReadByte()
	if err == nil && b == '=' {
		l.col++
		var kind tokenKind
		switch first {
		case '=':
			kind = eqTokenKind
		case '!':
			kind = notEqTokenKind
		case '<':
			kind = lessOrEqTokenKind
		case '>':
			kind = greaterOrEqTokenKind
		}
		l.col = col
		l.send(token{Kind: kind})
		l.col = col + 2
		return lexNeutral
	}
	if err == nil {
		l.src.UnreadByte()
	}
	l.col = col
	l.send(token{Kind: charTokenKind, Char: first})
	l.col = col + 1
	return lexNeutral
}

// lexStringByte consumes a single- or double-quoted string, resolving the
// \n and \t escapes and passing any other escaped byte through verbatim.
func lexStringByte(l *lexState, quote byte) lexFn {
	startLine, startCol := l.line, l.col-1
	var text []byte
	for {
		b, err := l.readByte()
		if err != nil {
			if err == io.EOF {
				return l.bad("unterminated string literal")
			}
			return l.bad(err.Error())
		}
		if b == '\n' {
			return l.bad("unterminated string literal")
		}
		if b == quote {
			break
		}
		if b == '\\' {
			e, err := l.readByte()
			if err != nil {
				return l.bad("unterminated string literal")
			}
			switch e {
			case 'n':
				text = append(text, '\n')
			case 't':
				text = append(text, '\t')
			default:
				text = append(text, e)
			}
			continue
		}
		text = append(text, b)
	}
	endCol := l.col
	l.line, l.col = startLine, startCol
	l.send(token{Kind: stringTokenKind, Text: string(text)})
	l.col = endCol
	return lexNeutral
}

// Lexer is a one-token look-ahead cursor over a Mython source stream. The
// current token is always available via Current; Advance consumes it and
// returns the new current token. This mirrors the teacher's channel-fed
// lexer (lex.go), except the channel here is an implementation detail
// hidden behind the cursor instead of being consumed directly by the
// parser.
type Lexer struct {
	tokens <-chan token
	cur    token
	err    error
}

// NewLexer starts lexing src and primes the cursor with the first token.
func NewLexer(src io.Reader) *Lexer {
	ch := make(chan token)
	ls := &lexState{src: bufio.NewReader(src), tokens: ch, line: 1, col: 1}
	go ls.run()
	l := &Lexer{tokens: ch}
	l.Advance()
	return l
}

// Current returns the token under the cursor without consuming it.
func (l *Lexer) Current() token {
	return l.cur
}

// Err returns the first lexer error encountered, if any.
func (l *Lexer) Err() error {
	return l.err
}

// Advance consumes the current token and returns the new one. Once an Eof
// or bad token has been returned, further calls keep returning it.
func (l *Lexer) Advance() token {
	if l.err != nil || l.cur.Kind == eofTokenKind {
		return l.cur
	}
	t, ok := <-l.tokens
	if !ok {
		t = token{Kind: eofTokenKind}
	}
	if t.Kind == badTokenKind {
		l.err = t.Err
	}
	l.cur = t
	return l.cur
}

// expect asserts that the current token has the given kind, then advances
// past it. It is total: a mismatch is reported as a ParseError, since by
// the time the parser calls expect, the lexer has already succeeded in
// tokenizing — what failed is the grammar, not the lexical scan.
func (l *Lexer) expect(kind tokenKind) (token, error) {
	if l.err != nil {
		return token{}, l.err
	}
	cur := l.cur
	if cur.Kind != kind {
		return token{}, &ParseError{Line: cur.Line, Col: cur.Col, Msg: "expected " + token{Kind: kind}.String() + ", got " + cur.String()}
	}
	l.Advance()
	if l.err != nil {
		return token{}, l.err
	}
	return cur, nil
}

// expectChar asserts that the current token is a Char with the given byte
// value, then advances past it.
func (l *Lexer) expectChar(c byte) (token, error) {
	if l.err != nil {
		return token{}, l.err
	}
	cur := l.cur
	if cur.Kind != charTokenKind || cur.Char != c {
		return token{}, &ParseError{Line: cur.Line, Col: cur.Col, Msg: "expected '" + string(c) + "', got " + cur.String()}
	}
	l.Advance()
	if l.err != nil {
		return token{}, l.err
	}
	return cur, nil
}

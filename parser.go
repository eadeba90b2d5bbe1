package mython

import "fmt"

// Parser is a recursive-descent parser driven directly by a Lexer cursor.
// It keeps its own symbol table of class names seen so far, separate from
// the runtime closure that ClassDefinition installs into at evaluation
// time: classes are materialized here, eagerly, the moment their class
// statement is parsed, exactly so that a later Id(args) can be told apart
// from a method call without needing more than the one token of lexer
// look-ahead the grammar otherwise requires.
type Parser struct {
	lex     *Lexer
	classes map[string]*Class
}

// NewParser returns a parser reading tokens from lex.
func NewParser(lex *Lexer) *Parser {
	return &Parser{lex: lex, classes: map[string]*Class{}}
}

// Parse parses the whole token stream of lex as a Mython program.
func Parse(lex *Lexer) (*Compound, error) {
	return NewParser(lex).ParseProgram()
}

// ParseProgram parses the whole token stream as a sequence of top-level
// statements, per the program production.
func (p *Parser) ParseProgram() (*Compound, error) {
	var stmts []Statement
	for {
		if p.lex.Err() != nil {
			return nil, p.lex.Err()
		}
		if p.lex.Current().Kind == eofTokenKind {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return &Compound{Stmts: stmts}, nil
}

func (p *Parser) parseStatement() (Statement, error) {
	cur := p.lex.Current()
	switch cur.Kind {
	case classTokenKind:
		return p.parseClassDef()
	case defTokenKind:
		return nil, &ParseError{Line: cur.Line, Col: cur.Col, Msg: "def is only valid inside a class body"}
	case ifTokenKind:
		return p.parseIfStmt()
	default:
		stmt, err := p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.lex.expect(newlineTokenKind); err != nil {
			return nil, err
		}
		return stmt, nil
	}
}

// parseSuite parses Newline Indent { statement } Dedent.
func (p *Parser) parseSuite() (*Compound, error) {
	if _, err := p.lex.expect(newlineTokenKind); err != nil {
		return nil, err
	}
	if _, err := p.lex.expect(indentTokenKind); err != nil {
		return nil, err
	}
	var stmts []Statement
	for p.lex.Current().Kind != dedentTokenKind {
		if p.lex.Err() != nil {
			return nil, p.lex.Err()
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.lex.expect(dedentTokenKind); err != nil {
		return nil, err
	}
	return &Compound{Stmts: stmts}, nil
}

func (p *Parser) parseIfStmt() (Statement, error) {
	if _, err := p.lex.expect(ifTokenKind); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.expectChar(':'); err != nil {
		return nil, err
	}
	thenBody, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	var elseBody Statement
	if p.lex.Current().Kind == elseTokenKind {
		if _, err := p.lex.expect(elseTokenKind); err != nil {
			return nil, err
		}
		if _, err := p.lex.expectChar(':'); err != nil {
			return nil, err
		}
		body, err := p.parseSuite()
		if err != nil {
			return nil, err
		}
		elseBody = body
	}
	return IfElse{Cond: cond, Then: thenBody, Else: elseBody}, nil
}

// parseClassDef builds the Class eagerly and registers it under its name
// before parsing its methods, so a method body may refer to its own class
// by name (e.g. to build more instances of it).
func (p *Parser) parseClassDef() (Statement, error) {
	if _, err := p.lex.expect(classTokenKind); err != nil {
		return nil, err
	}
	nameTok, err := p.lex.expect(idTokenKind)
	if err != nil {
		return nil, err
	}
	var parent *Class
	if cur := p.lex.Current(); cur.Kind == charTokenKind && cur.Char == '(' {
		if _, err := p.lex.expectChar('('); err != nil {
			return nil, err
		}
		parentTok, err := p.lex.expect(idTokenKind)
		if err != nil {
			return nil, err
		}
		found, ok := p.classes[parentTok.Text]
		if !ok {
			return nil, &ParseError{Line: parentTok.Line, Col: parentTok.Col, Msg: "unknown base class " + parentTok.Text}
		}
		parent = found
		if _, err := p.lex.expectChar(')'); err != nil {
			return nil, err
		}
	}
	if _, err := p.lex.expectChar(':'); err != nil {
		return nil, err
	}
	if _, err := p.lex.expect(newlineTokenKind); err != nil {
		return nil, err
	}
	if _, err := p.lex.expect(indentTokenKind); err != nil {
		return nil, err
	}

	class := newClass(nameTok.Text, parent)
	p.classes[nameTok.Text] = class
	for p.lex.Current().Kind == defTokenKind {
		m, err := p.parseMethod()
		if err != nil {
			return nil, err
		}
		class.addMethod(m)
	}
	if _, err := p.lex.expect(dedentTokenKind); err != nil {
		return nil, err
	}
	return ClassDefinition{Class: class}, nil
}

// parseMethod parses a single def_stmt. The first declared parameter is
// always the receiver: it is stripped from Params and bound under the
// literal name "self" by callMethod, matching the retrieved original
// implementation's ClassInstance::Call, which hard-codes "self" rather
// than using the written parameter's name.
func (p *Parser) parseMethod() (*Method, error) {
	if _, err := p.lex.expect(defTokenKind); err != nil {
		return nil, err
	}
	nameTok, err := p.lex.expect(idTokenKind)
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.expectChar('('); err != nil {
		return nil, err
	}
	var params []string
	if p.lex.Current().Kind == idTokenKind {
		tok, err := p.lex.expect(idTokenKind)
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Text)
		for cur := p.lex.Current(); cur.Kind == charTokenKind && cur.Char == ','; cur = p.lex.Current() {
			if _, err := p.lex.expectChar(','); err != nil {
				return nil, err
			}
			tok, err := p.lex.expect(idTokenKind)
			if err != nil {
				return nil, err
			}
			params = append(params, tok.Text)
		}
	}
	if _, err := p.lex.expectChar(')'); err != nil {
		return nil, err
	}
	if _, err := p.lex.expectChar(':'); err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	var formal []string
	if len(params) > 0 {
		formal = params[1:]
	}
	return &Method{Name: nameTok.Text, Params: formal, Body: &MethodBody{Body: body}}, nil
}

func (p *Parser) parseSimpleStmt() (Statement, error) {
	switch p.lex.Current().Kind {
	case printTokenKind:
		return p.parsePrintStmt()
	case returnTokenKind:
		return p.parseReturnStmt()
	default:
		return p.parseAssignOrExpr()
	}
}

func (p *Parser) parsePrintStmt() (Statement, error) {
	tok, err := p.lex.expect(printTokenKind)
	if err != nil {
		return nil, err
	}
	var args []Statement
	if p.lex.Current().Kind != newlineTokenKind {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
		for cur := p.lex.Current(); cur.Kind == charTokenKind && cur.Char == ','; cur = p.lex.Current() {
			if _, err := p.lex.expectChar(','); err != nil {
				return nil, err
			}
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, expr)
		}
	}
	return Print{Args: args, Line: tok.Line, Col: tok.Col}, nil
}

func (p *Parser) parseReturnStmt() (Statement, error) {
	if _, err := p.lex.expect(returnTokenKind); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return Return{Expr: expr}, nil
}

// parseAssignOrExpr implements assign_or_expr. A leading Id is eagerly
// read as a full dotted_id; if '=' follows immediately, it is an
// assignment target (one segment: local; two: a field). Otherwise the
// dotted_id already consumed becomes the seed the rest of the expression
// grammar resumes from, via continueFromFactor.
func (p *Parser) parseAssignOrExpr() (Statement, error) {
	if p.lex.Current().Kind != idTokenKind {
		return p.parseExpr()
	}
	path, line, col, err := p.parseDottedIdRaw()
	if err != nil {
		return nil, err
	}
	if cur := p.lex.Current(); cur.Kind == charTokenKind && cur.Char == '=' {
		p.lex.Advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		switch len(path) {
		case 1:
			return Assignment{Name: path[0], RHS: rhs}, nil
		case 2:
			return FieldAssignment{Object: VariableValue{Path: path[:1], Line: line, Col: col}, Field: path[1], RHS: rhs, Line: line, Col: col}, nil
		default:
			return nil, &ParseError{Line: cur.Line, Col: cur.Col, Msg: "assignment target must be a name or a single field access"}
		}
	}
	atom, err := p.continueAtomFromPath(path, line, col)
	if err != nil {
		return nil, err
	}
	return p.continueFromFactor(atom)
}

func (p *Parser) parseDottedIdRaw() ([]string, int, int, error) {
	tok, err := p.lex.expect(idTokenKind)
	if err != nil {
		return nil, 0, 0, err
	}
	line, col := tok.Line, tok.Col
	path := []string{tok.Text}
	for cur := p.lex.Current(); cur.Kind == charTokenKind && cur.Char == '.'; cur = p.lex.Current() {
		if _, err := p.lex.expectChar('.'); err != nil {
			return nil, 0, 0, err
		}
		idTok, err := p.lex.expect(idTokenKind)
		if err != nil {
			return nil, 0, 0, err
		}
		path = append(path, idTok.Text)
	}
	return path, line, col, nil
}

// continueAtomFromPath finishes the atom production given an already
// consumed dotted_id, positioned at line, col: a following '(' makes it a
// call, which is an instantiation when the path is a single,
// already-declared class name and a method call otherwise (Mython has no
// free functions, so a single-segment call on a non-class name has no
// valid receiver).
func (p *Parser) continueAtomFromPath(path []string, line, col int) (Statement, error) {
	if cur := p.lex.Current(); cur.Kind == charTokenKind && cur.Char == '(' {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if len(path) == 1 {
			if class, ok := p.classes[path[0]]; ok {
				return p.continueTrailers(NewInstance{Class: class, Args: args, Line: line, Col: col})
			}
			if path[0] == "str" && len(args) == 1 {
				return p.continueTrailers(Stringify{Arg: args[0], Line: line, Col: col})
			}
			return nil, &ParseError{Line: cur.Line, Col: cur.Col, Msg: fmt.Sprintf("%s is not a class and has no receiver for a call", path[0])}
		}
		receiver := VariableValue{Path: path[:len(path)-1], Line: line, Col: col}
		return p.continueTrailers(MethodCall{Object: receiver, Name: path[len(path)-1], Args: args, Line: line, Col: col})
	}
	return p.continueTrailers(VariableValue{Path: path, Line: line, Col: col})
}

// continueTrailers chains further '.' Id or '.' Id '(' args ')' onto base,
// which lets a call's result be immediately used as the receiver of
// another method call, as in B().g().
func (p *Parser) continueTrailers(base Statement) (Statement, error) {
	for cur := p.lex.Current(); cur.Kind == charTokenKind && cur.Char == '.'; cur = p.lex.Current() {
		if _, err := p.lex.expectChar('.'); err != nil {
			return nil, err
		}
		nameTok, err := p.lex.expect(idTokenKind)
		if err != nil {
			return nil, err
		}
		if next := p.lex.Current(); next.Kind == charTokenKind && next.Char == '(' {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			base = MethodCall{Object: base, Name: nameTok.Text, Args: args, Line: nameTok.Line, Col: nameTok.Col}
		} else {
			base = FieldAccess{Object: base, Field: nameTok.Text, Line: nameTok.Line, Col: nameTok.Col}
		}
	}
	return base, nil
}

func (p *Parser) parseArgs() ([]Statement, error) {
	if _, err := p.lex.expectChar('('); err != nil {
		return nil, err
	}
	var args []Statement
	if cur := p.lex.Current(); !(cur.Kind == charTokenKind && cur.Char == ')') {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		for cur := p.lex.Current(); cur.Kind == charTokenKind && cur.Char == ','; cur = p.lex.Current() {
			if _, err := p.lex.expectChar(','); err != nil {
				return nil, err
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
	}
	if _, err := p.lex.expectChar(')'); err != nil {
		return nil, err
	}
	return args, nil
}

// The remaining functions implement the or_expr .. atom precedence chain.
// Each parseX parses a fresh X from the current token; each continueX
// takes an already-parsed left operand at that level and resumes the loop
// or optional tail from there, so parseAssignOrExpr can feed in an atom it
// had to parse early for the assignment look-ahead.

func (p *Parser) parseExpr() (Statement, error) {
	first, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	return p.continueOr(first)
}

func (p *Parser) parseAndExpr() (Statement, error) {
	first, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	return p.continueAnd(first)
}

func (p *Parser) parseNotExpr() (Statement, error) {
	if p.lex.Current().Kind == notTokenKind {
		p.lex.Advance()
		inner, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return Not{Arg: inner}, nil
	}
	return p.parseCmp()
}

func (p *Parser) parseCmp() (Statement, error) {
	first, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return p.continueCmp(first)
}

func (p *Parser) parseSum() (Statement, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return p.continueSum(first)
}

func (p *Parser) parseTerm() (Statement, error) {
	first, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return p.continueTerm(first)
}

func (p *Parser) parseFactor() (Statement, error) {
	if cur := p.lex.Current(); cur.Kind == charTokenKind && cur.Char == '-' {
		p.lex.Advance()
		inner, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return Sub{LHS: NumberLiteral{Value: 0}, RHS: inner, Line: cur.Line, Col: cur.Col}, nil
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() (Statement, error) {
	if err := p.lex.Err(); err != nil {
		return nil, err
	}
	cur := p.lex.Current()
	switch cur.Kind {
	case numberTokenKind:
		p.lex.Advance()
		return NumberLiteral{Value: Number(cur.Num)}, nil
	case stringTokenKind:
		p.lex.Advance()
		return StringLiteral{Value: String(cur.Text)}, nil
	case trueTokenKind:
		p.lex.Advance()
		return BoolLiteral{Value: Bool(true)}, nil
	case falseTokenKind:
		p.lex.Advance()
		return BoolLiteral{Value: Bool(false)}, nil
	case noneTokenKind:
		p.lex.Advance()
		return NoneLiteral{}, nil
	case idTokenKind:
		path, line, col, err := p.parseDottedIdRaw()
		if err != nil {
			return nil, err
		}
		return p.continueAtomFromPath(path, line, col)
	case charTokenKind:
		if cur.Char == '(' {
			p.lex.Advance()
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.lex.expectChar(')'); err != nil {
				return nil, err
			}
			return inner, nil
		}
	}
	return nil, &ParseError{Line: cur.Line, Col: cur.Col, Msg: "unexpected token " + cur.String() + " in expression"}
}

// continueFromFactor resumes the term/sum/cmp/and/or chain given an
// already-parsed factor-level node.
func (p *Parser) continueFromFactor(first Statement) (Statement, error) {
	term, err := p.continueTerm(first)
	if err != nil {
		return nil, err
	}
	sum, err := p.continueSum(term)
	if err != nil {
		return nil, err
	}
	cmp, err := p.continueCmp(sum)
	if err != nil {
		return nil, err
	}
	and, err := p.continueAnd(cmp)
	if err != nil {
		return nil, err
	}
	return p.continueOr(and)
}

func (p *Parser) continueTerm(first Statement) (Statement, error) {
	result := first
	for {
		cur := p.lex.Current()
		if cur.Kind != charTokenKind || (cur.Char != '*' && cur.Char != '/') {
			return result, nil
		}
		p.lex.Advance()
		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		if cur.Char == '*' {
			result = Mult{LHS: result, RHS: rhs, Line: cur.Line, Col: cur.Col}
		} else {
			result = Div{LHS: result, RHS: rhs, Line: cur.Line, Col: cur.Col}
		}
	}
}

func (p *Parser) continueSum(first Statement) (Statement, error) {
	result := first
	for {
		cur := p.lex.Current()
		if cur.Kind != charTokenKind || (cur.Char != '+' && cur.Char != '-') {
			return result, nil
		}
		p.lex.Advance()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if cur.Char == '+' {
			result = Add{LHS: result, RHS: rhs, Line: cur.Line, Col: cur.Col}
		} else {
			result = Sub{LHS: result, RHS: rhs, Line: cur.Line, Col: cur.Col}
		}
	}
}

func (p *Parser) continueCmp(first Statement) (Statement, error) {
	cur := p.lex.Current()
	var cmp comparator
	switch {
	case cur.Kind == eqTokenKind:
		cmp = eqComparator
	case cur.Kind == notEqTokenKind:
		cmp = notEqComparator
	case cur.Kind == lessOrEqTokenKind:
		cmp = lessOrEqComparator
	case cur.Kind == greaterOrEqTokenKind:
		cmp = greaterOrEqComparator
	case cur.Kind == charTokenKind && cur.Char == '<':
		cmp = lessComparator
	case cur.Kind == charTokenKind && cur.Char == '>':
		cmp = greaterComparator
	default:
		return first, nil
	}
	p.lex.Advance()
	rhs, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return Comparison{LHS: first, RHS: rhs, Cmp: cmp, Line: cur.Line, Col: cur.Col}, nil
}

func (p *Parser) continueAnd(first Statement) (Statement, error) {
	result := first
	for p.lex.Current().Kind == andTokenKind {
		p.lex.Advance()
		rhs, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		result = And{LHS: result, RHS: rhs}
	}
	return result, nil
}

func (p *Parser) continueOr(first Statement) (Statement, error) {
	result := first
	for p.lex.Current().Kind == orTokenKind {
		p.lex.Advance()
		rhs, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		result = Or{LHS: result, RHS: rhs}
	}
	return result, nil
}

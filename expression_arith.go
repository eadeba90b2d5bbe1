package mython

// Add, Sub, Mult, Div implement Mython's arithmetic rules: Sub, Mult, and
// Div are defined only on two Numbers; Add is additionally defined on two
// Strings (concatenation) and on a left ClassInstance that implements
// __add__ with arity 1.

type Add struct {
	LHS, RHS  Statement
	Line, Col int
}

func (a Add) Execute(closure *Closure, ctx *Context) (Holder, error) {
	l, r, err := evalPair(a.LHS, a.RHS, closure, ctx)
	if err != nil {
		return None, err
	}
	switch lv := l.(type) {
	case Number:
		if rv, ok := r.(Number); ok {
			return NewHolder(lv + rv), nil
		}
	case String:
		if rv, ok := r.(String); ok {
			return NewHolder(lv + rv), nil
		}
	case *ClassInstance:
		if r != nil {
			if m, ok := lv.Class.Lookup("__add__", 1); ok {
				return callMethod(ctx, lv, m, []Holder{NewHolder(r)})
			}
		}
	}
	return None, newRuntimeErrorf(a.Line, a.Col, "cannot add %s and %s", describeType(l), describeType(r))
}

type Sub struct {
	LHS, RHS  Statement
	Line, Col int
}

func (s Sub) Execute(closure *Closure, ctx *Context) (Holder, error) {
	l, r, err := evalPair(s.LHS, s.RHS, closure, ctx)
	if err != nil {
		return None, err
	}
	lv, ok1 := l.(Number)
	rv, ok2 := r.(Number)
	if !ok1 || !ok2 {
		return None, newRuntimeErrorf(s.Line, s.Col, "cannot subtract %s and %s", describeType(l), describeType(r))
	}
	return NewHolder(lv - rv), nil
}

type Mult struct {
	LHS, RHS  Statement
	Line, Col int
}

func (m Mult) Execute(closure *Closure, ctx *Context) (Holder, error) {
	l, r, err := evalPair(m.LHS, m.RHS, closure, ctx)
	if err != nil {
		return None, err
	}
	lv, ok1 := l.(Number)
	rv, ok2 := r.(Number)
	if !ok1 || !ok2 {
		return None, newRuntimeErrorf(m.Line, m.Col, "cannot multiply %s and %s", describeType(l), describeType(r))
	}
	return NewHolder(lv * rv), nil
}

type Div struct {
	LHS, RHS  Statement
	Line, Col int
}

func (d Div) Execute(closure *Closure, ctx *Context) (Holder, error) {
	l, r, err := evalPair(d.LHS, d.RHS, closure, ctx)
	if err != nil {
		return None, err
	}
	lv, ok1 := l.(Number)
	rv, ok2 := r.(Number)
	if !ok1 || !ok2 {
		return None, newRuntimeErrorf(d.Line, d.Col, "cannot divide %s and %s", describeType(l), describeType(r))
	}
	if rv == 0 {
		return None, newRuntimeErrorf(d.Line, d.Col, "division by zero")
	}
	return NewHolder(lv / rv), nil
}

func evalPair(lhs, rhs Statement, closure *Closure, ctx *Context) (Object, Object, error) {
	lh, err := lhs.Execute(closure, ctx)
	if err != nil {
		return nil, nil, err
	}
	rh, err := rhs.Execute(closure, ctx)
	if err != nil {
		return nil, nil, err
	}
	return lh.Value(), rh.Value(), nil
}

// Stringify prints its operand into a text buffer using the same rules as
// print and wraps the buffer as a String.
type Stringify struct {
	Arg       Statement
	Line, Col int
}

func (s Stringify) Execute(closure *Closure, ctx *Context) (Holder, error) {
	h, err := s.Arg.Execute(closure, ctx)
	if err != nil {
		return None, err
	}
	text, err := stringify(ctx, h.Value(), s.Line, s.Col)
	if err != nil {
		return None, err
	}
	return NewHolder(String(text)), nil
}

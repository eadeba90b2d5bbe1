package mython

// Print evaluates each argument in order, renders it with the same rules
// as Stringify, separates arguments with a single space, and terminates
// the line with \n. Zero arguments prints a bare newline.
type Print struct {
	Args      []Statement
	Line, Col int
}

func (p Print) Execute(closure *Closure, ctx *Context) (Holder, error) {
	for i, arg := range p.Args {
		if i > 0 {
			if _, err := ctx.Output.Write([]byte(" ")); err != nil {
				return None, err
			}
		}
		h, err := arg.Execute(closure, ctx)
		if err != nil {
			return None, err
		}
		if err := writeValue(ctx.Output, ctx, h.Value(), p.Line, p.Col); err != nil {
			return None, err
		}
	}
	_, err := ctx.Output.Write([]byte("\n"))
	return None, err
}

// Return evaluates Expr and propagates its value as a control-flow signal
// rather than an ordinary result.
type Return struct {
	Expr Statement
}

func (r Return) Execute(closure *Closure, ctx *Context) (Holder, error) {
	h, err := r.Expr.Execute(closure, ctx)
	if err != nil {
		return None, err
	}
	return None, &returnSignal{value: h.Value()}
}

// IfElse evaluates Cond; if truthy it evaluates Then, otherwise Else (when
// present). Its result is only observed when a return inside one of the
// branches needs to propagate — IfElse itself yields None on the
// non-returning path, since both Then and Else are Compounds.
type IfElse struct {
	Cond       Statement
	Then, Else Statement
}

func (i IfElse) Execute(closure *Closure, ctx *Context) (Holder, error) {
	h, err := i.Cond.Execute(closure, ctx)
	if err != nil {
		return None, err
	}
	if IsTrue(h.Value()) {
		return i.Then.Execute(closure, ctx)
	}
	if i.Else != nil {
		return i.Else.Execute(closure, ctx)
	}
	return None, nil
}

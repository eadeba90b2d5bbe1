package mython

// MethodCall evaluates Object, requires it to be a ClassInstance with a
// method named Name whose arity matches len(Args), evaluates the arguments
// left to right, then invokes it.
type MethodCall struct {
	Object    Statement
	Name      string
	Args      []Statement
	Line, Col int
}

func (c MethodCall) Execute(closure *Closure, ctx *Context) (Holder, error) {
	objHolder, err := c.Object.Execute(closure, ctx)
	if err != nil {
		return None, err
	}
	inst, ok := objHolder.Value().(*ClassInstance)
	if !ok {
		return None, newRuntimeErrorf(c.Line, c.Col, "cannot call a method on %s, not an instance", describeType(objHolder.Value()))
	}
	m, ok := inst.Class.Lookup(c.Name, len(c.Args))
	if !ok {
		return None, newRuntimeErrorf(c.Line, c.Col, "%s has no method %s taking %d argument(s)", inst.Class.Name, c.Name, len(c.Args))
	}
	args, err := evalArgs(c.Args, closure, ctx)
	if err != nil {
		return None, err
	}
	return callMethod(ctx, inst, m, args)
}

// NewInstance creates a fresh ClassInstance of Class and, when __init__
// exists with matching arity, calls it with the evaluated arguments. It is
// only ever constructed by the parser for a call written with parentheses;
// a bare class name parses to a VariableValue referencing the Class object
// instead.
type NewInstance struct {
	Class     *Class
	Args      []Statement
	Line, Col int
}

func (n NewInstance) Execute(closure *Closure, ctx *Context) (Holder, error) {
	inst := newInstance(n.Class)
	m, ok := n.Class.Lookup("__init__", len(n.Args))
	if !ok {
		if len(n.Args) == 0 {
			return NewHolder(inst), nil
		}
		return None, newRuntimeErrorf(n.Line, n.Col, "%s has no __init__ taking %d argument(s)", n.Class.Name, len(n.Args))
	}
	args, err := evalArgs(n.Args, closure, ctx)
	if err != nil {
		return None, err
	}
	if _, err := callMethod(ctx, inst, m, args); err != nil {
		return None, err
	}
	return NewHolder(inst), nil
}

func evalArgs(exprs []Statement, closure *Closure, ctx *Context) ([]Holder, error) {
	args := make([]Holder, len(exprs))
	for i, e := range exprs {
		h, err := e.Execute(closure, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = h
	}
	return args, nil
}

// callMethod builds a fresh closure with self bound to a non-owning share
// of the receiver and each formal parameter bound to the matching
// evaluated argument, then runs the method's MethodBody, which is what
// actually catches the return signal.
func callMethod(ctx *Context, receiver *ClassInstance, m *Method, args []Holder) (Holder, error) {
	local := NewClosure()
	local.Set("self", NewHolder(receiver).Share())
	for i, name := range m.Params {
		local.Set(name, args[i])
	}
	return m.Body.Execute(local, ctx)
}

// MethodBody wraps a method's statement tree so that a return exits only
// that method. It is the sole place that recognizes and strips a
// returnSignal.
type MethodBody struct {
	Body Statement
}

func (b *MethodBody) Execute(closure *Closure, ctx *Context) (Holder, error) {
	_, err := b.Body.Execute(closure, ctx)
	if err == nil {
		return None, nil
	}
	if v, ok := asReturn(err); ok {
		return NewHolder(v), nil
	}
	return None, err
}

package mython

// VariableValue resolves a dotted path rooted at a name already bound in
// the enclosing closure: path[0] is looked up in the closure, and every
// following segment is a field on the current ClassInstance.
type VariableValue struct {
	Path      []string
	Line, Col int
}

func (v VariableValue) Execute(closure *Closure, ctx *Context) (Holder, error) {
	h, ok := closure.Get(v.Path[0])
	if !ok {
		return None, newRuntimeErrorf(v.Line, v.Col, "there is not a variable with a name: %s", v.Path[0])
	}
	for _, field := range v.Path[1:] {
		inst, ok := h.Value().(*ClassInstance)
		if !ok {
			return None, newRuntimeErrorf(v.Line, v.Col, "%s has no field %q", describeType(h.Value()), field)
		}
		h, ok = inst.Fields.Get(field)
		if !ok {
			return None, newRuntimeErrorf(v.Line, v.Col, "instance of %s has no field %q", inst.Class.Name, field)
		}
	}
	return h, nil
}

// FieldAccess reads a field out of an arbitrary expression's result,
// generalizing VariableValue's identifier-rooted path to the result of a
// call (needed for chains like B().g() followed by a further .field).
type FieldAccess struct {
	Object    Statement
	Field     string
	Line, Col int
}

func (f FieldAccess) Execute(closure *Closure, ctx *Context) (Holder, error) {
	h, err := f.Object.Execute(closure, ctx)
	if err != nil {
		return None, err
	}
	inst, ok := h.Value().(*ClassInstance)
	if !ok {
		return None, newRuntimeErrorf(f.Line, f.Col, "%s has no field %q", describeType(h.Value()), f.Field)
	}
	field, ok := inst.Fields.Get(f.Field)
	if !ok {
		return None, newRuntimeErrorf(f.Line, f.Col, "instance of %s has no field %q", inst.Class.Name, f.Field)
	}
	return field, nil
}

// Assignment evaluates RHS and binds it to Name in the local closure,
// insert-or-replace, returning the stored value.
type Assignment struct {
	Name string
	RHS  Statement
}

func (a Assignment) Execute(closure *Closure, ctx *Context) (Holder, error) {
	h, err := a.RHS.Execute(closure, ctx)
	if err != nil {
		return None, err
	}
	closure.Set(a.Name, h)
	return h, nil
}

// FieldAssignment resolves Object to a ClassInstance and assigns RHS into
// its Fields under Field, insert-or-replace.
type FieldAssignment struct {
	Object    VariableValue
	Field     string
	RHS       Statement
	Line, Col int
}

func (f FieldAssignment) Execute(closure *Closure, ctx *Context) (Holder, error) {
	h, err := f.RHS.Execute(closure, ctx)
	if err != nil {
		return None, err
	}
	obj, err := f.Object.Execute(closure, ctx)
	if err != nil {
		return None, err
	}
	inst, ok := obj.Value().(*ClassInstance)
	if !ok {
		return None, newRuntimeErrorf(f.Line, f.Col, "cannot assign a field on %s", describeType(obj.Value()))
	}
	inst.Fields.Set(f.Field, h)
	return h, nil
}

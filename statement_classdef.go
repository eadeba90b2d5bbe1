package mython

// ClassDefinition installs a Class, already fully materialized by the
// parser, into the closure under its declared name. The parser builds the
// Class eagerly so that later statements in the same program can refer to
// it by name; this node's only job at evaluation time is the
// insert-or-replace into the runtime closure that Execute, not the parser,
// owns.
type ClassDefinition struct {
	Class *Class
}

func (c ClassDefinition) Execute(closure *Closure, ctx *Context) (Holder, error) {
	closure.Set(c.Class.Name, NewHolder(c.Class))
	return None, nil
}

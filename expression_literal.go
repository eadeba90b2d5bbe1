package mython

// NumberLiteral, StringLiteral, BoolLiteral, and NoneLiteral are the atom
// productions that carry a value baked in at parse time.

type NumberLiteral struct{ Value Number }

func (n NumberLiteral) Execute(*Closure, *Context) (Holder, error) {
	return NewHolder(n.Value), nil
}

type StringLiteral struct{ Value String }

func (s StringLiteral) Execute(*Closure, *Context) (Holder, error) {
	return NewHolder(s.Value), nil
}

type BoolLiteral struct{ Value Bool }

func (b BoolLiteral) Execute(*Closure, *Context) (Holder, error) {
	return NewHolder(b.Value), nil
}

type NoneLiteral struct{}

func (NoneLiteral) Execute(*Closure, *Context) (Holder, error) {
	return None, nil
}

package mython

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/zephyrtronium/contains"
)

// Object is any Mython runtime value: Number, String, Bool, *Class, or
// *ClassInstance. Mython's None is represented by a nil Object, not by a
// distinct concrete type — see Holder.
type Object interface {
	// typeName identifies the concrete kind for error messages.
	typeName() string
}

// Number is a 32-bit signed integer value, Mython's only numeric type.
type Number int32

func (Number) typeName() string { return "int" }

// String is a Mython string value.
type String string

func (String) typeName() string { return "str" }

// Bool is a Mython boolean value.
type Bool bool

func (Bool) typeName() string { return "bool" }

// Method is a named, owned statement tree with an ordered parameter list.
// Its first parameter position is implicitly self; self is never listed in
// Params (it is bound separately by callMethod in expression_call.go).
type Method struct {
	Name   string
	Params []string
	Body   *MethodBody
}

// Class is a Mython class: an ordered table of methods and an optional
// parent to search when a method is not found locally.
type Class struct {
	Name    string
	order   []string
	methods map[string]*Method
	Parent  *Class
}

func newClass(name string, parent *Class) *Class {
	return &Class{Name: name, methods: map[string]*Method{}, Parent: parent}
}

func (*Class) typeName() string { return "class" }

// addMethod installs m, preserving declaration order for Methods.
func (c *Class) addMethod(m *Method) {
	if _, exists := c.methods[m.Name]; !exists {
		c.order = append(c.order, m.Name)
	}
	c.methods[m.Name] = m
}

// Methods returns the class's own methods in declaration order (the parent
// chain is not included).
func (c *Class) Methods() []*Method {
	ms := make([]*Method, len(c.order))
	for i, name := range c.order {
		ms[i] = c.methods[name]
	}
	return ms
}

// Lookup searches c's own methods, then its parent chain, for a method
// named name with exactly arity parameters. The contains.Set guards against
// a cyclic parent chain, keyed on the pointer identity of each class visited
// so no allocation-based identifier is needed. No such cycle can actually
// arise from parsing a program, since a class's parent must already exist
// by name when the class is declared, but the guard costs little to keep.
func (c *Class) Lookup(name string, arity int) (*Method, bool) {
	visited := contains.Set{}
	for cur := c; cur != nil; cur = cur.Parent {
		if !visited.Add(uintptr(unsafe.Pointer(cur))) {
			break
		}
		if m, ok := cur.methods[name]; ok && len(m.Params) == arity {
			return m, true
		}
	}
	return nil, false
}

// ClassInstance is a Mython object: a reference to the Class that produced
// it and a closure of instance fields.
type ClassInstance struct {
	Class  *Class
	Fields *Closure
}

func newInstance(class *Class) *ClassInstance {
	return &ClassInstance{Class: class, Fields: NewClosure()}
}

func (*ClassInstance) typeName() string { return "instance" }

// Holder is a handle to an Object. Go's garbage collector already does the
// work a reference-counted handle would otherwise be for: no construction in
// Mython can create a reference cycle, since classes never reference
// instances and class parent links are resolved once, by name, at parse
// time, to classes that already exist. Holder therefore carries no count of
// its own; Share exists only to document, at each call site, that the value
// being passed is a borrowed alias (most prominently self, bound into a
// method call's local closure) rather than a freshly produced value.
type Holder struct {
	value Object
}

// NewHolder wraps v as an owning holder. A nil v represents None.
func NewHolder(v Object) Holder { return Holder{value: v} }

// None is the holder representing Mython's None.
var None = Holder{}

// Share returns a non-owning alias of h. Owning and non-owning holders are
// representationally identical here; see the Holder doc comment.
func (h Holder) Share() Holder { return h }

// IsNone reports whether h holds no value.
func (h Holder) IsNone() bool { return h.value == nil }

// Value returns the held Object, or nil if h is None.
func (h Holder) Value() Object { return h.value }

// Closure maps identifiers to holders. It backs both the root scope and
// every per-call local scope.
type Closure struct {
	vars map[string]Holder
}

// NewClosure returns an empty closure.
func NewClosure() *Closure {
	return &Closure{vars: map[string]Holder{}}
}

// Get looks up name, reporting whether it is bound.
func (c *Closure) Get(name string) (Holder, bool) {
	h, ok := c.vars[name]
	return h, ok
}

// Set installs or replaces the binding for name.
func (c *Closure) Set(name string, h Holder) {
	c.vars[name] = h
}

// Context is the thin collaborator that every Execute call threads through;
// its sole service is the output sink that print writes to.
type Context struct {
	Output io.Writer
}

// IsTrue reports whether v counts as true in a condition: nonzero numbers,
// nonempty strings, and true booleans are true, everything else, including
// None and every Class and ClassInstance, is false. Classes and instances
// being always-false is a deliberate divergence from Python.
func IsTrue(v Object) bool {
	switch v := v.(type) {
	case nil:
		return false
	case Bool:
		return bool(v)
	case Number:
		return v != 0
	case String:
		return v != ""
	default:
		return false
	}
}

// writeValue writes v's textual form to w. A
// ClassInstance with a zero-arg __str__ delegates to it; otherwise it
// prints an implementation-defined identity. Named apart from the Print
// statement type (statement_control.go), which is what Mython source
// actually calls this through. line and col position any RuntimeError
// writeValue itself raises, at the call site that asked it to render v.
func writeValue(w io.Writer, ctx *Context, v Object, line, col int) error {
	s, err := stringify(ctx, v, line, col)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// stringify renders v the way writeValue does, but to a string rather than
// a writer; it backs both writeValue and the unary Stringify expression.
func stringify(ctx *Context, v Object, line, col int) (string, error) {
	switch v := v.(type) {
	case nil:
		return "None", nil
	case Bool:
		if v {
			return "True", nil
		}
		return "False", nil
	case Number:
		return fmt.Sprintf("%d", int32(v)), nil
	case String:
		return string(v), nil
	case *Class:
		return "Class " + v.Name, nil
	case *ClassInstance:
		if m, ok := v.Class.Lookup("__str__", 0); ok {
			result, err := callMethod(ctx, v, m, nil)
			if err != nil {
				return "", err
			}
			s, ok := result.Value().(String)
			if !ok {
				return "", newRuntimeErrorf(line, col, "__str__ must return a str")
			}
			return string(s), nil
		}
		return fmt.Sprintf("<%s instance>", v.Class.Name), nil
	default:
		return "", newRuntimeErrorf(line, col, "cannot print value of type %T", v)
	}
}

// Equal reports whether a and b are equal: reflexive on primitives, None
// equals only None, and a ClassInstance with a one-arg __eq__ delegates to
// it. Comparing across kinds, or comparing None against anything else, is a
// RuntimeError rather than simply false. line and col position the
// comparison that called Equal, for any RuntimeError it raises.
func Equal(ctx *Context, a, b Object, line, col int) (bool, error) {
	if a == nil && b == nil {
		return true, nil
	}
	if a == nil || b == nil {
		return false, newRuntimeErrorf(line, col, "cannot compare %s and %s", describeType(a), describeType(b))
	}
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return false, newRuntimeErrorf(line, col, "cannot compare %s and %s", a.typeName(), b.typeName())
		}
		return av == bv, nil
	case String:
		bv, ok := b.(String)
		if !ok {
			return false, newRuntimeErrorf(line, col, "cannot compare %s and %s", a.typeName(), b.typeName())
		}
		return av == bv, nil
	case Bool:
		bv, ok := b.(Bool)
		if !ok {
			return false, newRuntimeErrorf(line, col, "cannot compare %s and %s", a.typeName(), b.typeName())
		}
		return av == bv, nil
	case *ClassInstance:
		if m, ok := av.Class.Lookup("__eq__", 1); ok {
			result, err := callMethod(ctx, av, m, []Holder{NewHolder(b)})
			if err != nil {
				return false, err
			}
			bv, ok := result.Value().(Bool)
			if !ok {
				return false, newRuntimeErrorf(line, col, "__eq__ must return a bool")
			}
			return bool(bv), nil
		}
		return false, newRuntimeErrorf(line, col, "type %s has no __eq__", a.typeName())
	default:
		return false, newRuntimeErrorf(line, col, "cannot compare %s and %s", a.typeName(), b.typeName())
	}
}

// Less reports whether a orders before b: defined on pairs of the same
// primitive kind, and on a left ClassInstance with a one-arg __lt__. line
// and col position the comparison that called Less, for any RuntimeError it
// raises.
func Less(ctx *Context, a, b Object, line, col int) (bool, error) {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return false, newRuntimeErrorf(line, col, "cannot order %s and %s", describeType(a), describeType(b))
		}
		return av < bv, nil
	case String:
		bv, ok := b.(String)
		if !ok {
			return false, newRuntimeErrorf(line, col, "cannot order %s and %s", describeType(a), describeType(b))
		}
		return av < bv, nil
	case Bool:
		bv, ok := b.(Bool)
		if !ok {
			return false, newRuntimeErrorf(line, col, "cannot order %s and %s", describeType(a), describeType(b))
		}
		return !bool(av) && bool(bv), nil
	case *ClassInstance:
		if m, ok := av.Class.Lookup("__lt__", 1); ok {
			result, err := callMethod(ctx, av, m, []Holder{NewHolder(b)})
			if err != nil {
				return false, err
			}
			bv, ok := result.Value().(Bool)
			if !ok {
				return false, newRuntimeErrorf(line, col, "__lt__ must return a bool")
			}
			return bool(bv), nil
		}
		return false, newRuntimeErrorf(line, col, "type %s has no __lt__", a.typeName())
	default:
		return false, newRuntimeErrorf(line, col, "cannot order %s and %s", describeType(a), describeType(b))
	}
}

// describeType is a small helper used by error messages across the
// evaluator.
func describeType(v Object) string {
	if v == nil {
		return "NoneType"
	}
	return v.typeName()
}

package mython

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Compound {
	t.Helper()
	prog, err := Parse(NewLexer(strings.NewReader(src)))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return prog
}

func TestParseAssignmentShapes(t *testing.T) {
	t.Run("local assignment", func(t *testing.T) {
		prog := mustParse(t, "x = 1\n")
		if _, ok := prog.Stmts[0].(Assignment); !ok {
			t.Fatalf("got %T, want Assignment", prog.Stmts[0])
		}
	})
	t.Run("field assignment", func(t *testing.T) {
		prog := mustParse(t, "class C:\n  def f(self):\n    self.v = 1\n    return self.v\nc = C()\nc.v = 2\n")
		if _, ok := prog.Stmts[2].(FieldAssignment); !ok {
			t.Fatalf("got %T, want FieldAssignment", prog.Stmts[2])
		}
	})
	t.Run("too many dots is a parse error", func(t *testing.T) {
		_, err := Parse(NewLexer(strings.NewReader("a.b.c = 1\n")))
		if _, ok := err.(*ParseError); !ok {
			t.Fatalf("got %T, want *ParseError", err)
		}
	})
}

func TestParseClassInstantiationVsMethodCall(t *testing.T) {
	src := "class B:\n  def f(self):\n    return 1\nb = B()\nprint b.f()\n"
	prog := mustParse(t, src)
	assign, ok := prog.Stmts[1].(Assignment)
	if !ok {
		t.Fatalf("got %T, want Assignment", prog.Stmts[1])
	}
	if _, ok := assign.RHS.(NewInstance); !ok {
		t.Fatalf("got %T, want NewInstance", assign.RHS)
	}
	print, ok := prog.Stmts[2].(Print)
	if !ok {
		t.Fatalf("got %T, want Print", prog.Stmts[2])
	}
	if _, ok := print.Args[0].(MethodCall); !ok {
		t.Fatalf("got %T, want MethodCall", print.Args[0])
	}
}

func TestParseCallWithoutReceiverIsError(t *testing.T) {
	_, err := Parse(NewLexer(strings.NewReader("foo()\n")))
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("got %T, want *ParseError", err)
	}
}

func TestParseDefOutsideClassIsError(t *testing.T) {
	_, err := Parse(NewLexer(strings.NewReader("def f():\n  return 1\n")))
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("got %T, want *ParseError", err)
	}
}

func TestParseUnknownBaseClassIsError(t *testing.T) {
	_, err := Parse(NewLexer(strings.NewReader("class B(A):\n  def f(self):\n    return 1\n")))
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("got %T, want *ParseError", err)
	}
}

func TestParsePrecedence(t *testing.T) {
	prog := mustParse(t, "print 1 + 2 * 3\n")
	p := prog.Stmts[0].(Print)
	add, ok := p.Args[0].(Add)
	if !ok {
		t.Fatalf("got %T, want Add", p.Args[0])
	}
	if _, ok := add.RHS.(Mult); !ok {
		t.Fatalf("got %T for the right operand, want Mult", add.RHS)
	}
}

func TestParseChainedMethodCall(t *testing.T) {
	src := "class A:\n  def f(self):\n    return 1\nclass B(A):\n  def g(self):\n    return self.f() + 1\nprint B().g()\n"
	prog := mustParse(t, src)
	p := prog.Stmts[2].(Print)
	outer, ok := p.Args[0].(MethodCall)
	if !ok {
		t.Fatalf("got %T, want MethodCall", p.Args[0])
	}
	if _, ok := outer.Object.(NewInstance); !ok {
		t.Fatalf("got %T for the receiver, want NewInstance", outer.Object)
	}
	if outer.Name != "g" {
		t.Fatalf("got method name %q, want g", outer.Name)
	}
}

func TestParseMethodSelfIsStrippedFromParams(t *testing.T) {
	prog := mustParse(t, "class C:\n  def m(self, a, b):\n    return a\n")
	def := prog.Stmts[0].(ClassDefinition)
	m, ok := def.Class.Lookup("m", 2)
	if !ok {
		t.Fatal("expected m to be found with arity 2")
	}
	want := []string{"a", "b"}
	if len(m.Params) != len(want) {
		t.Fatalf("got params %v, want %v", m.Params, want)
	}
	for i := range want {
		if m.Params[i] != want[i] {
			t.Fatalf("got params %v, want %v", m.Params, want)
		}
	}
}

package mython

import "testing"

func TestIsTrue(t *testing.T) {
	cases := map[string]struct {
		v    Object
		want bool
	}{
		"None":         {nil, false},
		"Bool true":    {Bool(true), true},
		"Bool false":   {Bool(false), false},
		"Number zero":  {Number(0), false},
		"Number one":   {Number(1), true},
		"empty str":    {String(""), false},
		"nonempty str": {String("x"), true},
		"class":        {newClass("C", nil), false},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if got := IsTrue(c.v); got != c.want {
				t.Fatalf("IsTrue(%v) = %v, want %v", c.v, got, c.want)
			}
		})
	}
}

func TestEqualPrimitives(t *testing.T) {
	ctx := &Context{}
	cases := []struct {
		a, b Object
		want bool
	}{
		{nil, nil, true},
		{Number(1), Number(1), true},
		{Number(1), Number(2), false},
		{String("a"), String("a"), true},
		{Bool(true), Bool(false), false},
	}
	for _, c := range cases {
		got, err := Equal(ctx, c.a, c.b, 0, 0)
		if err != nil {
			t.Fatalf("Equal(%v, %v) errored: %v", c.a, c.b, err)
		}
		if got != c.want {
			t.Fatalf("Equal(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestEqualMismatchedKindsIsError(t *testing.T) {
	_, err := Equal(&Context{}, Number(1), String("1"), 0, 0)
	if err == nil {
		t.Fatal("expected a runtime error comparing a Number to a String")
	}
}

func TestClassLookupSearchesParentChain(t *testing.T) {
	parent := newClass("Parent", nil)
	parent.addMethod(&Method{Name: "f", Params: nil, Body: &MethodBody{Body: &Compound{}}})
	child := newClass("Child", parent)

	if _, ok := child.Lookup("f", 0); !ok {
		t.Fatal("expected Child.Lookup to find f via the parent")
	}
	if _, ok := child.Lookup("f", 1); ok {
		t.Fatal("expected no match for the wrong arity")
	}
	if _, ok := child.Lookup("missing", 0); ok {
		t.Fatal("expected no match for an absent method")
	}
}

func TestClassMethodsPreservesDeclarationOrder(t *testing.T) {
	c := newClass("C", nil)
	c.addMethod(&Method{Name: "a"})
	c.addMethod(&Method{Name: "b"})
	c.addMethod(&Method{Name: "a"})
	got := c.Methods()
	if len(got) != 2 {
		t.Fatalf("got %d methods, want 2", len(got))
	}
	if got[0].Name != "a" || got[1].Name != "b" {
		t.Fatalf("got order %v, want [a b]", []string{got[0].Name, got[1].Name})
	}
}

func TestHolderNone(t *testing.T) {
	if !None.IsNone() {
		t.Fatal("None.IsNone() = false")
	}
	h := NewHolder(Number(1))
	if h.IsNone() {
		t.Fatal("NewHolder(Number(1)).IsNone() = true")
	}
	if h.Share().Value() != h.Value() {
		t.Fatal("Share changed the held value")
	}
}

package mython

import (
	"bytes"
	"strings"
	"testing"
)

func runProgram(t *testing.T, src string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Run(strings.NewReader(src), &buf); err != nil {
		t.Fatalf("Run(%q) failed: %v", src, err)
	}
	return buf.String()
}

// TestEndToEndScenarios covers the canonical programs that exercise every
// module end to end: arithmetic, string concatenation, a class with
// __init__ and __str__, an if/else, single-parent inheritance, and
// equality dispatched through __eq__.
func TestEndToEndScenarios(t *testing.T) {
	cases := map[string]struct {
		src  string
		want string
	}{
		"add numbers": {
			"print 1 + 2\n",
			"3\n",
		},
		"concatenate strings": {
			"print 'a' + 'b'\n",
			"ab\n",
		},
		"class with init and str": {
			"class X:\n" +
				"  def __init__(self, v):\n" +
				"    self.v = v\n" +
				"  def __str__(self):\n" +
				"    return self.v\n" +
				"x = X('hi')\n" +
				"print x\n",
			"hi\n",
		},
		"if else picks else branch": {
			"if 0:\n  print 1\nelse:\n  print 2\n",
			"2\n",
		},
		"single inheritance": {
			"class A:\n" +
				"  def f(self):\n" +
				"    return 1\n" +
				"class B(A):\n" +
				"  def g(self):\n" +
				"    return self.f() + 1\n" +
				"print B().g()\n",
			"2\n",
		},
		"equality via __eq__": {
			"class P:\n" +
				"  def __init__(self, v):\n" +
				"    self.v = v\n" +
				"  def __eq__(self, o):\n" +
				"    return self.v == o.v\n" +
				"print P(3) == P(3)\n",
			"True\n",
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got := runProgram(t, c.src)
			if got != c.want {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	for _, src := range []string{"print 1/0\n", "print -1/0\n"} {
		var buf bytes.Buffer
		err := Run(strings.NewReader(src), &buf)
		if err == nil {
			t.Fatalf("Run(%q) succeeded, want a runtime error", src)
		}
		if _, ok := err.(*RuntimeError); !ok {
			t.Fatalf("Run(%q) returned %T, want *RuntimeError", src, err)
		}
	}
}

func TestFalsyValues(t *testing.T) {
	cases := map[string]string{
		"zero is falsy":         "if 0:\n  print 1\nelse:\n  print 0\n",
		"empty string is falsy": "if '':\n  print 1\nelse:\n  print 0\n",
		"False is falsy":        "if False:\n  print 1\nelse:\n  print 0\n",
		"instance is falsy":     "class C:\n  def f(self):\n    return 1\nif C():\n  print 1\nelse:\n  print 0\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if got := runProgram(t, src); got != "0\n" {
				t.Fatalf("got %q, want %q", got, "0\n")
			}
		})
	}
}

func TestPrintWithNoArgsEmitsBareNewline(t *testing.T) {
	if got := runProgram(t, "print\n"); got != "\n" {
		t.Fatalf("got %q, want a bare newline", got)
	}
}

func TestPrintMultipleArgsSpaceSeparated(t *testing.T) {
	if got := runProgram(t, "print 1, 'a', True\n"); got != "1 a True\n" {
		t.Fatalf("got %q", got)
	}
}

func TestStringifyMatchesPrintMinusNewline(t *testing.T) {
	if got := runProgram(t, "print str(1)\n"); got != "1\n" {
		t.Fatalf("got %q, want %q", got, "1\n")
	}
	if got := runProgram(t, "print str(1) + str(2)\n"); got != "12\n" {
		t.Fatalf("got %q, want %q", got, "12\n")
	}
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	err := Run(strings.NewReader("print missing\n"), &bytes.Buffer{})
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("got %T, want *RuntimeError", err)
	}
}

func TestRepeatedRunsShareRootClosure(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreter(&buf)
	if err := interp.RunString("class X:\n  def f(self):\n    return 1\nx = X()\n"); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if err := interp.RunString("print x.f()\n"); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if got := buf.String(); got != "1\n" {
		t.Fatalf("got %q, want %q", got, "1\n")
	}
}

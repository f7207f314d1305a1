package eval_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minipy-lang/minipy/internal/eval"
	"github.com/minipy-lang/minipy/internal/parser"
	"github.com/minipy-lang/minipy/internal/value"
)

// wireDispatch installs minimal __op__ dispatchers bound directly to the
// typed int builtins already registered by eval.New. The
// real preamble (internal/preamble) performs type-based dispatch in MiniPy
// itself; these tests exercise the evaluator's operator-through-environment
// mechanism in isolation, grounded on spec §4.5's described contract.
func wireDispatch(t *testing.T, ev *eval.Evaluator) {
	t.Helper()
	g := ev.Global()
	bind := func(op, typed string) {
		fn, ok := g.Get(typed)
		if !ok {
			t.Fatalf("missing builtin %s", typed)
		}
		g.Set(op, fn)
	}
	bind("__add__", "__add_int__")
	bind("__sub__", "__sub_int__")
	bind("__mul__", "__mul_int__")
	bind("__div__", "__div_int__")
	bind("__mod__", "__mod_int__")
	bind("__lt__", "__lt_int__")
	bind("__gt__", "__gt_int__")
	bind("__eq__", "__eq_int__")
	bind("__ne__", "__ne_int__")
	bind("__ge__", "__ge_int__")
	bind("__le__", "__le_int__")
	bind("__neg__", "__neg_int__")
	bind("__pos__", "__pos_int__")
	bind("__invert__", "__invert_int__")
}

func runSrc(t *testing.T, src string) *eval.Evaluator {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.mpy")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p, err := parser.New(path)
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	mod, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	lines := strings.Split(src, "\n")
	ev := eval.New(path, lines)
	wireDispatch(t, ev)
	if err := ev.Run(mod); err != nil {
		t.Fatalf("Run(%q): %v", src, err)
	}
	return ev
}

func TestEvalSimpleArithmetic(t *testing.T) {
	ev := runSrc(t, "x = 1 + 2\n")
	v, ok := ev.Global().Get("x")
	if !ok || v.Int != 3 {
		t.Fatalf("x = %#v, want 3", v)
	}
}

func TestEvalChainedAssignment(t *testing.T) {
	ev := runSrc(t, "a = b = 3\n")
	a, _ := ev.Global().Get("a")
	b, _ := ev.Global().Get("b")
	if a.Int != 3 || b.Int != 3 {
		t.Fatalf("a=%#v b=%#v, want both 3", a, b)
	}
}

func TestEvalChainedCompare(t *testing.T) {
	ev := runSrc(t, "r1 = 1 < 2\nr2 = 2 < 1\n")
	r1, _ := ev.Global().Get("r1")
	r2, _ := ev.Global().Get("r2")
	if !r1.Bool || r2.Bool {
		t.Fatalf("r1=%v r2=%v", r1.Bool, r2.Bool)
	}
}

func TestEvalFuncDefAndCall(t *testing.T) {
	ev := runSrc(t, "def add(a, b):\n    return a + b\nresult = add(2, 3)\n")
	result, ok := ev.Global().Get("result")
	if !ok || result.Int != 5 {
		t.Fatalf("result = %#v, want 5", result)
	}
}

func TestEvalForLoopOverList(t *testing.T) {
	ev := runSrc(t, "total = 0\nfor x in [1, 2, 3]:\n    total = total + x\n")
	total, _ := ev.Global().Get("total")
	if total.Int != 6 {
		t.Fatalf("total = %#v, want 6", total)
	}
}

func TestEvalForLoopOverEmptyStringDoesNotExecute(t *testing.T) {
	ev := runSrc(t, "count = 0\nfor c in \"\":\n    count = 1\n")
	count, _ := ev.Global().Get("count")
	if count.Int != 0 {
		t.Fatalf("count = %#v, want 0 (loop body must not run)", count)
	}
}

func TestEvalWhileLoopWithBreak(t *testing.T) {
	ev := runSrc(t, "i = 0\nwhile True:\n    i = i + 1\n    if i == 3:\n        break\n")
	i, _ := ev.Global().Get("i")
	if i.Int != 3 {
		t.Fatalf("i = %#v, want 3", i)
	}
}

func TestEvalGlobalDeclarationUpdatesGlobal(t *testing.T) {
	src := "x = 1\ndef bump():\n    global x\n    x = x + 1\nbump()\n"
	ev := runSrc(t, src)
	x, _ := ev.Global().Get("x")
	if x.Int != 2 {
		t.Fatalf("x = %#v, want 2", x)
	}
}

func TestEvalNameErrorOnUnboundIdentifier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.mpy")
	src := "print(y)\n"
	os.WriteFile(path, []byte(src), 0o644)
	p, err := parser.New(path)
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	mod, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ev := eval.New(path, strings.Split(src, "\n"))
	wireDispatch(t, ev)
	err = ev.Run(mod)
	if err == nil {
		t.Fatal("expected a NameError evaluating an unbound identifier")
	}
}

func TestEvalTupleAndListLiterals(t *testing.T) {
	ev := runSrc(t, "t = (1, 2)\nl = [1, 2, 3]\n")
	tv, _ := ev.Global().Get("t")
	lv, _ := ev.Global().Get("l")
	if tv.Kind != value.Tuple || len(tv.Tuple) != 2 {
		t.Fatalf("t = %#v", tv)
	}
	if lv.Kind != value.List || len(lv.List.Elements) != 3 {
		t.Fatalf("l = %#v", lv)
	}
}

func TestEvalSubscript(t *testing.T) {
	ev := runSrc(t, "xs = [10, 20, 30]\nfirst = xs[0]\n")
	first, _ := ev.Global().Get("first")
	if first.Int != 10 {
		t.Fatalf("first = %#v, want 10", first)
	}
}

func TestEvalIfElifElse(t *testing.T) {
	src := "def classify(i):\n" +
		"    if i % 15 == 0:\n" +
		"        return 1\n" +
		"    elif i % 3 == 0:\n" +
		"        return 2\n" +
		"    else:\n" +
		"        return 3\n" +
		"a = classify(15)\nb = classify(3)\nc = classify(1)\n"
	ev := runSrc(t, src)
	a, _ := ev.Global().Get("a")
	b, _ := ev.Global().Get("b")
	c, _ := ev.Global().Get("c")
	if a.Int != 1 || b.Int != 2 || c.Int != 3 {
		t.Fatalf("a=%d b=%d c=%d", a.Int, b.Int, c.Int)
	}
}

func TestEvalBreakOutsideLoopIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.mpy")
	src := "break\n"
	os.WriteFile(path, []byte(src), 0o644)
	p, _ := parser.New(path)
	mod, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ev := eval.New(path, strings.Split(src, "\n"))
	if err := ev.Run(mod); err == nil {
		t.Fatal("expected a fatal error for break outside a loop")
	}
}

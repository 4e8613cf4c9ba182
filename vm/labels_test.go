package vm

import (
	"testing"

	"github.com/mirage-lang/mirage/value"
)

func TestLabelTableLabels(t *testing.T) {
	lt := NewLabelTable()
	if _, ok := lt.Label("loop"); ok {
		t.Fatal("expected an undefined label to report not-found")
	}
	lt.DefineLabel("loop", 7)
	pos, ok := lt.Label("loop")
	if !ok || pos != 7 {
		t.Errorf("Label(loop) = (%d, %v), want (7, true)", pos, ok)
	}
}

func TestLabelTableFunctions(t *testing.T) {
	lt := NewLabelTable()
	if _, ok := lt.Function("add"); ok {
		t.Fatal("expected an undefined function to report not-found")
	}
	lt.DefineFunction("add", FunctionSite{Params: []string{"a", "b"}, ReturnType: value.TypeInt, Addr: 3})
	site, ok := lt.Function("add")
	if !ok || site.Addr != 3 || len(site.Params) != 2 || site.ReturnType != value.TypeInt {
		t.Errorf("Function(add) = (%+v, %v), unexpected", site, ok)
	}
}

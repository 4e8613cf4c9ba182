package parser

import (
	"testing"

	"github.com/mirage-lang/mirage/value"
)

func parse(t *testing.T, src string) []value.Instruction {
	t.Helper()
	l := NewLexer(src, "test.mg")
	toks := l.TokenizeAll()
	if l.Errors().HasErrors() {
		t.Fatalf("lex errors: %v", l.Errors().Error())
	}
	insts, err := NewParser(toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return insts
}

func TestParseMove(t *testing.T) {
	insts := parse(t, "move r0 int 42")
	if len(insts) != 1 {
		t.Fatalf("got %d instructions, want 1", len(insts))
	}
	in := insts[0]
	if in.Kind != value.Move || in.Reg1 != 0 || in.Value.AsInt() != 42 {
		t.Errorf("got %+v", in)
	}
}

func TestParseTriop(t *testing.T) {
	insts := parse(t, "add r0 r1 r2")
	if len(insts) != 1 || insts[0].Kind != value.Add {
		t.Fatalf("got %+v", insts)
	}
	if insts[0].Reg1 != 0 || insts[0].Reg2 != 1 || insts[0].Reg3 != 2 {
		t.Errorf("got %+v", insts[0])
	}
}

func TestParseDefineFnLabelArityQuirk(t *testing.T) {
	insts := parse(t, "definefnlabel sum 3 a b int")
	if len(insts) != 1 || insts[0].Kind != value.DefineFnLabel {
		t.Fatalf("got %+v", insts)
	}
	in := insts[0]
	if in.Name != "sum" {
		t.Errorf("name = %q, want sum", in.Name)
	}
	if len(in.Names) != 2 || in.Names[0] != "a" || in.Names[1] != "b" {
		t.Errorf("names = %v, want [a b]", in.Names)
	}
	if in.ReturnType != value.TypeInt {
		t.Errorf("return type = %v, want int", in.ReturnType)
	}
}

func TestParseDefineFnLabelZeroArity(t *testing.T) {
	insts := parse(t, "definefnlabel main 0 None")
	if len(insts) != 1 {
		t.Fatalf("got %+v", insts)
	}
	if len(insts[0].Names) != 0 {
		t.Errorf("names = %v, want none", insts[0].Names)
	}
}

func TestParseFullProgram(t *testing.T) {
	src := `
		definefnlabel main 0 None
		move r0 int 1
		move r1 int 2
		add r0 r1 r2
		stdoutwrite r2
		stdoutflush
		return
		endfunction
	`
	insts := parse(t, src)
	if len(insts) != 8 {
		t.Fatalf("got %d instructions, want 8: %+v", len(insts), insts)
	}
}

func TestParseInvalidKeyword(t *testing.T) {
	l := NewLexer("bogus r0", "test.mg")
	toks := l.TokenizeAll()
	_, err := NewParser(toks).Parse()
	if err == nil {
		t.Fatalf("expected an error for an unrecognized mnemonic")
	}
}

func TestParseUnexpectedEOF(t *testing.T) {
	l := NewLexer("move r0", "test.mg")
	toks := l.TokenizeAll()
	_, err := NewParser(toks).Parse()
	if err == nil {
		t.Fatalf("expected an error for a truncated instruction")
	}
}

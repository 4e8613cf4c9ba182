package vm

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/mirage-lang/mirage/value"
)

func mustRun(t *testing.T, instructions []value.Instruction) (value.MiValue, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	m := NewWithIO(instructions, &stdout, &bytes.Buffer{}, strings.NewReader(""))
	m.Setup()
	result, err := m.Run()
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	return result, &stdout
}

func TestMoveAndReturn(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.Move, Reg1: ReturnRegister, Value: value.NewInt(42)},
		{Kind: value.Return},
	}
	result, _ := mustRun(t, instructions)
	if result.Variant != value.TypeInt || result.AsInt() != 42 {
		t.Errorf("result = %+v, want Int(42)", result)
	}
}

func TestArithAdd(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.Move, Reg1: 0, Value: value.NewInt(2)},
		{Kind: value.Move, Reg1: 1, Value: value.NewInt(3)},
		{Kind: value.Add, Reg1: 0, Reg2: 1, Reg3: ReturnRegister},
		{Kind: value.Return},
	}
	result, _ := mustRun(t, instructions)
	if result.AsInt() != 5 {
		t.Errorf("2 + 3 = %d, want 5", result.AsInt())
	}
}

func TestIntDivisionByZeroThrowsMathError(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.Move, Reg1: 0, Value: value.NewInt(1)},
		{Kind: value.Move, Reg1: 1, Value: value.NewInt(0)},
		{Kind: value.Div, Reg1: 0, Reg2: 1, Reg3: ReturnRegister},
		{Kind: value.Return},
	}
	m := New(instructions)
	m.Setup()
	_, err := m.Run()
	if err == nil {
		t.Fatal("expected a MathError, got nil")
	}
	vmErr, ok := err.(*Error)
	if !ok || vmErr.Name != "MathError" {
		t.Errorf("err = %v, want MathError", err)
	}
}

func TestFloatDivisionByZeroProducesInf(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.Move, Reg1: 0, Value: value.NewFloat(1.0)},
		{Kind: value.Move, Reg1: 1, Value: value.NewFloat(0.0)},
		{Kind: value.Div, Reg1: 0, Reg2: 1, Reg3: ReturnRegister},
		{Kind: value.Return},
	}
	result, _ := mustRun(t, instructions)
	if !math.IsInf(result.AsFloat(), 1) {
		t.Errorf("1.0 / 0.0 = %v, want +Inf", result.AsFloat())
	}
}

func TestJumpUnconditional(t *testing.T) {
	// A jump lands one instruction past DefineLabel itself, not on it: the
	// instruction immediately after the label is skipped too.
	instructions := []value.Instruction{
		{Kind: value.JumpUnconditional, Name: "skip"},
		{Kind: value.Move, Reg1: ReturnRegister, Value: value.NewInt(1)},
		{Kind: value.DefineLabel, Name: "skip"},
		{Kind: value.Move, Reg1: ReturnRegister, Value: value.NewInt(99)},
		{Kind: value.Move, Reg1: ReturnRegister, Value: value.NewInt(2)},
		{Kind: value.Return},
	}
	result, _ := mustRun(t, instructions)
	if result.AsInt() != 2 {
		t.Errorf("result = %d, want 2 (jump should land one instruction past the label)", result.AsInt())
	}
}

func TestCallBindsArgumentsAndReturns(t *testing.T) {
	instructions := []value.Instruction{
		// main
		{Kind: value.Move, Reg1: 0, Value: value.NewInt(10)},
		{Kind: value.MoveAsArgument, Reg1: 0},
		{Kind: value.Call, Name: "double"},
		{Kind: value.Return},

		// fn double(x) -> Int
		{Kind: value.DefineFnLabel, Name: "double", Names: []string{"x"}, ReturnType: value.TypeInt},
		{Kind: value.MoveArgument, Reg1: 1, Name: "x"},
		{Kind: value.Add, Reg1: 1, Reg2: 1, Reg3: ReturnRegister},
		{Kind: value.Return},
		{Kind: value.EndFunction},
	}
	result, _ := mustRun(t, instructions)
	if result.AsInt() != 20 {
		t.Errorf("double(10) = %d, want 20", result.AsInt())
	}
}

func TestCallUndefinedFunctionThrows(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.Call, Name: "nope"},
		{Kind: value.Return},
	}
	m := New(instructions)
	m.Setup()
	_, err := m.Run()
	vmErr, ok := err.(*Error)
	if !ok || vmErr.Name != "UndefinedFunction" {
		t.Errorf("err = %v, want UndefinedFunction", err)
	}
}

func TestNotEnoughArgumentsThrows(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.Call, Name: "needsOne"},
		{Kind: value.Return},

		{Kind: value.DefineFnLabel, Name: "needsOne", Names: []string{"x"}, ReturnType: value.TypeInt},
		{Kind: value.EndFunction},
	}
	m := New(instructions)
	m.Setup()
	_, err := m.Run()
	vmErr, ok := err.(*Error)
	if !ok || vmErr.Name != "NotEnoughArguments" {
		t.Errorf("err = %v, want NotEnoughArguments", err)
	}
}

func TestSetVariableAndMovFromVariable(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.Move, Reg1: 0, Value: value.NewString("hi")},
		{Kind: value.SetVariable, Reg1: 0, Name: "greeting"},
		{Kind: value.MovFromVariable, Reg1: ReturnRegister, Name: "greeting"},
		{Kind: value.Return},
	}
	result, _ := mustRun(t, instructions)
	if result.AsString() != "hi" {
		t.Errorf("result = %q, want %q", result.AsString(), "hi")
	}
}

func TestUndefinedVariableThrows(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.MovFromVariable, Reg1: 0, Name: "nope"},
		{Kind: value.Return},
	}
	m := New(instructions)
	m.Setup()
	_, err := m.Run()
	vmErr, ok := err.(*Error)
	if !ok || vmErr.Name != "UndefinedVariable" {
		t.Errorf("err = %v, want UndefinedVariable", err)
	}
}

func TestThrowFromPropagatesWhenUnhandled(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.Move, Reg1: 0, Value: value.NewString("CustomError")},
		{Kind: value.Move, Reg1: 1, Value: value.NewString("boom")},
		{Kind: value.ThrowFrom, Reg1: 0, Reg2: 1},
		{Kind: value.Return},
	}
	m := New(instructions)
	m.Setup()
	_, err := m.Run()
	vmErr, ok := err.(*Error)
	if !ok || vmErr.Name != "CustomError" || vmErr.Message != "boom" {
		t.Errorf("err = %v, want CustomError: boom", err)
	}
	if vmErr.Backtrace == "" {
		t.Error("expected a non-empty backtrace")
	}
}

func TestStdoutWrite(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.Move, Reg1: 0, Value: value.NewString("hello")},
		{Kind: value.StdoutWrite, Reg1: 0},
		{Kind: value.StdoutFlush},
		{Kind: value.Return},
	}
	_, stdout := mustRun(t, instructions)
	if stdout.String() != "hello" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "hello")
	}
}

func TestUnsetRegisterThrows(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.MoveBetween, Reg1: 5, Reg2: 0},
		{Kind: value.Return},
	}
	m := New(instructions)
	m.Setup()
	_, err := m.Run()
	vmErr, ok := err.(*Error)
	if !ok || vmErr.Name != "UnsetRegister" {
		t.Errorf("err = %v, want UnsetRegister", err)
	}
}

func TestInvalidRegisterThrows(t *testing.T) {
	instructions := []value.Instruction{
		{Kind: value.Move, Reg1: 200, Value: value.NewInt(1)},
		{Kind: value.Return},
	}
	m := New(instructions)
	m.Setup()
	_, err := m.Run()
	vmErr, ok := err.(*Error)
	if !ok || vmErr.Name != "InvalidRegister" {
		t.Errorf("err = %v, want InvalidRegister", err)
	}
}

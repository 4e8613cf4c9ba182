package vm

import (
	"testing"

	"github.com/mirage-lang/mirage/value"
)

func TestRegistersGetSet(t *testing.T) {
	r := NewRegisters()

	if _, ok := r.Get(0); ok {
		t.Error("expected register 0 to be unset initially")
	}

	if err := r.Set(0, value.NewInt(7)); err != nil {
		t.Fatalf("Set(0) returned error: %v", err)
	}

	v, ok := r.Get(0)
	if !ok || v.AsInt() != 7 {
		t.Errorf("Get(0) = (%v, %v), want (Int(7), true)", v, ok)
	}
}

func TestRegistersSetOutOfRange(t *testing.T) {
	r := NewRegisters()
	err := r.Set(16, value.NewInt(1))
	if err == nil || err.Name != "InvalidRegister" {
		t.Errorf("Set(16) = %v, want InvalidRegister", err)
	}
}

func TestRegistersGetOutOfRange(t *testing.T) {
	r := NewRegisters()
	if _, ok := r.Get(255); ok {
		t.Error("Get(255) should report unset, not panic or succeed")
	}
}

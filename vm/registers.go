package vm

import (
	"fmt"

	"github.com/mirage-lang/mirage/value"
)

// RegisterCount is the number of general-purpose registers in the VM's
// single register file, which every frame shares. Register 15 carries the value returned by Run when the call
// stack unwinds back to the top level.
const RegisterCount = 16

// ReturnRegister is the register whose value Run reports once the program's
// outermost frame returns.
const ReturnRegister = 15

// Registers holds the 16-register file. Unlike a fixed-width CPU register
// bank, an unset register is a distinct state from a zero value, so each
// slot is tracked with a presence flag rather than defaulting to a value.MiValue zero value.
type Registers struct {
	slots [RegisterCount]value.MiValue
	set   [RegisterCount]bool
}

// NewRegisters creates an empty register file.
func NewRegisters() *Registers {
	return &Registers{}
}

// Get returns the value held in index and whether it has been set.
func (r *Registers) Get(index byte) (value.MiValue, bool) {
	if int(index) >= RegisterCount {
		return value.MiValue{}, false
	}
	return r.slots[index], r.set[index]
}

// Set stores a value in index. It reports an error if index is out of range.
func (r *Registers) Set(index byte, v value.MiValue) *Error {
	if int(index) >= RegisterCount {
		return &Error{Name: "InvalidRegister", Message: invalidRegisterMessage(index)}
	}
	r.slots[index] = v
	r.set[index] = true
	return nil
}

func invalidRegisterMessage(index byte) string {
	return fmt.Sprintf("the register `%d` is not valid as it is not between 0-15", index)
}

package vm

import (
	"bufio"
	"fmt"
	"math"

	"github.com/mirage-lang/mirage/value"
)

func (m *VM) setRegisterOrThrow(reg byte, v value.MiValue) error {
	if err := m.Registers.Set(reg, v); err != nil {
		return m.throw(err.Name, err.Message)
	}
	return nil
}

func (m *VM) throwUnsetRegister(reg byte) error {
	return m.throw("UnsetRegister", fmt.Sprintf("the register `%d` has not been set yet", reg))
}

func (m *VM) throwNotNumeric(v value.MiValue) error {
	return m.throw("InvalidType", fmt.Sprintf("the type `%s` is not numeric", v.Variant))
}

func (m *VM) throwNotBoolean(v value.MiValue) error {
	return m.throw("InvalidType", fmt.Sprintf("the type `%s` is not boolean", v.Variant))
}

func (m *VM) throwMismatchedTypes(op string, a, b value.MiValue) error {
	return m.throw("InvalidType", fmt.Sprintf("cannot %s two different types: `%s` and `%s`", op, a.Variant, b.Variant))
}

// throw builds a structured error carrying the current backtrace and hands
// it to the frame unwinder. If an enclosing frame claims to handle errors
// execution resumes there; otherwise the error propagates out of Run.
func (m *VM) throw(name, message string) error {
	err := &Error{Name: name, Message: message, Backtrace: m.stack.Backtrace()}
	for {
		frame := m.stack.Pop()
		if frame == nil {
			return err
		}
		if frame.HandlesError {
			m.pc = frame.ErrorHandlingAddr
			return nil
		}
	}
}

// jumpTo sets the program counter to the instruction right after label.
// Step's own pre-fetch increment fires once more before the next fetch, so
// execution resumes two instructions past the label and the instruction
// immediately after it is skipped — unlike call, which sets the program
// counter to the callee's definefnlabel so its first body instruction runs
// next.
func (m *VM) jumpTo(label string) error {
	pos, ok := m.labels.Label(label)
	if !ok {
		return m.throw("UnsetLabel", fmt.Sprintf("the label `%s` is currently not defined", label))
	}
	m.pc = pos + 1
	return nil
}

// call binds the top of the argument stack to the callee's declared
// parameters (in reverse-push order, so the first pushed argument binds to
// the first parameter) and pushes a new frame that returns to the
// instruction after this call.
func (m *VM) call(name string) error {
	site, ok := m.labels.Function(name)
	if !ok {
		return m.throw("UndefinedFunction", fmt.Sprintf("cannot call undefined function `%s`", name))
	}

	args := make(map[string]value.MiValue, len(site.Params))
	for i := len(site.Params) - 1; i >= 0; i-- {
		if len(m.args) == 0 {
			return m.throw("NotEnoughArguments", fmt.Sprintf(
				"cannot satisfy the arguments size for the function `%s`: %d", name, len(site.Params)))
		}
		last := len(m.args) - 1
		args[site.Params[i]] = m.args[last]
		m.args = m.args[:last]
	}

	if err := m.stack.Push(NewFrame(name, args, m.pc+1, true)); err != nil {
		return m.throw("StackOverflow", err.Error())
	}
	m.pc = site.Addr
	return nil
}

// skipFunctionBody advances past a definefnlabel's body to its matching
// endfunction, the way the interpreter reaches a function only via Call
// jumping directly to its label, never by falling through definefnlabel.
func (m *VM) skipFunctionBody() error {
	for m.pc+1 < len(m.instructions) {
		m.pc++
		if m.instructions[m.pc].Kind == value.EndFunction {
			return nil
		}
	}
	return nil
}

func (m *VM) write(w *bufio.Writer, reg byte, debugged bool) error {
	v, ok := m.Registers.Get(reg)
	if !ok {
		return m.throwUnsetRegister(reg)
	}
	var s string
	if debugged {
		s = v.DebugString()
	} else {
		s = v.String()
	}
	if _, err := w.WriteString(s); err != nil {
		return m.throw("IOError", fmt.Sprintf("error writing output: %s", err))
	}
	return nil
}

func (m *VM) arith(in value.Instruction) error {
	op1, ok := m.Registers.Get(in.Reg1)
	if !ok {
		return m.throwUnsetRegister(in.Reg1)
	}
	if !op1.Variant.IsNumeric() {
		return m.throwNotNumeric(op1)
	}
	op2, ok := m.Registers.Get(in.Reg2)
	if !ok {
		return m.throwUnsetRegister(in.Reg2)
	}
	if !op2.Variant.IsNumeric() {
		return m.throwNotNumeric(op2)
	}
	if op1.Variant != op2.Variant {
		return m.throwMismatchedTypes(arithOpName(in.Kind), op1, op2)
	}

	if op1.Variant == value.TypeInt {
		a, b := op1.AsInt(), op2.AsInt()
		switch in.Kind {
		case value.Add:
			return m.setRegisterOrThrow(in.Reg3, value.NewInt(a+b))
		case value.Sub:
			return m.setRegisterOrThrow(in.Reg3, value.NewInt(a-b))
		case value.Mul:
			return m.setRegisterOrThrow(in.Reg3, value.NewInt(a*b))
		case value.Div:
			if b == 0 {
				return m.throw("MathError", "division by zero")
			}
			return m.setRegisterOrThrow(in.Reg3, value.NewInt(a/b))
		case value.Rem:
			if b == 0 {
				return m.throw("MathError", "division by zero")
			}
			return m.setRegisterOrThrow(in.Reg3, value.NewInt(a%b))
		case value.Pow:
			if b < 0 {
				return m.throw("MathError", fmt.Sprintf("the exponent `%d` is not valid as it needs to be positive", b))
			}
			return m.setRegisterOrThrow(in.Reg3, value.NewInt(intPow(a, b)))
		}
	}

	a, b := op1.AsFloat(), op2.AsFloat()
	switch in.Kind {
	case value.Add:
		return m.setRegisterOrThrow(in.Reg3, value.NewFloat(a+b))
	case value.Sub:
		return m.setRegisterOrThrow(in.Reg3, value.NewFloat(a-b))
	case value.Mul:
		return m.setRegisterOrThrow(in.Reg3, value.NewFloat(a*b))
	case value.Div:
		return m.setRegisterOrThrow(in.Reg3, value.NewFloat(a/b))
	case value.Rem:
		return m.setRegisterOrThrow(in.Reg3, value.NewFloat(math.Mod(a, b)))
	case value.Pow:
		return m.setRegisterOrThrow(in.Reg3, value.NewFloat(math.Pow(a, b)))
	}
	panic("unreachable arith kind")
}

func intPow(base, exp int32) int32 {
	result := int32(1)
	for i := int32(0); i < exp; i++ {
		result *= base
	}
	return result
}

func arithOpName(k value.Kind) string {
	switch k {
	case value.Add:
		return "add"
	case value.Sub:
		return "subtract"
	case value.Mul:
		return "multiply"
	case value.Div:
		return "divide"
	case value.Rem:
		return "rem"
	case value.Pow:
		return "power"
	default:
		return "operate on"
	}
}

func (m *VM) logic(in value.Instruction) error {
	op1, ok := m.Registers.Get(in.Reg1)
	if !ok {
		return m.throwUnsetRegister(in.Reg1)
	}
	if op1.Variant != value.TypeBool {
		return m.throwNotBoolean(op1)
	}
	op2, ok := m.Registers.Get(in.Reg2)
	if !ok {
		return m.throwUnsetRegister(in.Reg2)
	}
	if op2.Variant != value.TypeBool {
		return m.throwNotBoolean(op2)
	}

	a, b := op1.AsBool(), op2.AsBool()
	var result bool
	switch in.Kind {
	case value.Or:
		result = a || b
	case value.Xor:
		result = a != b
	case value.And:
		result = a && b
	}
	return m.setRegisterOrThrow(in.Reg3, value.NewBool(result))
}

func (m *VM) compare(in value.Instruction) error {
	op1, ok := m.Registers.Get(in.Reg1)
	if !ok {
		return m.throwUnsetRegister(in.Reg1)
	}
	if !op1.Variant.IsNumeric() {
		return m.throwNotNumeric(op1)
	}
	op2, ok := m.Registers.Get(in.Reg2)
	if !ok {
		return m.throwUnsetRegister(in.Reg2)
	}
	if !op2.Variant.IsNumeric() {
		return m.throwNotNumeric(op2)
	}
	if op1.Variant != op2.Variant {
		return m.throwMismatchedTypes(compareOpName(in.Kind), op1, op2)
	}

	var result bool
	if op1.Variant == value.TypeInt {
		result = compareOrdered(in.Kind, op1.AsInt(), op2.AsInt())
	} else {
		result = compareOrdered(in.Kind, op1.AsFloat(), op2.AsFloat())
	}
	return m.setRegisterOrThrow(in.Reg3, value.NewBool(result))
}

func compareOrdered[T int32 | float64](k value.Kind, a, b T) bool {
	switch k {
	case value.Lt:
		return a < b
	case value.Le:
		return a <= b
	case value.Gt:
		return a > b
	case value.Ge:
		return a >= b
	default:
		return false
	}
}

func compareOpName(k value.Kind) string {
	switch k {
	case value.Lt:
		return "LT"
	case value.Le:
		return "LE"
	case value.Gt:
		return "GT"
	case value.Ge:
		return "GE"
	default:
		return "compare"
	}
}

func (m *VM) equality(in value.Instruction) error {
	op1, ok := m.Registers.Get(in.Reg1)
	if !ok {
		return m.throwUnsetRegister(in.Reg1)
	}
	op2, ok := m.Registers.Get(in.Reg2)
	if !ok {
		return m.throwUnsetRegister(in.Reg2)
	}
	eq := op1.Equal(op2)
	if in.Kind == value.Ne {
		eq = !eq
	}
	return m.setRegisterOrThrow(in.Reg3, value.NewBool(eq))
}

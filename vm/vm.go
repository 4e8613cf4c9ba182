// Package vm implements the Mirage runtime: the 16-register frame-stacked
// interpreter that executes a parsed instruction stream.
package vm

import (
	"fmt"
	"io"

	"github.com/mirage-lang/mirage/value"
)

// VM is the Mirage runtime. It owns the register file, the call stack, the
// argument stack instructions build up before a call, the label/function
// address table built by Setup, and the I/O ports instructions read and
// write through.
type VM struct {
	Registers    *Registers
	stack        *CallStack
	pc           int
	instructions []value.Instruction
	labels       *LabelTable
	args         []value.MiValue
	ports        *ports
}

// New creates a VM over an already-parsed instruction stream, reading from
// and writing to the process's standard streams.
func New(instructions []value.Instruction) *VM {
	return newVM(instructions, defaultPorts())
}

// NewWithIO creates a VM with explicit I/O streams, for tests and embedders
// that don't want a program touching the process's real stdio.
func NewWithIO(instructions []value.Instruction, stdout, stderr io.Writer, stdin io.Reader) *VM {
	return newVM(instructions, newPorts(stdout, stderr, stdin))
}

func newVM(instructions []value.Instruction, p *ports) *VM {
	return &VM{
		Registers:    NewRegisters(),
		stack:        NewCallStack(),
		pc:           -1,
		instructions: instructions,
		labels:       NewLabelTable(),
		ports:        p,
	}
}

// Setup prescans the instruction stream and records every definelabel and
// definefnlabel position, so jumps and calls resolve in O(1) instead of
// scanning forward at every jump the way a naive single-pass interpreter
// would have to.
func (m *VM) Setup() {
	for pos, in := range m.instructions {
		switch in.Kind {
		case value.DefineLabel:
			m.labels.DefineLabel(in.Name, pos)
		case value.DefineFnLabel:
			m.labels.DefineFunction(in.Name, FunctionSite{
				Params:     in.Names,
				ReturnType: in.ReturnType,
				Addr:       pos,
			})
		}
	}
}

// Run executes the program to completion, starting a "Main" frame with no
// return address, and returns the value left in register 15, or the first
// unhandled runtime error.
func (m *VM) Run() (value.MiValue, error) {
	if err := m.Start(); err != nil {
		return value.MiValue{}, err
	}

	for {
		halt, err := m.Step()
		if err != nil {
			return value.MiValue{}, err
		}
		if halt {
			break
		}
	}

	m.flush()
	v, _ := m.Registers.Get(ReturnRegister)
	return v, nil
}

// Start pushes the outermost "Main" frame. Callers driving the VM one
// instruction at a time (the mdebug stepper) call this once before the
// first Step; Run calls it itself.
func (m *VM) Start() error {
	if err := m.stack.Push(NewFrame("Main", nil, 0, false)); err != nil {
		return &Error{Name: "StackOverflow", Message: err.Error()}
	}
	return nil
}

// Step advances the program counter and executes the instruction it lands
// on, the one Current reported. halt is true once the outermost frame returns, ending the
// program normally. Step reports (true, nil) if called past the end of the
// instruction stream.
func (m *VM) Step() (halt bool, err error) {
	m.pc++
	in, ok := m.current()
	if !ok {
		return true, nil
	}
	return m.step(in)
}

// Current returns the instruction Step will execute next.
func (m *VM) Current() (value.Instruction, bool) {
	next := m.pc + 1
	if next < 0 || next >= len(m.instructions) {
		return value.Instruction{}, false
	}
	return m.instructions[next], true
}

// PC returns the current program counter.
func (m *VM) PC() int {
	return m.pc
}

// Backtrace renders the current call stack, most recent frame first.
func (m *VM) Backtrace() string {
	return m.stack.Backtrace()
}

// StackDepth reports how many frames are currently live.
func (m *VM) StackDepth() int {
	return m.stack.Depth()
}

// Flush flushes the VM's buffered I/O ports.
func (m *VM) Flush() {
	m.flush()
}

func (m *VM) current() (value.Instruction, bool) {
	if m.pc < 0 || m.pc >= len(m.instructions) {
		return value.Instruction{}, false
	}
	return m.instructions[m.pc], true
}

func (m *VM) flush() {
	m.ports.stdout.Flush()
	m.ports.stderr.Flush()
}

// step executes a single instruction, possibly updating m.pc directly
// (jumps, calls, returns). halt is true only when Return unwinds the
// outermost frame, ending the program normally; a non-nil err means the
// error could not be handled by any live frame and the run is over.
func (m *VM) step(in value.Instruction) (halt bool, err error) {
	switch in.Kind {
	case value.Move:
		return false, m.setRegisterOrThrow(in.Reg1, in.Value)

	case value.MoveBetween:
		v, ok := m.Registers.Get(in.Reg1)
		if !ok {
			return false, m.throwUnsetRegister(in.Reg1)
		}
		return false, m.setRegisterOrThrow(in.Reg2, v)

	case value.MoveArgument:
		frame := m.stack.Top()
		v, ok := frame.Args[in.Name]
		if !ok {
			return false, m.throw("UndefinedArgument", fmt.Sprintf("the argument `%s` has not been defined yet", in.Name))
		}
		return false, m.setRegisterOrThrow(in.Reg1, v)

	case value.MoveAsArgument:
		v, ok := m.Registers.Get(in.Reg1)
		if !ok {
			return false, m.throwUnsetRegister(in.Reg1)
		}
		m.args = append(m.args, v)
		return false, nil

	case value.Add, value.Sub, value.Mul, value.Div, value.Rem, value.Pow:
		return false, m.arith(in)

	case value.Or, value.Xor, value.And:
		return false, m.logic(in)

	case value.Not:
		v, ok := m.Registers.Get(in.Reg1)
		if !ok {
			return false, m.throwUnsetRegister(in.Reg1)
		}
		if v.Variant != value.TypeBool {
			return false, m.throwNotBoolean(v)
		}
		return false, m.setRegisterOrThrow(in.Reg2, value.NewBool(!v.AsBool()))

	case value.Lt, value.Le, value.Gt, value.Ge:
		return false, m.compare(in)

	case value.Eq, value.Ne:
		return false, m.equality(in)

	case value.Return:
		frame := m.stack.Pop()
		if frame == nil {
			panic("no frame to return to")
		}
		if frame.HasReturnAddr {
			// Step increments pc before fetching, so the next instruction
			// executed is the one at ReturnAddr itself.
			m.pc = frame.ReturnAddr - 1
			return false, nil
		}
		return true, nil

	case value.SetVariable:
		v, ok := m.Registers.Get(in.Reg1)
		if !ok {
			return false, m.throwUnsetRegister(in.Reg1)
		}
		m.stack.Top().Locals[in.Name] = v
		return false, nil

	case value.MovFromVariable:
		v, ok := m.stack.Top().Locals[in.Name]
		if !ok {
			return false, m.throw("UndefinedVariable", fmt.Sprintf(
				"cannot move value of variable `%s` to register `%d` because `%s` is not defined", in.Name, in.Reg1, in.Name))
		}
		return false, m.setRegisterOrThrow(in.Reg1, v)

	case value.ThrowFrom:
		reason, ok := m.Registers.Get(in.Reg1)
		if !ok {
			return false, m.throwUnsetRegister(in.Reg1)
		}
		msg, ok := m.Registers.Get(in.Reg2)
		if !ok {
			return false, m.throwUnsetRegister(in.Reg2)
		}
		return false, m.throw(reason.AsString(), msg.AsString())

	case value.DefineLabel:
		return false, nil

	case value.JumpUnconditional:
		return false, m.jumpTo(in.Name)

	case value.JumpConditional:
		v, ok := m.Registers.Get(in.Reg1)
		if !ok {
			return false, m.throwUnsetRegister(in.Reg1)
		}
		// Jumps only on an exact canonical-true byte, not merely non-zero.
		if len(v.Bytes) > 0 && v.Bytes[0] == 1 {
			return false, m.jumpTo(in.Name)
		}
		return false, nil

	case value.Call:
		return false, m.call(in.Name)

	case value.DefineFnLabel:
		return false, m.skipFunctionBody()

	case value.EndFunction:
		return false, nil

	case value.StdoutWrite:
		return false, m.write(m.ports.stdout, in.Reg1, false)
	case value.StdoutWriteDebugged:
		return false, m.write(m.ports.stdout, in.Reg1, true)
	case value.StdoutFlush:
		return false, m.ports.stdout.Flush()
	case value.StderrWrite:
		return false, m.write(m.ports.stderr, in.Reg1, false)
	case value.StderrWriteDebugged:
		return false, m.write(m.ports.stderr, in.Reg1, true)
	case value.StderrFlush:
		return false, m.ports.stderr.Flush()

	case value.BufferedStdinRead:
		line, err := m.ports.readLine()
		if err != nil {
			return false, m.throw("IOError", fmt.Sprintf("unable to read a line from stdin: %s", err))
		}
		return false, m.setRegisterOrThrow(in.Reg1, value.NewString(line))

	default:
		panic(fmt.Sprintf("unhandled instruction kind %s", in.Kind))
	}
}

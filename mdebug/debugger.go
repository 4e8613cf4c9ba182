// Package mdebug implements an interactive step-debugger for a Mirage
// program: a breakpoint-by-label, step/continue REPL built as a tview/tcell
// TUI, grounded on the teacher's debugger package. It is purely
// observational — it drives vm.VM.Step one instruction at a time, the same
// method the free-running `run` path calls in a loop, so single-stepping
// never changes runtime semantics.
package mdebug

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mirage-lang/mirage/vm"
)

// Debugger wraps a VM with the stepping/breakpoint state the TUI renders
// and the command input drives.
type Debugger struct {
	VM          *vm.VM
	Breakpoints map[string]bool
	Halted      bool
	LastErr     error
	Output      bytes.Buffer
}

// NewDebugger creates a debugger over an already-Setup VM, pushing its
// outermost frame so Step can be called immediately.
func NewDebugger(m *vm.VM) (*Debugger, error) {
	if err := m.Start(); err != nil {
		return nil, err
	}
	return &Debugger{VM: m, Breakpoints: make(map[string]bool)}, nil
}

// Println writes a line to the debugger's output buffer, for the TUI's
// output panel to drain.
func (d *Debugger) Println(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format+"\n", args...)
}

// Step executes exactly one instruction.
func (d *Debugger) Step() {
	if d.Halted {
		return
	}
	halt, err := d.VM.Step()
	if err != nil {
		d.Halted = true
		d.LastErr = err
		return
	}
	if halt {
		d.Halted = true
	}
}

// Continue steps until the program halts, errors, or hits a breakpoint at
// the instruction about to execute.
func (d *Debugger) Continue() {
	for !d.Halted {
		d.Step()
		if d.AtBreakpoint() {
			return
		}
	}
}

// AtBreakpoint reports whether the next instruction to execute is a
// definelabel whose name has a breakpoint set.
func (d *Debugger) AtBreakpoint() bool {
	in, ok := d.VM.Current()
	if !ok {
		return false
	}
	return d.Breakpoints[in.Name]
}

// ExecuteCommand runs one debugger command line, the same shape as the
// teacher's Debugger.ExecuteCommand dispatch.
func (d *Debugger) ExecuteCommand(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "step", "s":
		d.Step()
		d.Println("stepped to pc=%d", d.VM.PC())
	case "continue", "c":
		d.Continue()
		d.Println("stopped at pc=%d", d.VM.PC())
	case "break", "b":
		if len(args) == 0 {
			return fmt.Errorf("usage: break <label>")
		}
		d.Breakpoints[args[0]] = true
		d.Println("breakpoint set at label `%s`", args[0])
	case "backtrace", "bt":
		d.Println("%s", d.VM.Backtrace())
	case "registers", "regs":
		for i := byte(0); i < vm.RegisterCount; i++ {
			if v, ok := d.VM.Registers.Get(i); ok {
				d.Println("r%d = %s", i, v.DebugString())
			}
		}
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

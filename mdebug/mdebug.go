package mdebug

import "github.com/mirage-lang/mirage/vm"

// Run launches the interactive step-debugger over an already-Setup VM,
// blocking until the user quits or the program halts and the user exits.
func Run(m *vm.VM) error {
	d, err := NewDebugger(m)
	if err != nil {
		return err
	}
	return newTUI(d).run()
}

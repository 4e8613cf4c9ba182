package mdebug

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// tui is the text user interface wrapping a Debugger, grounded on the
// teacher's debugger/tui.go layout: a disassembly/registers/backtrace panel
// set above an output log and a command input line.
type tui struct {
	debugger *Debugger

	app  *tview.Application
	root *tview.Flex

	instructionView *tview.TextView
	registerView    *tview.TextView
	backtraceView   *tview.TextView
	outputView      *tview.TextView
	commandInput    *tview.InputField
}

func newTUI(d *Debugger) *tui {
	t := &tui{debugger: d, app: tview.NewApplication()}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *tui) initializeViews() {
	t.instructionView = tview.NewTextView().SetDynamicColors(true)
	t.instructionView.SetBorder(true).SetTitle(" Next Instruction ")

	t.registerView = tview.NewTextView().SetDynamicColors(true)
	t.registerView.SetBorder(true).SetTitle(" Registers ")

	t.backtraceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.backtraceView.SetBorder(true).SetTitle(" Backtrace ")

	t.outputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.outputView.SetBorder(true).SetTitle(" Output ")

	t.commandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.commandInput.SetBorder(true).SetTitle(" Command (step/continue/break <label>/backtrace/registers/quit) ")
	t.commandInput.SetDoneFunc(t.handleCommand)
}

func (t *tui) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.instructionView, 0, 1, false).
		AddItem(t.registerView, 0, 1, false).
		AddItem(t.backtraceView, 0, 1, false)

	t.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 9, 0, false).
		AddItem(t.outputView, 0, 1, false).
		AddItem(t.commandInput, 3, 0, true)
}

func (t *tui) setupKeyBindings() {
	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF10:
			t.runCommand("step")
			return nil
		case tcell.KeyF5:
			t.runCommand("continue")
			return nil
		case tcell.KeyCtrlC:
			t.app.Stop()
			return nil
		}
		return event
	})
}

func (t *tui) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.commandInput.GetText()
	t.commandInput.SetText("")
	if cmd == "quit" || cmd == "q" {
		t.app.Stop()
		return
	}
	t.runCommand(cmd)
}

func (t *tui) runCommand(cmd string) {
	t.debugger.Output.Reset()
	if err := t.debugger.ExecuteCommand(cmd); err != nil {
		fmt.Fprintf(&t.debugger.Output, "error: %s\n", err)
	}
	t.refresh()
}

func (t *tui) refresh() {
	t.instructionView.Clear()
	if in, ok := t.debugger.VM.Current(); ok {
		fmt.Fprintf(t.instructionView, "pc=%d  %s", t.debugger.VM.PC(), in.String())
	} else {
		fmt.Fprint(t.instructionView, "<end of program>")
	}

	t.registerView.Clear()
	for i := byte(0); i < 16; i++ {
		if v, ok := t.debugger.VM.Registers.Get(i); ok {
			fmt.Fprintf(t.registerView, "r%-2d = %s\n", i, v.DebugString())
		}
	}

	t.backtraceView.SetText(t.debugger.VM.Backtrace())

	if t.debugger.Output.Len() > 0 {
		fmt.Fprint(t.outputView, t.debugger.Output.String())
		t.outputView.ScrollToEnd()
	}

	if t.debugger.Halted {
		if t.debugger.LastErr != nil {
			fmt.Fprintf(t.outputView, "[red]halted: %s[white]\n", t.debugger.LastErr)
		} else {
			fmt.Fprintln(t.outputView, "[green]program halted normally[white]")
		}
	}

	t.app.Draw()
}

// run starts the TUI event loop, rendering the initial state first.
func (t *tui) run() error {
	t.instructionView.Clear()
	t.registerView.Clear()
	t.outputView.Clear()
	t.refresh()
	return t.app.SetRoot(t.root, true).SetFocus(t.commandInput).Run()
}

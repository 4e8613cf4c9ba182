package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// diagnostics renders the colored error/note/example/warning lines the
// original toolchain prints via its ansi_term macros, now backed by
// fatih/color. color output can be disabled globally for non-tty output.
type diagnostics struct {
	noColor bool
}

// newDiagnostics honors an explicit --no-color request, and otherwise
// disables color automatically when stderr isn't a terminal (piped into a
// file or another process), mirroring the original's isatty check before
// emitting ansi_term escapes.
func newDiagnostics(noColor bool) *diagnostics {
	if !noColor {
		noColor = !term.IsTerminal(int(os.Stderr.Fd()))
	}
	return &diagnostics{noColor: noColor}
}

func (d *diagnostics) paint(c *color.Color, s string) string {
	if d.noColor {
		return s
	}
	return c.Sprint(s)
}

// Error prints a bold-red "Error:" line to stderr.
func (d *diagnostics) Error(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", d.paint(color.New(color.FgRed, color.Bold), "Error:"), fmt.Sprintf(format, args...))
}

// Note prints a bold-white "Note:" line to stderr.
func (d *diagnostics) Note(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", d.paint(color.New(color.FgWhite, color.Bold), "Note:"), fmt.Sprintf(format, args...))
}

// Warning prints a bold-yellow "Warning:" line to stderr.
func (d *diagnostics) Warning(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", d.paint(color.New(color.FgYellow, color.Bold), "Warning:"), fmt.Sprintf(format, args...))
}

// Example prints each line of format prefixed with a green "+ ", the way
// the original's example_println! macro highlights sample usage.
func (d *diagnostics) Example(format string, args ...interface{}) {
	input := fmt.Sprintf(format, args...)
	lines := strings.Split(input, "\n")
	for _, line := range lines {
		fmt.Fprintln(os.Stderr, d.paint(color.New(color.FgGreen), "+ "+line))
	}
}

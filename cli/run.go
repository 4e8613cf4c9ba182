package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mirage-lang/mirage/image"
	"github.com/mirage-lang/mirage/mdebug"
	"github.com/mirage-lang/mirage/vm"
)

var runDebug bool

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Execute a built .mirage image",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}
	cmd.Flags().BoolVar(&runDebug, "debug", false, "step through the program in the interactive debugger")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	diag := newDiagnostics(flagNoColor)
	log := newLogger()

	data, err := os.ReadFile(args[0]) // #nosec G304 -- user-specified image path
	if err != nil {
		diag.Error("opening input file: %s", err)
		return err
	}

	meta, err := image.Decode(data)
	if err != nil {
		diag.Error("failed to decode the binary file metadata (invalid format)")
		return err
	}
	log.Info("loaded image", "package", meta.Package, "instructions", len(meta.Instructions))

	machine := vm.New(meta.Instructions)
	machine.Setup()

	if runDebug {
		return mdebug.Run(machine)
	}

	_, runErr := machine.Run()
	fmt.Println()
	if runErr == nil {
		return nil
	}

	vmErr, ok := runErr.(*vm.Error)
	if !ok {
		diag.Error("%s", runErr)
		return runErr
	}

	red := color.New(color.FgRed, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	if flagNoColor {
		fmt.Fprintf(os.Stderr, "Error: %s\n", vmErr.Name)
		fmt.Fprintf(os.Stderr, "Message: %s\n", vmErr.Message)
	} else {
		fmt.Fprintf(os.Stderr, "%s %s\n", red.Sprint("Error:"), vmErr.Name)
		fmt.Fprintf(os.Stderr, "%s %s\n", green.Sprint("Message:"), vmErr.Message)
	}
	fmt.Fprintln(os.Stderr, "Stack Backtrace:")
	fmt.Fprintln(os.Stderr, vmErr.Backtrace)

	return runErr
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/heuermh/osc-looper/internal/midi"
)

// openDriver opens the MIDI driver. It can be overridden in tests.
var openDriver = midi.NewDriver

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports",
	Long: `Lists the MIDI input and output ports of the system. The names, or a
prefix of them, are what --input and --output expect.`,
	Args: cobra.NoArgs,
	RunE: runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	driver, err := openDriver()
	if err != nil {
		return fmt.Errorf("failed to open MIDI driver: %w", err)
	}
	ports := midi.NewPorts(driver)
	defer ports.Close()

	ins, err := ports.InputNames()
	if err != nil {
		return err
	}
	outs, err := ports.OutputNames()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printPorts(out, "Inputs", ins)
	printPorts(out, "Outputs", outs)
	return nil
}

func printPorts(w io.Writer, title string, names []string) {
	fmt.Fprintf(w, "%s:\n", title)
	if len(names) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for i, name := range names {
		fmt.Fprintf(w, "  %d  %s\n", i, name)
	}
}

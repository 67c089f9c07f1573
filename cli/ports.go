package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pianoroll/midi"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI input ports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.CloseDriver()

		fmt.Fprintln(cmd.OutOrStdout(), "=== MIDI Input Ports ===")
		names := midi.InputNames()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "  (none, or the MIDI service did not answer)")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), formatPorts(names))
		return nil
	},
}

// formatPorts numbers the ports and flags the virtual ones
func formatPorts(names []string) string {
	var out string
	for i, name := range names {
		mark := ""
		if midi.IsVirtual(name) {
			mark = " (virtual)"
		}
		out += fmt.Sprintf("  %d: %s%s\n", i, name, mark)
	}
	return out
}

package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var Dump = &cobra.Command{
	Use:   "dump <pattern> [<pattern>...]",
	Short: "Print the compiled program of each pattern.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  commandDump,
}

func commandDump(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for i, pattern := range args {
		re, err := compile(pattern)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		re.Program().Dump(out)
	}
	return nil
}

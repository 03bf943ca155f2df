package command

import (
	"fmt"
	"strconv"

	"github.com/bndr/gotabulate"
	"github.com/spf13/cobra"

	"github.com/dlclark/reprog/syntax"
)

var Choices = &cobra.Command{
	Use:   "choices <pattern>",
	Short: "Tabulate the alternations and repeats of a pattern with their start maps.",
	Args:  cobra.ExactArgs(1),
	RunE:  commandChoices,
}

func commandChoices(cmd *cobra.Command, args []string) error {
	re, err := compile(args[0])
	if err != nil {
		return err
	}

	rows := choiceRows(re.Program())
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no alternations or repeats")
		return nil
	}

	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"Index", "Node", "State", "Take", "Skip", "Null", "Leading"})
	t.SetAlign("left")
	fmt.Fprint(cmd.OutOrStdout(), t.Render("simple"))
	return nil
}

// choiceRows lists every choice point of prog, one row each.
func choiceRows(prog *syntax.Program) [][]string {
	var rows [][]string
	for i, n := range prog.Nodes() {
		if n.StartMap == nil {
			continue
		}
		state := "-"
		if n.Type.IsRepeat() {
			state = strconv.Itoa(n.StateID)
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			n.Description(),
			state,
			syntax.DescribeStartMap(n.StartMap, syntax.MaskTake),
			syntax.DescribeStartMap(n.StartMap, syntax.MaskSkip),
			nullDescription(n.CanBeNull),
			strconv.FormatBool(n.Leading),
		})
	}
	return rows
}

func nullDescription(null uint8) string {
	switch {
	case null&syntax.MaskAny == syntax.MaskAny:
		return "both"
	case null&syntax.MaskTake != 0:
		return "take"
	case null&syntax.MaskSkip != 0:
		return "skip"
	}
	return "no"
}

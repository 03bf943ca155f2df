package syntax

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// Dump writes a human-readable listing of the program to w.
func (p *Program) Dump(w io.Writer) {
	fmt.Fprintf(w, "Expression:   %q\n", p.Expression)
	if p.Status != "" {
		fmt.Fprintf(w, "Status:       %s\n", p.Status)
		return
	}
	fmt.Fprintf(w, "Marks:        %d\n", p.MarkCount)
	fmt.Fprintf(w, "Restart:      %v\n", p.RestartType)
	fmt.Fprintf(w, "Can be null:  %v\n", p.CanBeNull != 0)
	fmt.Fprintf(w, "Backrefs:     %v\n", p.HasBackrefs)
	fmt.Fprintf(w, "Recursions:   %v\n", p.HasRecursions)
	fmt.Fprintf(w, "First chars:  %s\n", DescribeStartMap(&p.StartMap, MaskAll))

	if len(p.Names) > 0 {
		names := make([]string, 0, len(p.Names))
		for name := range p.Names {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(w, "Named groups:\n")
		for _, name := range names {
			fmt.Fprintf(w, "   %d\t%s\n", p.Names[name], name)
		}
	}

	nodes := p.Nodes()
	pos := make(map[*Node]int, len(nodes))
	for i, n := range nodes {
		pos[n] = i
	}

	fmt.Fprintf(w, "\nIndex  Next  Alt   Node\n-----------------------\n")
	for i, n := range nodes {
		fmt.Fprintf(w, "%5d  %4s  %4s  %s\n", i, nodeRef(pos, n.Next), nodeRef(pos, n.Alt), n.Description())
		if n.Type.isChoice() && n.StartMap != nil {
			fmt.Fprintf(w, "                  take %s skip %s", DescribeStartMap(n.StartMap, MaskTake), DescribeStartMap(n.StartMap, MaskSkip))
			if n.CanBeNull != 0 {
				fmt.Fprintf(w, " null=%d", n.CanBeNull)
			}
			fmt.Fprintf(w, " state=%d\n", n.StateID)
		}
	}
}

// String returns the Dump output.
func (p *Program) String() string {
	buf := &bytes.Buffer{}
	p.Dump(buf)
	return buf.String()
}

func nodeRef(pos map[*Node]int, n *Node) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprint(pos[n])
}

// DescribeStartMap lists the characters whose entry in m has a bit of
// mask set, collapsing runs into ranges.
func DescribeStartMap(m *[256]uint8, mask uint8) string {
	var set [256]bool
	for i := range m {
		set[i] = m[i]&mask != 0
	}
	return describeSetMap(&set)
}

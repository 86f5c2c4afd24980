// File path: internal/report/dot.go
package report

import (
	"fmt"
	"strings"

	"github.com/nicodishanthj/cobolscope/internal/graph"
)

// RenderDOT exports the dependency graph in Graphviz DOT form. Programs are
// boxes, files ellipses, externals dashed boxes; file-access edges are drawn
// dashed to match the call/uses split of the rendered diagrams.
func RenderDOT(g *graph.Graph) string {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontsize=10];\n")
	for _, n := range g.Nodes {
		switch n.Kind {
		case graph.NodeProgram:
			fmt.Fprintf(&b, "  %s [shape=box, style=filled, fillcolor=lightblue, label=%s];\n",
				quoteID(n.ID), quoteID(nodeLabel(n)))
		case graph.NodeFile:
			fmt.Fprintf(&b, "  %s [shape=ellipse, style=filled, fillcolor=salmon];\n", quoteID(n.ID))
		case graph.NodeExternal:
			fmt.Fprintf(&b, "  %s [shape=box, style=dashed];\n", quoteID(n.ID))
		}
	}
	for _, e := range g.Edges {
		attrs := ""
		if e.Kind == graph.EdgeAccessesFile {
			attrs = " [style=dashed]"
		} else if e.Dynamic {
			attrs = " [style=dotted, label=\"dynamic\"]"
		}
		fmt.Fprintf(&b, "  %s -> %s%s;\n", quoteID(e.From), quoteID(e.To), attrs)
	}
	b.WriteString("}\n")
	return b.String()
}

func nodeLabel(n graph.Node) string {
	if n.Lines > 0 {
		return fmt.Sprintf("%s\\n%d lines", n.ID, n.Lines)
	}
	return n.ID
}

func quoteID(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `\"`) + `"`
}

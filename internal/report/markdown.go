// File path: internal/report/markdown.go
package report

import (
	"fmt"
	"strings"
)

// RenderMarkdown produces the human-readable batch summary consumed by
// modernization planning docs.
func RenderMarkdown(batch BatchReport) string {
	var b strings.Builder
	b.WriteString("# COBOL Dependency Analysis\n\n")
	fmt.Fprintf(&b, "Programs: %d • Files: %d • External: %d • Call edges: %d\n\n",
		batch.Stats.ProgramNodes, batch.Stats.FileNodes, batch.Stats.ExternalNodes, batch.Stats.CallEdges)

	if len(batch.Conflicts) > 0 {
		b.WriteString("## Conflicts\n\n")
		for _, c := range batch.Conflicts {
			fmt.Fprintf(&b, "- duplicate program id `%s` declared in: %s\n", c.ProgramID, strings.Join(c.Paths, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Circular Dependencies\n\n")
	if len(batch.Cycles) == 0 {
		b.WriteString("None detected.\n\n")
	} else {
		for _, cycle := range batch.Cycles {
			fmt.Fprintf(&b, "- %s\n", cycle)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Programs\n\n")
	for _, p := range batch.Programs {
		fmt.Fprintf(&b, "### %s\n\n", p.ProgramID)
		fmt.Fprintf(&b, "- Source: `%s`\n", p.File)
		fmt.Fprintf(&b, "- Lines: %d total, %d code\n", p.TotalLines, p.CodeLines)
		if p.Unidentified {
			b.WriteString("- No PROGRAM-ID found; identity derived from file name\n")
		}
		if len(p.Calls) > 0 {
			var targets []string
			for _, c := range p.Calls {
				if c.Kind == "dynamic" {
					targets = append(targets, c.Target+" (dynamic)")
				} else {
					targets = append(targets, c.Target)
				}
			}
			fmt.Fprintf(&b, "- Calls: %s\n", strings.Join(targets, ", "))
		}
		if len(p.Files) > 0 {
			fmt.Fprintf(&b, "- Files: %s\n", strings.Join(p.Files, ", "))
		}
		if len(p.Copybooks) > 0 {
			fmt.Fprintf(&b, "- Copybooks: %s\n", strings.Join(p.Copybooks, ", "))
		}
		if len(p.Procedures) > 0 {
			fmt.Fprintf(&b, "- Procedures (%d): %s\n", len(p.Procedures), strings.Join(p.Procedures, ", "))
		}
		b.WriteString("\n")
	}

	if len(batch.Failures) > 0 {
		b.WriteString("## Parse Failures\n\n")
		for _, f := range batch.Failures {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// File path: internal/report/json.go
package report

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/nicodishanthj/cobolscope/internal/analyzer"
	"github.com/nicodishanthj/cobolscope/internal/analyzer/cobol"
	"github.com/nicodishanthj/cobolscope/internal/graph"
)

// ProgramStatistics is the per-program summary block.
type ProgramStatistics struct {
	TotalCalls      int `json:"total_calls"`
	TotalFiles      int `json:"total_files"`
	TotalProcedures int `json:"total_procedures"`
}

// ProgramReport is the JSON document for one analyzed program. Collections
// are sorted for stable output.
type ProgramReport struct {
	File         string            `json:"file"`
	ProgramID    string            `json:"program_id"`
	Unidentified bool              `json:"unidentified,omitempty"`
	TotalLines   int               `json:"total_lines"`
	CodeLines    int               `json:"code_lines"`
	Calls        []cobol.Call      `json:"calls"`
	Files        []string          `json:"files"`
	Procedures   []string          `json:"procedures"`
	Copybooks    []string          `json:"copybooks,omitempty"`
	Statistics   ProgramStatistics `json:"statistics"`
}

// BatchReport aggregates a whole analysis run.
type BatchReport struct {
	Programs  []ProgramReport  `json:"programs"`
	Stats     graph.Stats      `json:"graph_statistics"`
	Conflicts []graph.Conflict `json:"conflicts,omitempty"`
	Cycles    []string         `json:"cycles,omitempty"`
	Failures  []string         `json:"failures,omitempty"`
}

// BuildBatchReport assembles the report structure from the analysis output.
func BuildBatchReport(result analyzer.Result, g *graph.Graph, cycles []graph.Cycle) BatchReport {
	batch := BatchReport{Stats: g.Stats(), Conflicts: g.Conflicts}
	for _, p := range result.Programs {
		batch.Programs = append(batch.Programs, buildProgramReport(p))
	}
	for _, c := range cycles {
		batch.Cycles = append(batch.Cycles, c.String())
	}
	for _, f := range result.Failures {
		batch.Failures = append(batch.Failures, f.Error())
	}
	return batch
}

// RenderJSON serializes the batch report with indentation for direct export.
func RenderJSON(batch BatchReport) ([]byte, error) {
	return json.MarshalIndent(batch, "", "  ")
}

func buildProgramReport(p analyzer.Program) ProgramReport {
	calls := append([]cobol.Call(nil), p.Calls...)
	sort.SliceStable(calls, func(i, j int) bool {
		if calls[i].Target != calls[j].Target {
			return calls[i].Target < calls[j].Target
		}
		return calls[i].Kind < calls[j].Kind
	})
	report := ProgramReport{
		File:         p.SourcePath,
		ProgramID:    p.ID,
		Unidentified: p.Unidentified,
		TotalLines:   p.TotalLines,
		CodeLines:    p.CodeLines,
		Calls:        calls,
		Files:        sortedCopy(p.Files),
		Procedures:   sortedCopy(p.Procedures),
		Copybooks:    sortedCopy(p.Copybooks),
		Statistics: ProgramStatistics{
			TotalCalls:      len(p.Calls),
			TotalFiles:      len(p.Files),
			TotalProcedures: len(p.Procedures),
		},
	}
	return report
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToUpper(out[i]) < strings.ToUpper(out[j])
	})
	return out
}

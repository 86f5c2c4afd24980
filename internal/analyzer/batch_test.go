// File path: internal/analyzer/batch_test.go
package analyzer

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/nicodishanthj/cobolscope/internal/analyzer/cobol"
)

func cobolSource(programID string, calls ...string) []byte {
	var b strings.Builder
	b.WriteString("       IDENTIFICATION DIVISION.\n")
	b.WriteString("       PROGRAM-ID. " + programID + ".\n")
	b.WriteString("       PROCEDURE DIVISION.\n")
	b.WriteString("       MAIN-PARA.\n")
	for _, call := range calls {
		b.WriteString("           CALL '" + call + "'\n")
	}
	b.WriteString("           STOP RUN.\n")
	return []byte(b.String())
}

func TestAnalyzeBatch(t *testing.T) {
	sources := []Source{
		{Path: "src/b.cbl", Data: cobolSource("PROG-B", "PROG-A")},
		{Path: "src/a.cbl", Data: cobolSource("PROG-A", "PROG-B", "MISSING")},
	}
	result, err := NewBatch().Analyze(context.Background(), sources)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if len(result.Programs) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(result.Programs))
	}
	// Output is ordered by source path regardless of scheduling.
	if result.Programs[0].SourcePath != "src/a.cbl" || result.Programs[1].SourcePath != "src/b.cbl" {
		t.Fatalf("unexpected order: %s, %s", result.Programs[0].SourcePath, result.Programs[1].SourcePath)
	}
	if result.Programs[0].ID != "PROG-A" {
		t.Fatalf("unexpected program id: %s", result.Programs[0].ID)
	}
	if len(result.Programs[0].Calls) != 2 {
		t.Fatalf("unexpected calls: %v", result.Programs[0].Calls)
	}
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", result.Failures)
	}
}

func TestAnalyzeFailureIsolation(t *testing.T) {
	huge := []Source{
		{Path: "src/good.cbl", Data: cobolSource("GOOD")},
		{Path: "src/bad.cbl", Data: []byte("       IDENTIFICATION DIVISION.\n" + strings.Repeat("x", cobol.DefaultMaxSourceBytes+1))},
	}
	result, err := NewBatch().Analyze(context.Background(), huge)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected one failure, got %d", len(result.Failures))
	}
	if result.Failures[0].Path != "src/bad.cbl" {
		t.Fatalf("unexpected failure path: %s", result.Failures[0].Path)
	}
	// The failed file still appears as an unidentified program.
	if len(result.Programs) != 2 {
		t.Fatalf("expected failed file in program set, got %d programs", len(result.Programs))
	}
	var bad Program
	for _, p := range result.Programs {
		if p.SourcePath == "src/bad.cbl" {
			bad = p
		}
	}
	if !bad.Unidentified || bad.ID != "BAD" {
		t.Fatalf("expected unidentified fallback id BAD, got %+v", bad)
	}
}

func TestBuildProgramFallback(t *testing.T) {
	data := []byte("       MOVE A TO B.\n       DISPLAY B.\n")
	program := BuildProgram("jobs/mystery.cob", data, cobol.Facts{})
	if !program.Unidentified {
		t.Fatalf("expected unidentified program")
	}
	if program.ID != "MYSTERY" {
		t.Fatalf("expected fallback id MYSTERY, got %s", program.ID)
	}
	if program.TotalLines != 2 {
		t.Fatalf("expected 2 lines, got %d", program.TotalLines)
	}
}

func TestAnalyzeDeterminism(t *testing.T) {
	sources := []Source{
		{Path: "src/a.cbl", Data: cobolSource("PROG-A", "PROG-B")},
		{Path: "src/b.cbl", Data: cobolSource("PROG-B")},
		{Path: "src/c.cbl", Data: cobolSource("PROG-C", "PROG-A", "PROG-B")},
	}
	first, err := NewBatch(WithWorkers(3)).Analyze(context.Background(), sources)
	if err != nil {
		t.Fatalf("first analyze failed: %v", err)
	}
	second, err := NewBatch(WithWorkers(1)).Analyze(context.Background(), sources)
	if err != nil {
		t.Fatalf("second analyze failed: %v", err)
	}
	if !reflect.DeepEqual(first.Programs, second.Programs) {
		t.Fatalf("batch output depends on scheduling")
	}
}

// File path: internal/graph/cycles_test.go
package graph

import (
	"reflect"
	"testing"

	"github.com/nicodishanthj/cobolscope/internal/analyzer"
	"github.com/nicodishanthj/cobolscope/internal/analyzer/cobol"
)

func TestTwoNodeCycle(t *testing.T) {
	programs := []analyzer.Program{
		program("PROGRAM-A", "a.cbl", []cobol.Call{staticCall("PROGRAM-B")}),
		program("PROGRAM-B", "b.cbl", []cobol.Call{staticCall("PROGRAM-A")}),
	}
	cycles := Build(programs).Cycles()
	if len(cycles) != 1 {
		t.Fatalf("expected exactly one cycle, got %d: %v", len(cycles), cycles)
	}
	want := Cycle{"PROGRAM-A", "PROGRAM-B", "PROGRAM-A"}
	if !reflect.DeepEqual(cycles[0], want) {
		t.Fatalf("unexpected cycle: %v", cycles[0])
	}
	if cycles[0].String() != "PROGRAM-A -> PROGRAM-B -> PROGRAM-A" {
		t.Fatalf("unexpected rendering: %s", cycles[0].String())
	}
}

func TestRotationDeduplication(t *testing.T) {
	// The same loop discovered from B or C must collapse onto the rotation
	// starting at A.
	programs := []analyzer.Program{
		program("C-PROG", "c.cbl", []cobol.Call{staticCall("A-PROG")}),
		program("B-PROG", "b.cbl", []cobol.Call{staticCall("C-PROG")}),
		program("A-PROG", "a.cbl", []cobol.Call{staticCall("B-PROG")}),
	}
	cycles := Build(programs).Cycles()
	if len(cycles) != 1 {
		t.Fatalf("expected one cycle, got %d: %v", len(cycles), cycles)
	}
	want := Cycle{"A-PROG", "B-PROG", "C-PROG", "A-PROG"}
	if !reflect.DeepEqual(cycles[0], want) {
		t.Fatalf("expected canonical rotation, got %v", cycles[0])
	}
}

func TestSelfCall(t *testing.T) {
	programs := []analyzer.Program{
		program("RECURSE", "r.cbl", []cobol.Call{staticCall("RECURSE")}),
	}
	cycles := Build(programs).Cycles()
	if len(cycles) != 1 {
		t.Fatalf("expected one self cycle, got %d", len(cycles))
	}
	want := Cycle{"RECURSE", "RECURSE"}
	if !reflect.DeepEqual(cycles[0], want) {
		t.Fatalf("unexpected self cycle: %v", cycles[0])
	}
}

func TestNoCycles(t *testing.T) {
	programs := []analyzer.Program{
		program("ONE", "1.cbl", nil),
		program("TWO", "2.cbl", nil),
		program("THREE", "3.cbl", nil),
	}
	if cycles := Build(programs).Cycles(); len(cycles) != 0 {
		t.Fatalf("independent programs must yield zero cycles, got %v", cycles)
	}
}

func TestExternalNodesNeverCycle(t *testing.T) {
	// A calls a never-analyzed target whose name matches A's caller; the
	// placeholder has no outgoing edges so no cycle can form through it.
	programs := []analyzer.Program{
		program("PROG-A", "a.cbl", []cobol.Call{staticCall("GHOST")}),
		program("PROG-B", "b.cbl", []cobol.Call{dynamicCall("PROG-A")}),
	}
	if cycles := Build(programs).Cycles(); len(cycles) != 0 {
		t.Fatalf("placeholder nodes must not participate in cycles, got %v", cycles)
	}
}

func TestMixedCallKindsStillCycle(t *testing.T) {
	// The dynamic call to PROG-B must not shadow the static one: the
	// resolved edges still close the loop.
	programs := []analyzer.Program{
		program("PROG-A", "a.cbl", []cobol.Call{dynamicCall("PROG-B"), staticCall("PROG-B")}),
		program("PROG-B", "b.cbl", []cobol.Call{staticCall("PROG-A")}),
	}
	cycles := Build(programs).Cycles()
	if len(cycles) != 1 {
		t.Fatalf("expected one cycle, got %d: %v", len(cycles), cycles)
	}
	want := Cycle{"PROG-A", "PROG-B", "PROG-A"}
	if !reflect.DeepEqual(cycles[0], want) {
		t.Fatalf("unexpected cycle: %v", cycles[0])
	}
}

func TestMultipleDistinctCycles(t *testing.T) {
	programs := []analyzer.Program{
		program("PROG-A", "a.cbl", []cobol.Call{staticCall("PROG-B")}),
		program("PROG-B", "b.cbl", []cobol.Call{staticCall("PROG-A"), staticCall("PROG-C")}),
		program("PROG-C", "c.cbl", []cobol.Call{staticCall("PROG-B"), staticCall("PROG-C")}),
	}
	cycles := Build(programs).Cycles()
	rendered := make(map[string]struct{})
	for _, c := range cycles {
		rendered[c.String()] = struct{}{}
	}
	for _, want := range []string{
		"PROG-A -> PROG-B -> PROG-A",
		"PROG-B -> PROG-C -> PROG-B",
		"PROG-C -> PROG-C",
	} {
		if _, ok := rendered[want]; !ok {
			t.Fatalf("missing cycle %q in %v", want, cycles)
		}
	}
	if len(cycles) != 3 {
		t.Fatalf("expected 3 distinct cycles, got %d: %v", len(cycles), cycles)
	}
}

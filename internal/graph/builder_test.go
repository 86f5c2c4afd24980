// File path: internal/graph/builder_test.go
package graph

import (
	"reflect"
	"testing"

	"github.com/nicodishanthj/cobolscope/internal/analyzer"
	"github.com/nicodishanthj/cobolscope/internal/analyzer/cobol"
)

func program(id, path string, calls []cobol.Call, files ...string) analyzer.Program {
	return analyzer.Program{ID: id, SourcePath: path, TotalLines: 10, Calls: calls, Files: files}
}

func staticCall(target string) cobol.Call {
	return cobol.Call{Target: target, Kind: cobol.CallStatic}
}

func dynamicCall(target string) cobol.Call {
	return cobol.Call{Target: target, Kind: cobol.CallDynamic}
}

func findNode(g *Graph, id string, kind NodeKind) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id && g.Nodes[i].Kind == kind {
			return &g.Nodes[i]
		}
	}
	return nil
}

func TestBuildResolvesCalls(t *testing.T) {
	programs := []analyzer.Program{
		program("PROG-A", "a.cbl", []cobol.Call{staticCall("prog-b")}, "CUSTOMER-FILE"),
		program("PROG-B", "b.cbl", nil),
	}
	g := Build(programs)

	if findNode(g, "PROG-A", NodeProgram) == nil || findNode(g, "PROG-B", NodeProgram) == nil {
		t.Fatalf("missing program nodes: %+v", g.Nodes)
	}
	if findNode(g, "CUSTOMER-FILE", NodeFile) == nil {
		t.Fatalf("missing file node")
	}
	var call *Edge
	for i := range g.Edges {
		if g.Edges[i].Kind == EdgeCalls {
			call = &g.Edges[i]
		}
	}
	if call == nil {
		t.Fatalf("missing call edge")
	}
	// Resolution is case-insensitive on the normalized id.
	if call.From != "PROG-A" || call.To != "PROG-B" {
		t.Fatalf("unexpected call edge: %+v", call)
	}
	if findNode(g, "PROG-B", NodeExternal) != nil {
		t.Fatalf("resolved target must not produce an external node")
	}
}

func TestBuildUnresolvedAndDynamic(t *testing.T) {
	programs := []analyzer.Program{
		program("PROG-A", "a.cbl", []cobol.Call{staticCall("ABSENT"), dynamicCall("WS-TARGET")}),
		// WS-TARGET-HANDLER shares a prefix with the dynamic operand; a
		// dynamic call must never be matched against it.
		program("WS-TARGET-HANDLER", "h.cbl", nil),
	}
	g := Build(programs)

	external := findNode(g, "ABSENT", NodeExternal)
	if external == nil {
		t.Fatalf("unresolved static call must yield a placeholder node")
	}
	dynamic := findNode(g, "WS-TARGET", NodeExternal)
	if dynamic == nil {
		t.Fatalf("dynamic call must yield a placeholder node")
	}
	var dynEdge *Edge
	for i := range g.Edges {
		if g.Edges[i].To == "WS-TARGET" {
			dynEdge = &g.Edges[i]
		}
	}
	if dynEdge == nil || !dynEdge.Dynamic {
		t.Fatalf("dynamic call edge missing marker: %+v", dynEdge)
	}
}

func TestBuildMixedCallKinds(t *testing.T) {
	// A program may reach the same target through both a data item and a
	// literal; the resolved edge and the placeholder edge are distinct.
	programs := []analyzer.Program{
		program("PROG-A", "a.cbl", []cobol.Call{dynamicCall("PROG-B"), staticCall("PROG-B")}),
		program("PROG-B", "b.cbl", []cobol.Call{staticCall("PROG-A")}),
	}
	g := Build(programs)

	var static, dynamic *Edge
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Kind != EdgeCalls || e.From != "PROG-A" || e.To != "PROG-B" {
			continue
		}
		if e.Dynamic {
			dynamic = e
		} else {
			static = e
		}
	}
	if static == nil {
		t.Fatalf("resolved static call edge dropped; edges: %+v", g.Edges)
	}
	if dynamic == nil {
		t.Fatalf("dynamic placeholder edge dropped; edges: %+v", g.Edges)
	}
	if findNode(g, "PROG-B", NodeExternal) == nil {
		t.Fatalf("dynamic call must keep its placeholder node")
	}

	swapped := Build([]analyzer.Program{
		program("PROG-A", "a.cbl", []cobol.Call{staticCall("PROG-B"), dynamicCall("PROG-B")}),
		program("PROG-B", "b.cbl", []cobol.Call{staticCall("PROG-A")}),
	})
	if !reflect.DeepEqual(g, swapped) {
		t.Fatalf("edge set depends on call extraction order")
	}
}

func TestBuildConflicts(t *testing.T) {
	programs := []analyzer.Program{
		program("PAYROLL", "old/payroll.cbl", nil),
		program("PAYROLL", "new/payroll.cbl", nil),
		program("CALLER", "caller.cbl", []cobol.Call{staticCall("PAYROLL")}),
	}
	g := Build(programs)

	if len(g.Conflicts) != 1 {
		t.Fatalf("expected exactly one conflict, got %d", len(g.Conflicts))
	}
	conflict := g.Conflicts[0]
	if conflict.ProgramID != "PAYROLL" {
		t.Fatalf("unexpected conflict id: %s", conflict.ProgramID)
	}
	wantPaths := []string{"new/payroll.cbl", "old/payroll.cbl"}
	if !reflect.DeepEqual(conflict.Paths, wantPaths) {
		t.Fatalf("conflict must reference both files, got %v", conflict.Paths)
	}
	// Both programs stay in the graph as separate entries.
	count := 0
	for _, n := range g.Nodes {
		if n.Kind == NodeProgram && n.ID == "PAYROLL" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 PAYROLL entries, got %d", count)
	}
	// Edges against the duplicated id still resolve.
	resolved := false
	for _, e := range g.Edges {
		if e.Kind == EdgeCalls && e.From == "CALLER" && e.To == "PAYROLL" {
			resolved = true
		}
	}
	if !resolved {
		t.Fatalf("call against duplicated id must still resolve")
	}
}

func TestBuildOrderIndependent(t *testing.T) {
	a := program("PROG-A", "a.cbl", []cobol.Call{staticCall("PROG-B")}, "SHARED-FILE")
	b := program("PROG-B", "b.cbl", []cobol.Call{staticCall("PROG-C")})
	c := program("PROG-C", "c.cbl", nil, "SHARED-FILE")

	forward := Build([]analyzer.Program{a, b, c})
	reversed := Build([]analyzer.Program{c, b, a})
	if !reflect.DeepEqual(forward, reversed) {
		t.Fatalf("graph depends on scan order")
	}
}

func TestBuildCompleteness(t *testing.T) {
	programs := []analyzer.Program{
		program("PROG-A", "a.cbl", []cobol.Call{staticCall("PROG-B"), staticCall("GONE")}, "F1", "F2"),
		program("PROG-B", "b.cbl", nil, "F2"),
	}
	g := Build(programs)
	// 2 programs + 2 files + 1 external placeholder.
	if len(g.Nodes) < 5 {
		t.Fatalf("reference dropped: %d nodes", len(g.Nodes))
	}
	stats := g.Stats()
	if stats.ProgramNodes != 2 || stats.FileNodes != 2 || stats.ExternalNodes != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.CallEdges != 2 || stats.FileEdges != 3 {
		t.Fatalf("unexpected edge counts: %+v", stats)
	}
}

func TestStatsIsolatedPrograms(t *testing.T) {
	programs := []analyzer.Program{
		program("LONER", "loner.cbl", nil),
		program("PROG-A", "a.cbl", []cobol.Call{staticCall("PROG-B")}),
		program("PROG-B", "b.cbl", nil),
	}
	stats := Build(programs).Stats()
	if stats.IsolatedPrograms != 1 {
		t.Fatalf("expected 1 isolated program, got %d", stats.IsolatedPrograms)
	}
}

func TestStatsStronglyConnectedComponents(t *testing.T) {
	programs := []analyzer.Program{
		program("PROG-A", "a.cbl", []cobol.Call{staticCall("PROG-B")}, "SHARED-FILE"),
		program("PROG-B", "b.cbl", []cobol.Call{staticCall("PROG-A")}),
		program("LONER", "loner.cbl", nil),
	}
	stats := Build(programs).Stats()
	// {PROG-A, PROG-B} plus the LONER and SHARED-FILE singletons.
	if stats.StronglyConnectedComponents != 3 {
		t.Fatalf("expected 3 strongly connected components, got %d", stats.StronglyConnectedComponents)
	}
}

func TestStatsSCCsAllSingletons(t *testing.T) {
	programs := []analyzer.Program{
		program("PROG-A", "a.cbl", []cobol.Call{staticCall("PROG-B")}),
		program("PROG-B", "b.cbl", nil),
	}
	stats := Build(programs).Stats()
	if stats.StronglyConnectedComponents != 2 {
		t.Fatalf("acyclic graph must have one SCC per node, got %d", stats.StronglyConnectedComponents)
	}
}

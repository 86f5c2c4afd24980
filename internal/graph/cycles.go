// File path: internal/graph/cycles.go
package graph

import (
	"sort"
	"strings"

	"github.com/nicodishanthj/cobolscope/internal/common"
)

// Cycle is a closed path of CALL edges: the first program id repeats as the
// last element. Cycles are canonicalized by rotating to the
// lexicographically smallest id so the same loop is reported once no matter
// where traversal entered it.
type Cycle []string

// String renders the cycle in report form, e.g. "PROG-A -> PROG-B -> PROG-A".
func (c Cycle) String() string {
	return strings.Join(c, " -> ")
}

// Cycles returns every distinct cycle among resolved CALL edges. File-access
// edges cannot participate, and external placeholder nodes have no outgoing
// edges, so traversal is restricted to program nodes. A program calling
// itself is a valid length-1 cycle.
func (g *Graph) Cycles() []Cycle {
	logger := common.Logger()

	programSet := make(map[string]struct{})
	for _, n := range g.Nodes {
		if n.Kind == NodeProgram {
			programSet[n.ID] = struct{}{}
		}
	}
	adjacency := make(map[string][]string)
	for _, e := range g.Edges {
		if e.Kind != EdgeCalls || e.Dynamic {
			// Dynamic edges point at placeholders even when the target name
			// shadows an analyzed program, so they can never close a cycle.
			continue
		}
		if _, ok := programSet[e.To]; !ok {
			continue
		}
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}
	for from := range adjacency {
		sort.Strings(adjacency[from])
	}

	seen := make(map[string]struct{})
	var cycles []Cycle

	var stack []string
	onStack := make(map[string]int)

	var dfs func(node string)
	dfs = func(node string) {
		if pos, ok := onStack[node]; ok {
			record(stack[pos:], seen, &cycles)
			return
		}
		onStack[node] = len(stack)
		stack = append(stack, node)
		for _, next := range adjacency[node] {
			dfs(next)
		}
		stack = stack[:len(stack)-1]
		delete(onStack, node)
	}

	for _, start := range g.ProgramIDs() {
		dfs(start)
	}

	sort.SliceStable(cycles, func(i, j int) bool {
		if len(cycles[i]) != len(cycles[j]) {
			return len(cycles[i]) < len(cycles[j])
		}
		return cycles[i].String() < cycles[j].String()
	})
	if len(cycles) > 0 {
		logger.Info("graph: cycles detected", "count", len(cycles))
	}
	return cycles
}

// record canonicalizes the open path (no repeated endpoint) and stores it if
// the rotation has not been reported yet.
func record(path []string, seen map[string]struct{}, cycles *[]Cycle) {
	if len(path) == 0 {
		return
	}
	rotated := canonicalRotation(path)
	key := strings.Join(rotated, "|")
	if _, dup := seen[key]; dup {
		return
	}
	seen[key] = struct{}{}
	closed := make(Cycle, 0, len(rotated)+1)
	closed = append(closed, rotated...)
	closed = append(closed, rotated[0])
	*cycles = append(*cycles, closed)
}

// canonicalRotation rotates the sequence so it starts at its
// lexicographically smallest element.
func canonicalRotation(path []string) []string {
	smallest := 0
	for i, id := range path {
		if id < path[smallest] {
			smallest = i
		}
	}
	out := make([]string, 0, len(path))
	out = append(out, path[smallest:]...)
	out = append(out, path[:smallest]...)
	return out
}

// File path: internal/graph/builder.go
package graph

import (
	"sort"
	"strings"

	"github.com/nicodishanthj/cobolscope/internal/analyzer"
	"github.com/nicodishanthj/cobolscope/internal/analyzer/cobol"
	"github.com/nicodishanthj/cobolscope/internal/common"
)

// Build constructs the dependency graph from a batch's Program set. It is a
// pure function of its input: nodes and edges come out sorted, so the result
// does not depend on the order files were scanned.
//
// Resolution is case-insensitive on the normalized program id. A static CALL
// whose target matches no analyzed program becomes an external placeholder
// node; dynamic CALL targets are always external since a data item cannot be
// resolved at analysis time. File references become file nodes deduplicated
// on the normalized declared name.
func Build(programs []analyzer.Program) *Graph {
	logger := common.Logger()

	known := make(map[string][]analyzer.Program)
	for _, p := range programs {
		id := Normalize(p.ID)
		if id == "" {
			continue
		}
		known[id] = append(known[id], p)
	}

	g := &Graph{}
	seenNodes := make(map[string]struct{})
	seenEdges := make(map[string]struct{})

	addNode := func(n Node) {
		key := string(n.Kind) + "|" + n.ID + "|" + n.SourcePath
		if _, dup := seenNodes[key]; dup {
			return
		}
		seenNodes[key] = struct{}{}
		g.Nodes = append(g.Nodes, n)
	}
	addEdge := func(e Edge) {
		// Dynamic is part of edge identity: a program can make both a static
		// and a dynamic call to the same name, and the resolved edge must
		// survive alongside the placeholder one.
		key := string(e.Kind) + "|" + e.From + "|" + e.To
		if e.Dynamic {
			key += "|dynamic"
		}
		if _, dup := seenEdges[key]; dup {
			return
		}
		seenEdges[key] = struct{}{}
		g.Edges = append(g.Edges, e)
	}

	for _, p := range programs {
		id := Normalize(p.ID)
		if id == "" {
			continue
		}
		addNode(Node{
			ID:         id,
			Name:       p.ID,
			Kind:       NodeProgram,
			SourcePath: p.SourcePath,
			Lines:      p.TotalLines,
		})
		for _, call := range p.Calls {
			target := Normalize(call.Target)
			if target == "" {
				continue
			}
			_, resolved := known[target]
			if call.Kind == cobol.CallDynamic || !resolved {
				addNode(Node{ID: target, Name: call.Target, Kind: NodeExternal})
				addEdge(Edge{From: id, To: target, Kind: EdgeCalls, Dynamic: call.Kind == cobol.CallDynamic})
				continue
			}
			addEdge(Edge{From: id, To: target, Kind: EdgeCalls})
		}
		for _, file := range p.Files {
			name := Normalize(file)
			if name == "" {
				continue
			}
			addNode(Node{ID: name, Name: file, Kind: NodeFile})
			addEdge(Edge{From: id, To: name, Kind: EdgeAccessesFile})
		}
	}

	for id, owners := range known {
		if len(owners) < 2 {
			continue
		}
		paths := make([]string, 0, len(owners))
		for _, p := range owners {
			paths = append(paths, p.SourcePath)
		}
		sort.Strings(paths)
		g.Conflicts = append(g.Conflicts, Conflict{ProgramID: id, Paths: paths})
		logger.Warn("graph: duplicate program id", "program", id, "paths", strings.Join(paths, ", "))
	}

	sort.SliceStable(g.Nodes, func(i, j int) bool {
		if g.Nodes[i].Kind != g.Nodes[j].Kind {
			return g.Nodes[i].Kind < g.Nodes[j].Kind
		}
		if g.Nodes[i].ID != g.Nodes[j].ID {
			return g.Nodes[i].ID < g.Nodes[j].ID
		}
		return g.Nodes[i].SourcePath < g.Nodes[j].SourcePath
	})
	sort.SliceStable(g.Edges, func(i, j int) bool {
		if g.Edges[i].Kind != g.Edges[j].Kind {
			return g.Edges[i].Kind < g.Edges[j].Kind
		}
		if g.Edges[i].From != g.Edges[j].From {
			return g.Edges[i].From < g.Edges[j].From
		}
		if g.Edges[i].To != g.Edges[j].To {
			return g.Edges[i].To < g.Edges[j].To
		}
		return !g.Edges[i].Dynamic && g.Edges[j].Dynamic
	})
	sort.SliceStable(g.Conflicts, func(i, j int) bool {
		return g.Conflicts[i].ProgramID < g.Conflicts[j].ProgramID
	})
	logger.Info("graph: built", "nodes", len(g.Nodes), "edges", len(g.Edges), "conflicts", len(g.Conflicts))
	return g
}

// Normalize maps an identifier to the canonical form used for node identity
// and resolution.
func Normalize(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Stats computes summary counts over the graph.
func (g *Graph) Stats() Stats {
	stats := Stats{TotalNodes: len(g.Nodes)}
	connected := make(map[string]struct{})
	for _, e := range g.Edges {
		switch e.Kind {
		case EdgeCalls:
			stats.CallEdges++
		case EdgeAccessesFile:
			stats.FileEdges++
		}
		connected[e.From] = struct{}{}
		connected[e.To] = struct{}{}
	}
	for _, n := range g.Nodes {
		switch n.Kind {
		case NodeProgram:
			stats.ProgramNodes++
			if _, ok := connected[n.ID]; !ok {
				stats.IsolatedPrograms++
			}
		case NodeFile:
			stats.FileNodes++
		case NodeExternal:
			stats.ExternalNodes++
		}
	}
	stats.StronglyConnectedComponents = g.countSCCs()
	return stats
}

// countSCCs runs Tarjan's algorithm over the distinct node ids using every
// edge kind. Only call cycles can merge ids into one component; file and
// placeholder ids always count as singletons.
func (g *Graph) countSCCs() int {
	adjacency := make(map[string][]string)
	ids := make(map[string]struct{})
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}
	for _, e := range g.Edges {
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}

	index := make(map[string]int, len(ids))
	lowlink := make(map[string]int, len(ids))
	onStack := make(map[string]bool, len(ids))
	var stack []string
	next := 0
	count := 0

	var strongconnect func(id string)
	strongconnect = func(id string) {
		index[id] = next
		lowlink[id] = next
		next++
		stack = append(stack, id)
		onStack[id] = true

		for _, to := range adjacency[id] {
			if _, seen := index[to]; !seen {
				strongconnect(to)
				if lowlink[to] < lowlink[id] {
					lowlink[id] = lowlink[to]
				}
			} else if onStack[to] && index[to] < lowlink[id] {
				lowlink[id] = index[to]
			}
		}

		if lowlink[id] == index[id] {
			count++
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				if top == id {
					break
				}
			}
		}
	}

	for id := range ids {
		if _, seen := index[id]; !seen {
			strongconnect(id)
		}
	}
	return count
}

// ProgramIDs returns the sorted normalized ids of all program nodes.
func (g *Graph) ProgramIDs() []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, n := range g.Nodes {
		if n.Kind != NodeProgram {
			continue
		}
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)
	return ids
}

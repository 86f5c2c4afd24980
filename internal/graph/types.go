// File path: internal/graph/types.go
package graph

// NodeKind categorizes graph nodes. External nodes stand in for call targets
// that were never analyzed; they have no outgoing edges.
type NodeKind string

const (
	NodeProgram  NodeKind = "program"
	NodeFile     NodeKind = "file"
	NodeExternal NodeKind = "external"
)

// EdgeKind tags the relation an edge represents.
type EdgeKind string

const (
	EdgeCalls        EdgeKind = "calls"
	EdgeAccessesFile EdgeKind = "accesses_file"
)

// Node is a single graph entry. ID is the normalized (upper-case) identity
// used for edge endpoints; Name keeps the verbatim spelling from the source.
// Duplicate program ids yield one Node per source file sharing the same ID,
// surfaced through a Conflict.
type Node struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       NodeKind `json:"kind"`
	SourcePath string   `json:"source_path,omitempty"`
	Lines      int      `json:"lines,omitempty"`
}

// Edge is a directed relation between two node ids. Dynamic marks a CALL
// whose target is a data item rather than a literal; such edges always point
// at an external node.
type Edge struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Kind    EdgeKind `json:"kind"`
	Dynamic bool     `json:"dynamic,omitempty"`
}

// Conflict reports a program id declared by more than one analyzed file.
// Both programs stay in the graph as separate entries; the conflict exists
// purely for caller visibility.
type Conflict struct {
	ProgramID string   `json:"program_id"`
	Paths     []string `json:"paths"`
}

// Stats summarizes a built graph for reports.
type Stats struct {
	TotalNodes       int `json:"total_nodes"`
	ProgramNodes     int `json:"program_nodes"`
	FileNodes        int `json:"file_nodes"`
	ExternalNodes    int `json:"external_nodes"`
	CallEdges        int `json:"call_edges"`
	FileEdges        int `json:"file_edges"`
	IsolatedPrograms int `json:"isolated_programs"`
	// StronglyConnectedComponents counts SCCs over the whole graph,
	// singleton components included.
	StronglyConnectedComponents int `json:"strongly_connected_components"`
}

// Graph is the dependency graph over a batch of Program records. It is a
// pure value computed by Build; nothing mutates it afterwards.
type Graph struct {
	Nodes     []Node     `json:"nodes"`
	Edges     []Edge     `json:"edges"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

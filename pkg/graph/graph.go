package graph

import (
	"strings"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// NodeType classifies a node in the dependency graph.
type NodeType string

// Node types.
const (
	TypeAPI       NodeType = "api"
	TypeService   NodeType = "service"
	TypeComponent NodeType = "component"
	TypeUtil      NodeType = "util"
	TypeModel     NodeType = "model"
	TypeModule    NodeType = "module"
)

// ValidTypes is the set of supported node types.
var ValidTypes = map[NodeType]bool{
	TypeAPI:       true,
	TypeService:   true,
	TypeComponent: true,
	TypeUtil:      true,
	TypeModel:     true,
	TypeModule:    true,
}

// =============================================================================
// Node - Graph Vertex
// =============================================================================

// Node is a vertex in the dependency graph.
// Identity is ID; Name is a display label and may duplicate across nodes.
type Node struct {
	ID         string   `json:"id" bson:"id"`
	Name       string   `json:"name" bson:"name"`
	Type       NodeType `json:"type,omitempty" bson:"type,omitempty"`
	IssueCount int      `json:"issue_count,omitempty" bson:"issue_count,omitempty"`
}

// DisplayName returns the name if set, otherwise the ID.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Matches reports whether the node's name or ID contains the query as a
// case-insensitive substring. An empty query matches everything.
func (n *Node) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(n.Name), q) ||
		strings.Contains(strings.ToLower(n.ID), q)
}

// =============================================================================
// Edge - Directed Dependency
// =============================================================================

// Edge represents a directed edge in the dependency graph.
// From and To may reference a node by ID or by Name; an edge whose endpoints
// cannot be resolved is kept for summary statistics but skipped by layout
// and rendering.
type Edge struct {
	From       string `json:"from" bson:"from"`
	To         string `json:"to" bson:"to"`
	Type       string `json:"type,omitempty" bson:"type,omitempty"`
	IsCircular bool   `json:"is_circular,omitempty" bson:"is_circular,omitempty"`
}

// =============================================================================
// Graph - Immutable Input Representation
// =============================================================================

// Graph is the canonical representation of a dependency graph together with
// its precomputed circular-dependency cycles.
//
// A Graph is replaced wholesale when the input changes; it is never patched
// incrementally. The derived indexes (id→node, name→node, circular-node set)
// are built once in New and treated as read-only afterward.
type Graph struct {
	Nodes        []Node     `json:"nodes" bson:"nodes"`
	Edges        []Edge     `json:"edges" bson:"edges"`
	CircularDeps [][]string `json:"circular_deps,omitempty" bson:"circular_deps,omitempty"`

	byID     map[string]int
	byName   map[string]int
	circular map[string]bool
}

// New builds a Graph and its derived indexes.
// Nodes, edges, and cycles are taken as-is; the caller must not mutate the
// slices afterward.
func New(nodes []Node, edges []Edge, circularDeps [][]string) *Graph {
	g := &Graph{
		Nodes:        nodes,
		Edges:        edges,
		CircularDeps: circularDeps,
	}
	g.reindex()
	return g
}

// reindex rebuilds the derived lookup structures. The circular-node set is
// recomputed from scratch as the union of all cycle members, never mutated
// incrementally.
func (g *Graph) reindex() {
	g.byID = make(map[string]int, len(g.Nodes))
	g.byName = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.byID[n.ID] = i
		// First name wins when names collide; ID lookup takes priority anyway.
		if n.Name != "" {
			if _, ok := g.byName[n.Name]; !ok {
				g.byName[n.Name] = i
			}
		}
	}

	g.circular = make(map[string]bool)
	for _, cycle := range g.CircularDeps {
		for _, id := range cycle {
			g.circular[id] = true
		}
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges, including dangling ones.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Resolve looks up a node by ID first, then by Name.
// This dual resolution mirrors the tolerant input contract: edges may
// reference either identifier.
func (g *Graph) Resolve(ref string) (*Node, bool) {
	if i, ok := g.byID[ref]; ok {
		return &g.Nodes[i], true
	}
	if i, ok := g.byName[ref]; ok {
		return &g.Nodes[i], true
	}
	return nil, false
}

// Endpoints resolves both endpoints of the i-th edge.
// ok is false when either endpoint is dangling.
func (g *Graph) Endpoints(i int) (from, to *Node, ok bool) {
	e := g.Edges[i]
	f, okF := g.Resolve(e.From)
	t, okT := g.Resolve(e.To)
	if !okF || !okT {
		return nil, nil, false
	}
	return f, t, true
}

// InCycle reports whether the node with the given ID belongs to any cycle.
func (g *Graph) InCycle(id string) bool { return g.circular[id] }

// CircularNodeIDs returns the set union of all cycle members.
func (g *Graph) CircularNodeIDs() map[string]bool {
	out := make(map[string]bool, len(g.circular))
	for id := range g.circular {
		out[id] = true
	}
	return out
}

// EdgeCircular reports whether the i-th edge should render as circular:
// either the edge is flagged explicitly, or both endpoints resolve to
// members of the circular-node set.
func (g *Graph) EdgeCircular(i int) bool {
	e := g.Edges[i]
	if e.IsCircular {
		return true
	}
	from, to, ok := g.Endpoints(i)
	if !ok {
		return false
	}
	return g.circular[from.ID] && g.circular[to.ID]
}

// =============================================================================
// Stats - Summary Statistics
// =============================================================================

// Stats summarizes a graph for display. Dangling edges are counted here even
// though they are excluded from layout and rendering.
type Stats struct {
	Nodes         int `json:"nodes"`
	Edges         int `json:"edges"`
	DanglingEdges int `json:"dangling_edges"`
	Cycles        int `json:"cycles"`
	CircularNodes int `json:"circular_nodes"`
}

// Stats computes summary statistics for the graph.
func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:         len(g.Nodes),
		Edges:         len(g.Edges),
		Cycles:        len(g.CircularDeps),
		CircularNodes: len(g.circular),
	}
	for i := range g.Edges {
		if _, _, ok := g.Endpoints(i); !ok {
			s.DanglingEdges++
		}
	}
	return s
}

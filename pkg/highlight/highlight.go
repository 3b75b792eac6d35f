// Package highlight computes per-node and per-edge visual states from the
// current selection and search query.
//
// Selection and search act independently: selection partitions nodes and
// edges into highlighted/connected/faded groups, while a search query
// filters non-matching nodes out of the visible set. Filtering affects
// presentation only; the physics simulation always runs on the full graph.
package highlight

import (
	"github.com/lukasmeier/depscope/pkg/graph"
)

// =============================================================================
// Visual States
// =============================================================================

// NodeState is the visual state of a node.
type NodeState string

// Node states.
const (
	NodeNormal      NodeState = "normal"
	NodeSelected    NodeState = "selected"
	NodeConnected   NodeState = "connected"
	NodeFaded       NodeState = "faded"
	NodeFilteredOut NodeState = "filtered-out"
)

// EdgeState is the visual state of an edge.
type EdgeState string

// Edge states. Circular takes rendering priority over faded: a cycle stays
// visible regardless of the selection.
const (
	EdgeNormal      EdgeState = "normal"
	EdgeHighlighted EdgeState = "highlighted"
	EdgeFaded       EdgeState = "faded"
	EdgeCircular    EdgeState = "circular"
)

// =============================================================================
// Selection State
// =============================================================================

// State is the UI-session-scoped selection state. It persists across graph
// replacements unless explicitly reset.
type State struct {
	SelectedNodeID string `json:"selected_node_id,omitempty"`
	SearchQuery    string `json:"search_query,omitempty"`
	HoveredNodeID  string `json:"hovered_node_id,omitempty"`
}

// Reset clears selection, search, and hover.
func (s *State) Reset() {
	*s = State{}
}

// =============================================================================
// Highlight Computation
// =============================================================================

// Result holds the computed visual state for every node and edge.
// Edges are keyed by index because edges have no identity of their own.
type Result struct {
	Nodes map[string]NodeState
	Edges map[int]EdgeState
}

// ConnectedEdges returns the indexes of edges marked highlighted, i.e. the
// edges touching the current selection.
func (r Result) ConnectedEdges() []int {
	var out []int
	for i, st := range r.Edges {
		if st == EdgeHighlighted {
			out = append(out, i)
		}
	}
	return out
}

// Compute derives the visual state of every node and edge from the
// selection and search query.
//
// With a selection: edges touching the selected node (resolved by id or
// name, direction-agnostic) are highlighted and their far endpoints marked
// connected; everything else fades. With a search query: nodes whose name
// and id both miss the query are filtered out, except the selected node
// and its connected neighbors, which stay visible. Circular edges always
// report EdgeCircular.
func Compute(g *graph.Graph, st State) Result {
	res := Result{
		Nodes: make(map[string]NodeState, g.NodeCount()),
		Edges: make(map[int]EdgeState, g.EdgeCount()),
	}

	selected, hasSelection := (*graph.Node)(nil), false
	if st.SelectedNodeID != "" {
		if n, ok := g.Resolve(st.SelectedNodeID); ok {
			selected, hasSelection = n, true
		}
	}

	// Pass 1: edge states and the connected-node set.
	connected := make(map[string]bool)
	for i := range g.Edges {
		from, to, ok := g.Endpoints(i)
		if !ok {
			// Dangling edges never render; fade keeps the state total.
			res.Edges[i] = EdgeFaded
			continue
		}

		state := EdgeNormal
		if hasSelection {
			switch selected.ID {
			case from.ID:
				state = EdgeHighlighted
				connected[to.ID] = true
			case to.ID:
				state = EdgeHighlighted
				connected[from.ID] = true
			default:
				state = EdgeFaded
			}
		}

		// Cycles stay visible regardless of selection.
		if g.EdgeCircular(i) {
			state = EdgeCircular
		}
		res.Edges[i] = state
	}

	// Pass 2: node states.
	for i := range g.Nodes {
		n := &g.Nodes[i]

		state := NodeNormal
		if hasSelection {
			switch {
			case n.ID == selected.ID:
				state = NodeSelected
			case connected[n.ID]:
				state = NodeConnected
			default:
				state = NodeFaded
			}
		}

		// Search filters presentation only; selection and its neighbors
		// stay visible even when they miss the query.
		if st.SearchQuery != "" && !n.Matches(st.SearchQuery) {
			if state != NodeSelected && state != NodeConnected {
				state = NodeFilteredOut
			}
		}

		res.Nodes[n.ID] = state
	}

	return res
}

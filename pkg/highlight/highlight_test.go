package highlight

import (
	"testing"

	"github.com/lukasmeier/depscope/pkg/graph"
)

func testGraph() *graph.Graph {
	return graph.New(
		[]graph.Node{
			{ID: "A", Name: "apiGateway"},
			{ID: "B", Name: "userService"},
			{ID: "C", Name: "billing"},
			{ID: "D", Name: "models"},
		},
		[]graph.Edge{
			{From: "A", To: "B"},
			{From: "C", To: "D"},
		},
		nil,
	)
}

func TestComputeNoSelectionNoQuery(t *testing.T) {
	res := Compute(testGraph(), State{})

	for id, st := range res.Nodes {
		if st != NodeNormal {
			t.Errorf("node %s = %s, want normal", id, st)
		}
	}
	for i, st := range res.Edges {
		if st != EdgeNormal {
			t.Errorf("edge %d = %s, want normal", i, st)
		}
	}
}

func TestComputeSelection(t *testing.T) {
	// Selecting A with edges A→B, C→D: B is connected, C and D fade,
	// edge A→B is highlighted, edge C→D fades.
	res := Compute(testGraph(), State{SelectedNodeID: "A"})

	wantNodes := map[string]NodeState{
		"A": NodeSelected,
		"B": NodeConnected,
		"C": NodeFaded,
		"D": NodeFaded,
	}
	for id, want := range wantNodes {
		if got := res.Nodes[id]; got != want {
			t.Errorf("node %s = %s, want %s", id, got, want)
		}
	}

	if res.Edges[0] != EdgeHighlighted {
		t.Errorf("edge A→B = %s, want highlighted", res.Edges[0])
	}
	if res.Edges[1] != EdgeFaded {
		t.Errorf("edge C→D = %s, want faded", res.Edges[1])
	}
}

func TestComputeSelectionDirectionAgnostic(t *testing.T) {
	// Selecting the edge target also highlights the edge and connects the
	// source: edges are directed, but highlighting is not.
	res := Compute(testGraph(), State{SelectedNodeID: "B"})

	if res.Nodes["A"] != NodeConnected {
		t.Errorf("node A = %s, want connected", res.Nodes["A"])
	}
	if res.Edges[0] != EdgeHighlighted {
		t.Errorf("edge A→B = %s, want highlighted", res.Edges[0])
	}
}

func TestComputeSelectionByNameEdge(t *testing.T) {
	// Edges referencing endpoints by display name still count as
	// connected to a selection made by id.
	g := graph.New(
		[]graph.Node{
			{ID: "A", Name: "apiGateway"},
			{ID: "B", Name: "userService"},
		},
		[]graph.Edge{{From: "apiGateway", To: "userService"}},
		nil,
	)

	res := Compute(g, State{SelectedNodeID: "A"})
	if res.Edges[0] != EdgeHighlighted {
		t.Errorf("edge = %s, want highlighted", res.Edges[0])
	}
	if res.Nodes["B"] != NodeConnected {
		t.Errorf("node B = %s, want connected", res.Nodes["B"])
	}
}

func TestSelectionSymmetry(t *testing.T) {
	// Every node marked connected must share an edge with the selection.
	g := testGraph()
	res := Compute(g, State{SelectedNodeID: "A"})

	for id, st := range res.Nodes {
		if st != NodeConnected {
			continue
		}
		found := false
		for i := range g.Edges {
			from, to, ok := g.Endpoints(i)
			if !ok {
				continue
			}
			if (from.ID == "A" && to.ID == id) || (to.ID == "A" && from.ID == id) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("node %s connected without a linking edge", id)
		}
	}
}

func TestComputeSearch(t *testing.T) {
	// Query "api" with nodes apiGateway and userService: only apiGateway
	// keeps a visible state.
	g := graph.New(
		[]graph.Node{
			{ID: "A", Name: "apiGateway"},
			{ID: "B", Name: "userService"},
		},
		nil, nil,
	)

	res := Compute(g, State{SearchQuery: "api"})
	if res.Nodes["A"] != NodeNormal {
		t.Errorf("apiGateway = %s, want normal", res.Nodes["A"])
	}
	if res.Nodes["B"] != NodeFilteredOut {
		t.Errorf("userService = %s, want filtered-out", res.Nodes["B"])
	}
}

func TestComputeSearchSparesConnected(t *testing.T) {
	// A connected neighbor that misses the query stays visible: selection
	// highlighting suppresses the filter for connected nodes.
	res := Compute(testGraph(), State{SelectedNodeID: "A", SearchQuery: "api"})

	if res.Nodes["A"] != NodeSelected {
		t.Errorf("A = %s, want selected", res.Nodes["A"])
	}
	if res.Nodes["B"] != NodeConnected {
		t.Errorf("B = %s, want connected (filter suppressed)", res.Nodes["B"])
	}
	if res.Nodes["C"] != NodeFilteredOut {
		t.Errorf("C = %s, want filtered-out", res.Nodes["C"])
	}
}

func TestComputeCircularPrecedence(t *testing.T) {
	// All edges among cycle members render circular regardless of the
	// selection state.
	g := graph.New(
		[]graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "X"}},
		[]graph.Edge{
			{From: "A", To: "B"},
			{From: "B", To: "C"},
			{From: "C", To: "A"},
			{From: "X", To: "A"},
		},
		[][]string{{"A", "B", "C"}},
	)

	tests := []struct {
		name string
		st   State
	}{
		{name: "NoSelection", st: State{}},
		{name: "SelectionInsideCycle", st: State{SelectedNodeID: "A"}},
		{name: "SelectionOutsideCycle", st: State{SelectedNodeID: "X"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(g, tt.st)
			for i := 0; i < 3; i++ {
				if res.Edges[i] != EdgeCircular {
					t.Errorf("cycle edge %d = %s, want circular", i, res.Edges[i])
				}
			}
			if res.Edges[3] == EdgeCircular {
				t.Error("edge X→A outside the cycle marked circular")
			}
		})
	}
}

func TestComputeDanglingEdgeFaded(t *testing.T) {
	g := graph.New(
		[]graph.Node{{ID: "A"}},
		[]graph.Edge{{From: "A", To: "ghost"}},
		nil,
	)

	res := Compute(g, State{})
	if res.Edges[0] != EdgeFaded {
		t.Errorf("dangling edge = %s, want faded", res.Edges[0])
	}
}

func TestConnectedEdges(t *testing.T) {
	res := Compute(testGraph(), State{SelectedNodeID: "A"})

	got := res.ConnectedEdges()
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("connected edges = %v, want [0]", got)
	}
}

func TestStateReset(t *testing.T) {
	st := State{SelectedNodeID: "A", SearchQuery: "api", HoveredNodeID: "B"}
	st.Reset()

	if st != (State{}) {
		t.Errorf("after reset: %+v", st)
	}
}

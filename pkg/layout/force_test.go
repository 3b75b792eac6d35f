package layout

import (
	"math"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lukasmeier/depscope/pkg/graph"
)

func vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

const (
	testWidth  = 800.0
	testHeight = 600.0
)

func TestComputeEmptyGraph(t *testing.T) {
	g := graph.New(nil, nil, nil)

	got := Compute(g, testWidth, testHeight)
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestComputeDeterministic(t *testing.T) {
	g := testGraph()

	a := Compute(g, testWidth, testHeight)
	b := Compute(g, testWidth, testHeight)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y {
			t.Errorf("node %s: (%f,%f) vs (%f,%f)", a[i].ID, a[i].X, a[i].Y, b[i].X, b[i].Y)
		}
	}
}

func TestComputeBoundaryContainment(t *testing.T) {
	tests := []struct {
		name   string
		nodes  int
		width  float64
		height float64
	}{
		{name: "Few", nodes: 3, width: 800, height: 600},
		{name: "Many", nodes: 80, width: 800, height: 600},
		{name: "SmallFrame", nodes: 20, width: 200, height: 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := make([]graph.Node, tt.nodes)
			var edges []graph.Edge
			for i := range nodes {
				nodes[i] = graph.Node{ID: string(rune('a' + i%26)) + string(rune('0'+i/26))}
				if i > 0 {
					edges = append(edges, graph.Edge{From: nodes[i-1].ID, To: nodes[i].ID})
				}
			}
			g := graph.New(nodes, edges, nil)

			for _, p := range Compute(g, tt.width, tt.height) {
				if p.X < MarginX || p.X > tt.width-MarginX {
					t.Errorf("node %s: x = %f outside [%f, %f]", p.ID, p.X, MarginX, tt.width-MarginX)
				}
				if p.Y < MarginY || p.Y > tt.height-MarginY {
					t.Errorf("node %s: y = %f outside [%f, %f]", p.ID, p.Y, MarginY, tt.height-MarginY)
				}
			}
		})
	}
}

func TestComputeTwoNodeEquilibrium(t *testing.T) {
	g := graph.New(
		[]graph.Node{{ID: "A"}, {ID: "B"}},
		[]graph.Edge{{From: "A", To: "B"}},
		nil,
	)

	out := Compute(g, testWidth, testHeight)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}

	dx := out[0].X - out[1].X
	dy := out[0].Y - out[1].Y
	dist := math.Hypot(dx, dy)

	// Attraction/repulsion balance at d³ = repulsion/attraction ≈ 79.4.
	// After 50 damped iterations the pair should be near it: clearly
	// separated, clearly not flung to the frame border.
	if dist < 10 {
		t.Errorf("distance %f: nodes collapsed together", dist)
	}
	if dist > 400 {
		t.Errorf("distance %f: nodes diverged", dist)
	}
}

func TestComputeDanglingEdgeTolerated(t *testing.T) {
	g := graph.New(
		[]graph.Node{{ID: "A"}, {ID: "B"}},
		[]graph.Edge{
			{From: "A", To: "B"},
			{From: "A", To: "ghost"},
			{From: "phantom", To: "B"},
		},
		nil,
	)

	out := Compute(g, testWidth, testHeight) // must not panic
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	nodes := []graph.Node{{ID: "A", Name: "alpha"}, {ID: "B", Name: "beta"}}
	edges := []graph.Edge{{From: "A", To: "B"}}
	g := graph.New(nodes, edges, nil)

	Compute(g, testWidth, testHeight)

	if nodes[0].Name != "alpha" || nodes[1].Name != "beta" {
		t.Error("input nodes mutated")
	}
	if edges[0].From != "A" || edges[0].To != "B" {
		t.Error("input edges mutated")
	}
}

func TestComputeResolvesEdgesByName(t *testing.T) {
	// Same topology expressed by ID and by name must land identically.
	byID := graph.New(
		[]graph.Node{{ID: "a", Name: "alpha"}, {ID: "b", Name: "beta"}},
		[]graph.Edge{{From: "a", To: "b"}},
		nil,
	)
	byName := graph.New(
		[]graph.Node{{ID: "a", Name: "alpha"}, {ID: "b", Name: "beta"}},
		[]graph.Edge{{From: "alpha", To: "beta"}},
		nil,
	)

	pa := Compute(byID, testWidth, testHeight)
	pb := Compute(byName, testWidth, testHeight)
	for i := range pa {
		if pa[i].X != pb[i].X || pa[i].Y != pb[i].Y {
			t.Errorf("node %d: positions differ between id and name resolution", i)
		}
	}
}

func TestClampToFrame(t *testing.T) {
	tests := []struct {
		name  string
		x, y  float64
		wantX float64
		wantY float64
	}{
		{name: "Inside", x: 400, y: 300, wantX: 400, wantY: 300},
		{name: "LeftTop", x: -10, y: -10, wantX: MarginX, wantY: MarginY},
		{name: "RightBottom", x: 9999, y: 9999, wantX: testWidth - MarginX, wantY: testHeight - MarginY},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampToFrame(vec(tt.x, tt.y), testWidth, testHeight)
			if got.X != tt.wantX || got.Y != tt.wantY {
				t.Errorf("got (%f,%f), want (%f,%f)", got.X, got.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	l := Layout{
		Width:  testWidth,
		Height: testHeight,
		Nodes: []PositionedNode{
			{Node: graph.Node{ID: "a", Name: "alpha"}, X: 100, Y: 200},
		},
	}

	path := filepath.Join(t.TempDir(), "graph.layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}

	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if len(got.Nodes) != 1 || got.Nodes[0].X != 100 || got.Nodes[0].Y != 200 {
		t.Errorf("round trip mismatch: %+v", got.Nodes)
	}
}

func TestUnmarshalLayoutRejectsZeroFrame(t *testing.T) {
	if _, err := UnmarshalLayout([]byte(`{"nodes": []}`)); err == nil {
		t.Error("expected error for missing frame size")
	}
}

func testGraph() *graph.Graph {
	return graph.New(
		[]graph.Node{
			{ID: "a", Name: "apiGateway", Type: graph.TypeAPI},
			{ID: "b", Name: "userService", Type: graph.TypeService},
			{ID: "c", Name: "shared", Type: graph.TypeUtil},
			{ID: "d", Name: "models", Type: graph.TypeModel},
		},
		[]graph.Edge{
			{From: "a", To: "b"},
			{From: "b", To: "c"},
			{From: "b", To: "d"},
			{From: "d", To: "c"},
		},
		nil,
	)
}

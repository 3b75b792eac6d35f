package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lukasmeier/depscope/pkg/engine"
	"github.com/lukasmeier/depscope/pkg/graph"
	"github.com/lukasmeier/depscope/pkg/viewport"
)

func testEngine() *engine.Engine {
	eng := engine.New(engine.Options{})
	eng.SetGraph(graph.New(
		[]graph.Node{
			{ID: "a", Name: "auth"},
			{ID: "b", Name: "billing"},
		},
		[]graph.Edge{{From: "a", To: "b"}},
		nil,
	))
	return eng
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{}
}

func TestZoomKeys(t *testing.T) {
	eng := testEngine()
	m := NewGraphModel(eng, nil)

	next, _ := m.Update(keyMsg("+"))
	m = next.(GraphModel)
	if got := eng.Viewport().Zoom; got != viewport.ZoomStep {
		t.Errorf("zoom after + = %g, want %g", got, viewport.ZoomStep)
	}

	next, _ = m.Update(keyMsg("-"))
	m = next.(GraphModel)
	if got := eng.Viewport().Zoom; got != 1.0 {
		t.Errorf("zoom after +- = %g, want 1", got)
	}
}

func TestArrowKeysPan(t *testing.T) {
	eng := testEngine()
	m := NewGraphModel(eng, nil)

	next, _ := m.Update(keyMsg("up"))
	_ = next
	if got := eng.Viewport().Pan.Y; got != panStep {
		t.Errorf("pan.Y after up = %g, want %g", got, panStep)
	}
}

func TestSearchMode(t *testing.T) {
	eng := testEngine()
	m := NewGraphModel(eng, nil)

	next, _ := m.Update(keyMsg("/"))
	m = next.(GraphModel)
	if !m.searching {
		t.Fatal("/ should enter search mode")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("auth")})
	m = next.(GraphModel)
	if eng.Selection().SearchQuery != "auth" {
		t.Errorf("search query = %q", eng.Selection().SearchQuery)
	}

	next, _ = m.Update(keyMsg("enter"))
	m = next.(GraphModel)
	if m.searching {
		t.Error("enter should leave search mode")
	}
	if eng.Selection().SearchQuery != "auth" {
		t.Error("enter should keep the query active")
	}
}

func TestSearchEscClears(t *testing.T) {
	eng := testEngine()
	m := NewGraphModel(eng, nil)

	next, _ := m.Update(keyMsg("/"))
	m = next.(GraphModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("au")})
	m = next.(GraphModel)
	next, _ = m.Update(keyMsg("esc"))
	m = next.(GraphModel)

	if m.searching {
		t.Error("esc should leave search mode")
	}
	if eng.Selection().SearchQuery != "" {
		t.Errorf("esc should clear the query, got %q", eng.Selection().SearchQuery)
	}
}

func TestResetKey(t *testing.T) {
	eng := testEngine()
	m := NewGraphModel(eng, nil)

	eng.ZoomIn()
	eng.Select("a")
	next, _ := m.Update(keyMsg("r"))
	_ = next

	if eng.Viewport().Zoom != 1.0 {
		t.Errorf("zoom after reset = %g", eng.Viewport().Zoom)
	}
	if eng.Selection().SelectedNodeID != "" {
		t.Error("reset should clear selection")
	}
}

func TestMouseClickSelects(t *testing.T) {
	eng := testEngine()
	m := NewGraphModel(eng, nil)

	dl := eng.DrawList()
	if len(dl.Nodes) == 0 {
		t.Fatal("empty draw list")
	}
	n := dl.Nodes[0]

	// Find a terminal cell whose reconstructed screen position lands
	// inside the node box; cell quantization can miss the exact center.
	sx, sy := m.canvasScale()
	ccx, ccy := int((n.X+n.W/2)*sx), int((n.Y+n.H/2)*sy)
	cx, cy := -1, -1
	for dy := -1; dy <= 1 && cx < 0; dy++ {
		for dx := -1; dx <= 1; dx++ {
			pos := r2.Vec{X: float64(ccx+dx) / sx, Y: float64(ccy+dy) / sy}
			if id, ok := dl.HitNode(pos); ok && id == n.ID {
				cx, cy = ccx+dx, ccy+dy
				break
			}
		}
	}
	if cx < 0 {
		t.Fatal("no cell maps into the node box")
	}

	next, _ := m.Update(tea.MouseMsg{
		X: cx, Y: cy,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	m = next.(GraphModel)
	next, _ = m.Update(tea.MouseMsg{
		X: cx, Y: cy,
		Action: tea.MouseActionRelease,
		Button: tea.MouseButtonLeft,
	})
	_ = next

	if eng.Selection().SelectedNodeID != n.ID {
		t.Errorf("selection = %q, want %q", eng.Selection().SelectedNodeID, n.ID)
	}
}

func TestRefreshDoneSwapsGraph(t *testing.T) {
	eng := testEngine()
	m := NewGraphModel(eng, nil)

	bigger := graph.New(
		[]graph.Node{{ID: "x", Name: "x"}, {ID: "y", Name: "y"}, {ID: "z", Name: "z"}},
		nil, nil,
	)
	eng.SetLoading(true)
	next, _ := m.Update(refreshDoneMsg{g: bigger})
	_ = next

	if eng.Loading() {
		t.Error("refresh completion should clear loading")
	}
	if eng.Stats().Nodes != 3 {
		t.Errorf("nodes = %d after reload", eng.Stats().Nodes)
	}
}

func TestViewRendersLabelsAndStatus(t *testing.T) {
	eng := testEngine()
	m := NewGraphModel(eng, nil)
	m.width = 120
	m.height = 40

	out := m.View()
	if !strings.Contains(out, "auth") {
		t.Errorf("view missing node label:\n%s", out)
	}
	if !strings.Contains(out, "2 nodes") {
		t.Errorf("view missing stats line:\n%s", out)
	}
}

func TestViewEmptyGraph(t *testing.T) {
	eng := engine.New(engine.Options{})
	m := NewGraphModel(eng, nil)

	out := m.View()
	if !strings.Contains(out, "no graph loaded") {
		t.Errorf("empty view missing placeholder:\n%s", out)
	}
}

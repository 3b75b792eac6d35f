// Package render maps a computed layout, viewport, and highlight state into
// a flat list of drawable primitives.
//
// The draw list is surface-agnostic: node and edge draws carry screen-space
// geometry plus semantic style keys, and it is the sink's job (terminal,
// SVG, HTTP client) to turn those keys into colors and strokes. Building a
// draw list performs no mutation and is safe to repeat on every frame.
package render

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lukasmeier/depscope/pkg/graph"
	"github.com/lukasmeier/depscope/pkg/highlight"
	"github.com/lukasmeier/depscope/pkg/layout"
	"github.com/lukasmeier/depscope/pkg/viewport"
)

// =============================================================================
// Geometry Constants
// =============================================================================

const (
	// NodeBoxWidth and NodeBoxHeight are the world-space dimensions of a
	// node box; screen dimensions scale with zoom.
	NodeBoxWidth  = 120.0
	NodeBoxHeight = 36.0

	// MaxLabelRunes is the longest label rendered before truncation.
	MaxLabelRunes = 12

	ellipsis = "…"
)

// =============================================================================
// Drawable Primitives
// =============================================================================

// NodeDraw is one drawable node box in screen space.
type NodeDraw struct {
	ID    string             `json:"id"`
	Label string             `json:"label"`
	X     float64            `json:"x"` // top-left corner
	Y     float64            `json:"y"`
	W     float64            `json:"w"`
	H     float64            `json:"h"`
	Type  graph.NodeType     `json:"type"`
	State highlight.NodeState `json:"state"`
	// IssueCount is surfaced so sinks can badge problem nodes.
	IssueCount int `json:"issue_count,omitempty"`
}

// EdgeDraw is one drawable edge in screen space. Endpoints are node-box
// centers; sinks draw the arrow marker named by Marker at the To end.
type EdgeDraw struct {
	FromID string              `json:"from_id"`
	ToID   string              `json:"to_id"`
	X1     float64             `json:"x1"`
	Y1     float64             `json:"y1"`
	X2     float64             `json:"x2"`
	Y2     float64             `json:"y2"`
	State  highlight.EdgeState `json:"state"`
	Dashed bool                `json:"dashed"` // circular edges render dashed
	Marker string              `json:"marker"`
}

// DrawList is the full set of primitives for one frame.
// Edges come first in draw order so node boxes paint over edge lines.
type DrawList struct {
	Nodes []NodeDraw `json:"nodes"`
	Edges []EdgeDraw `json:"edges"`
}

// Empty reports whether there is nothing to draw; sinks render their
// empty-state placeholder in that case.
func (d DrawList) Empty() bool { return len(d.Nodes) == 0 && len(d.Edges) == 0 }

// =============================================================================
// Draw-List Construction
// =============================================================================

// BuildDrawList maps positioned nodes, edges, viewport, and highlight state
// into screen-space primitives.
//
// Filtered-out nodes are excluded along with any edge touching them;
// dangling edges never appear. The function reads all inputs and mutates
// none.
func BuildDrawList(positioned []layout.PositionedNode, g *graph.Graph, vp viewport.Viewport, hl highlight.Result) DrawList {
	dl := DrawList{
		Nodes: make([]NodeDraw, 0, len(positioned)),
		Edges: make([]EdgeDraw, 0, g.EdgeCount()),
	}

	// Visible node centers in screen space, keyed by id for edge lookup.
	centers := make(map[string]r2.Vec, len(positioned))
	for i := range positioned {
		p := &positioned[i]
		state := hl.Nodes[p.ID]
		if state == highlight.NodeFilteredOut {
			continue
		}

		c := vp.WorldToScreen(p.Pos())
		centers[p.ID] = c

		w := NodeBoxWidth * vp.Zoom
		h := NodeBoxHeight * vp.Zoom
		dl.Nodes = append(dl.Nodes, NodeDraw{
			ID:         p.ID,
			Label:      TruncateLabel(p.DisplayName()),
			X:          c.X - w/2,
			Y:          c.Y - h/2,
			W:          w,
			H:          h,
			Type:       p.Type,
			State:      state,
			IssueCount: p.IssueCount,
		})
	}

	for i := range g.Edges {
		from, to, ok := g.Endpoints(i)
		if !ok {
			continue
		}
		a, okA := centers[from.ID]
		b, okB := centers[to.ID]
		if !okA || !okB {
			// An endpoint was filtered out of the visible set.
			continue
		}

		state := hl.Edges[i]
		dl.Edges = append(dl.Edges, EdgeDraw{
			FromID: from.ID,
			ToID:   to.ID,
			X1:     a.X,
			Y1:     a.Y,
			X2:     b.X,
			Y2:     b.Y,
			State:  state,
			Dashed: state == highlight.EdgeCircular,
			Marker: "arrow-" + string(state),
		})
	}

	return dl
}

// TruncateLabel shortens a label past MaxLabelRunes, appending an ellipsis.
func TruncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxLabelRunes {
		return s
	}
	return string(runes[:MaxLabelRunes]) + ellipsis
}

// =============================================================================
// Hit-Testing
// =============================================================================

// HitTest returns the topmost node whose box contains the screen point.
// Later draws sit on top, so the scan runs back to front.
func (d DrawList) HitTest(p r2.Vec) (string, bool) {
	for i := len(d.Nodes) - 1; i >= 0; i-- {
		n := &d.Nodes[i]
		if p.X >= n.X && p.X <= n.X+n.W && p.Y >= n.Y && p.Y <= n.Y+n.H {
			return n.ID, true
		}
	}
	return "", false
}

// HitNode implements viewport.HitTester.
func (d DrawList) HitNode(p r2.Vec) (string, bool) { return d.HitTest(p) }

// Package engine composes graph, layout, viewport, selection, and render
// model into one explicit state machine for a single graph view.
//
// All state lives in [Engine] and changes only through its transition
// methods; derived views (highlight result, draw list) are recomputed on
// demand rather than tracked reactively. An Engine is owned by exactly one
// view session and is not safe for concurrent use; hosts with concurrent
// callers (e.g. an HTTP surface) must serialize access themselves.
package engine

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lukasmeier/depscope/pkg/graph"
	"github.com/lukasmeier/depscope/pkg/highlight"
	"github.com/lukasmeier/depscope/pkg/layout"
	"github.com/lukasmeier/depscope/pkg/render"
	"github.com/lukasmeier/depscope/pkg/viewport"
)

// Default frame dimensions, used when Options leaves them zero.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// Options configures a new Engine.
type Options struct {
	// Width and Height are the world-space frame the simulation fills.
	Width  float64
	Height float64

	// Physics overrides the default simulation parameters.
	Physics layout.Config

	// OnRefresh, when set, is invoked fire-and-forget whenever the user
	// requests a data reload. The engine never awaits its completion; the
	// caller reports progress back via SetLoading.
	OnRefresh func()
}

// Engine is the single-writer state for one interactive graph view:
// the current graph, its computed layout, the viewport transform, and the
// selection state.
type Engine struct {
	width   float64
	height  float64
	physics layout.Config

	g          *graph.Graph
	positioned []layout.PositionedNode

	ctrl    *viewport.Controller
	sel     highlight.State
	loading bool

	onRefresh func()
}

// New creates an engine with an empty graph.
func New(opts Options) *Engine {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Physics.Iterations == 0 {
		opts.Physics = layout.DefaultConfig()
	}
	return &Engine{
		width:      opts.Width,
		height:     opts.Height,
		physics:    opts.Physics,
		g:          graph.New(nil, nil, nil),
		positioned: []layout.PositionedNode{},
		ctrl:       viewport.NewController(),
		onRefresh:  opts.OnRefresh,
	}
}

// =============================================================================
// Graph Lifecycle
// =============================================================================

// SetGraph replaces the graph wholesale and recomputes the layout.
// Viewport and selection persist across the replacement; positioned nodes
// from the previous graph are discarded, never live-patched.
func (e *Engine) SetGraph(g *graph.Graph) {
	if g == nil {
		g = graph.New(nil, nil, nil)
	}
	e.g = g
	e.positioned = layout.ComputeWith(e.physics, g, e.width, e.height)
}

// Graph returns the current graph.
func (e *Engine) Graph() *graph.Graph { return e.g }

// Positioned returns the current layout. The slice is owned by the engine;
// callers must treat it as read-only.
func (e *Engine) Positioned() []layout.PositionedNode { return e.positioned }

// Frame returns the world-space frame dimensions.
func (e *Engine) Frame() (width, height float64) { return e.width, e.height }

// Stats returns summary statistics for the current graph.
func (e *Engine) Stats() graph.Stats { return e.g.Stats() }

// =============================================================================
// Pointer Transitions
// =============================================================================

// PointerDown begins a pan or node drag, hit-testing against the current
// frame's draw list.
func (e *Engine) PointerDown(pos r2.Vec) {
	e.ctrl.PointerDown(pos, e.DrawList())
}

// PointerMove advances an active drag. Node drags reposition exactly one
// node, clamped to the frame so no node escapes the canvas.
func (e *Engine) PointerMove(pos r2.Vec) {
	m := e.ctrl.PointerMove(pos)
	if m.Kind != viewport.MoveNode {
		return
	}
	for i := range e.positioned {
		p := &e.positioned[i]
		if p.ID != m.NodeID {
			continue
		}
		moved := layout.ClampToFrame(r2.Add(p.Pos(), m.WorldDelta), e.width, e.height)
		p.X = moved.X
		p.Y = moved.Y
		return
	}
}

// PointerUp ends a drag. A click selects the node under the pointer, or
// clears the selection when the canvas was clicked.
func (e *Engine) PointerUp() {
	up := e.ctrl.PointerUp()
	if !up.IsClick {
		return
	}
	if up.NodeID == "" {
		e.sel.SelectedNodeID = ""
		return
	}
	e.Select(up.NodeID)
}

// PointerLeave cancels any in-progress drag.
func (e *Engine) PointerLeave() { e.ctrl.PointerLeave() }

// =============================================================================
// Viewport Transitions
// =============================================================================

// Wheel applies a zoom wheel delta.
func (e *Engine) Wheel(delta float64) { e.ctrl.View.Wheel(delta) }

// ZoomIn zooms in one notch.
func (e *Engine) ZoomIn() { e.ctrl.View.ZoomIn() }

// ZoomOut zooms out one notch.
func (e *Engine) ZoomOut() { e.ctrl.View.ZoomOut() }

// Pan shifts the viewport by a screen-space delta. Keyboard-driven hosts
// use this where pointer-driven hosts drag.
func (e *Engine) Pan(delta r2.Vec) {
	e.ctrl.View.Pan = r2.Add(e.ctrl.View.Pan, delta)
}

// ResetView restores the identity viewport and clears the selection.
func (e *Engine) ResetView() {
	e.ctrl.View.Reset()
	e.sel.Reset()
}

// Viewport returns the current transform.
func (e *Engine) Viewport() viewport.Viewport { return e.ctrl.View }

// =============================================================================
// Selection Transitions
// =============================================================================

// Select marks a node selected; selecting the already-selected node
// deselects it.
func (e *Engine) Select(id string) {
	if e.sel.SelectedNodeID == id {
		e.sel.SelectedNodeID = ""
		return
	}
	e.sel.SelectedNodeID = id
}

// Search sets the search query.
func (e *Engine) Search(query string) { e.sel.SearchQuery = query }

// Hover sets the hovered node id ("" for none).
func (e *Engine) Hover(id string) { e.sel.HoveredNodeID = id }

// Selection returns the current selection state.
func (e *Engine) Selection() highlight.State { return e.sel }

// =============================================================================
// Refresh
// =============================================================================

// Refresh invokes the OnRefresh callback, if any, without awaiting it.
// The host reloads data and hands the result back through SetGraph.
func (e *Engine) Refresh() {
	if e.onRefresh != nil {
		go e.onRefresh()
	}
}

// SetLoading reflects the host's loading flag for a visual overlay.
func (e *Engine) SetLoading(v bool) { e.loading = v }

// Loading reports the host's loading flag.
func (e *Engine) Loading() bool { return e.loading }

// =============================================================================
// Derived Views
// =============================================================================

// Highlight computes the per-node/per-edge visual state for this frame.
func (e *Engine) Highlight() highlight.Result {
	return highlight.Compute(e.g, e.sel)
}

// DrawList builds the drawable primitives for this frame.
func (e *Engine) DrawList() render.DrawList {
	return render.BuildDrawList(e.positioned, e.g, e.ctrl.View, e.Highlight())
}

package viewport

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// ClickThreshold is the screen-space movement (in pixels) below which a
// pointer-down/up pair counts as a click rather than a drag.
const ClickThreshold = 3.0

// =============================================================================
// Pointer State Machine
// =============================================================================

// dragKind enumerates the controller's drag states.
type dragKind int

const (
	dragNone dragKind = iota
	dragPan
	dragNode
)

// HitTester resolves a screen-space point to the node under it, if any.
// Implementations hit-test the rendered node boxes front-to-back.
type HitTester interface {
	HitNode(screen r2.Vec) (id string, ok bool)
}

// MoveKind classifies the outcome of a pointer-move.
type MoveKind int

const (
	// MoveNone means the move changed nothing (no drag in progress).
	MoveNone MoveKind = iota
	// MovePanned means the viewport pan was updated.
	MovePanned
	// MoveNode means a single node should be repositioned by WorldDelta.
	MoveNode
)

// Move is the result of a pointer-move event.
type Move struct {
	Kind       MoveKind
	NodeID     string // set for MoveNode
	WorldDelta r2.Vec // set for MoveNode; screen delta divided by zoom
}

// Click is the result of a pointer-up event.
type Click struct {
	// IsClick is true when total movement stayed under ClickThreshold.
	IsClick bool
	// NodeID is the node under the original pointer-down, or "" for the
	// empty canvas (which callers treat as deselect).
	NodeID string
}

// Controller owns a Viewport and converts raw pointer events into pan,
// node-drag, and click operations. It is a single-writer state machine:
// events arriving out of sequence (an up without a down, moves with no
// drag in progress) are ignored.
type Controller struct {
	View Viewport

	kind      dragKind
	nodeID    string
	downPos   r2.Vec // screen-space pointer-down position
	lastPos   r2.Vec // screen-space position of the previous event
	panOrigin r2.Vec // pan at pointer-down, for pan drags
	moved     bool   // any movement beyond ClickThreshold so far
}

// NewController returns a controller with the identity viewport.
func NewController() *Controller {
	return &Controller{View: New()}
}

// PointerDown starts a drag. If ht resolves a node under the pointer the
// drag targets that node; otherwise it pans the world. A second down during
// an active drag is ignored.
func (c *Controller) PointerDown(pos r2.Vec, ht HitTester) {
	if c.kind != dragNone {
		return
	}
	c.downPos = pos
	c.lastPos = pos
	c.moved = false

	if ht != nil {
		if id, ok := ht.HitNode(pos); ok {
			c.kind = dragNode
			c.nodeID = id
			return
		}
	}
	c.kind = dragPan
	c.panOrigin = c.View.Pan
}

// PointerMove advances the active drag. Pan drags apply the screen-space
// delta from the down position directly to the pan, independent of zoom;
// node drags report a world-space delta (screen delta ÷ zoom) for the
// caller to apply to the dragged node.
func (c *Controller) PointerMove(pos r2.Vec) Move {
	if c.kind == dragNone {
		return Move{Kind: MoveNone}
	}

	if r2.Norm(r2.Sub(pos, c.downPos)) > ClickThreshold {
		c.moved = true
	}

	stepDelta := r2.Sub(pos, c.lastPos)
	c.lastPos = pos

	switch c.kind {
	case dragPan:
		c.View.Pan = r2.Add(c.panOrigin, r2.Sub(pos, c.downPos))
		return Move{Kind: MovePanned}
	case dragNode:
		return Move{
			Kind:       MoveNode,
			NodeID:     c.nodeID,
			WorldDelta: r2.Scale(1/c.View.Zoom, stepDelta),
		}
	}
	return Move{Kind: MoveNone}
}

// PointerUp ends the drag. A near-stationary down/up pair is reported as a
// click (NodeID "" for the empty canvas). An up without a matching down is
// ignored.
func (c *Controller) PointerUp() Click {
	if c.kind == dragNone {
		return Click{}
	}

	click := Click{IsClick: !c.moved}
	if c.kind == dragNode {
		click.NodeID = c.nodeID
	}

	c.reset()
	return click
}

// PointerLeave cancels any in-progress drag without producing a click.
func (c *Controller) PointerLeave() {
	c.reset()
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.kind != dragNone }

func (c *Controller) reset() {
	c.kind = dragNone
	c.nodeID = ""
	c.moved = false
}

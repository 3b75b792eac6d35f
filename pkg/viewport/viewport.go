package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// MinZoom and MaxZoom bound the zoom factor. Every operation clamps;
	// out-of-range requests are never rejected with an error.
	MinZoom = 0.3
	MaxZoom = 3.0

	// ZoomStep is the multiplicative factor per zoom-in/out notch (±10%).
	ZoomStep = 1.1
)

// =============================================================================
// Viewport - Pan/Zoom Transform
// =============================================================================

// Viewport is the pan/zoom transform mapping world-space layout coordinates
// to screen-space drawing coordinates: screen = world·zoom + pan.
//
// A Viewport is owned by exactly one view session; it persists across graph
// replacements unless explicitly reset.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	Pan  r2.Vec  `json:"pan"`
}

// New returns the identity viewport (zoom 1, no pan).
func New() Viewport {
	return Viewport{Zoom: 1}
}

// WorldToScreen converts a world-space point to screen space.
func (v Viewport) WorldToScreen(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(v.Zoom, p), v.Pan)
}

// ScreenToWorld converts a screen-space point to world space.
// It is the exact inverse of WorldToScreen (up to floating-point error).
func (v Viewport) ScreenToWorld(p r2.Vec) r2.Vec {
	return r2.Scale(1/v.Zoom, r2.Sub(p, v.Pan))
}

// ZoomIn increases zoom by one notch, clamped to MaxZoom.
func (v *Viewport) ZoomIn() { v.SetZoom(v.Zoom * ZoomStep) }

// ZoomOut decreases zoom by one notch, clamped to MinZoom.
func (v *Viewport) ZoomOut() { v.SetZoom(v.Zoom / ZoomStep) }

// Wheel applies a wheel delta as multiplicative zoom: positive deltas zoom
// in, negative zoom out, one notch per unit.
func (v *Viewport) Wheel(delta float64) {
	v.SetZoom(v.Zoom * math.Pow(ZoomStep, delta))
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (v *Viewport) SetZoom(z float64) {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	v.Zoom = z
}

// Reset restores the identity transform.
func (v *Viewport) Reset() {
	v.Zoom = 1
	v.Pan = r2.Vec{}
}

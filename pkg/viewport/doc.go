// Package viewport maintains the pan/zoom transform for a graph view and
// translates raw pointer events into pan, node-drag, and click operations.
//
// The input surface is abstract (PointerDown(pos), PointerMove(pos),
// PointerUp(), Wheel(delta)) so the same controller
// drives a terminal UI, an HTTP surface, or any other host. Hit-testing is
// delegated to a [HitTester] because only the render model knows the
// on-screen node geometry.
package viewport

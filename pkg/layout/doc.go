// Package layout computes stable 2-D positions for dependency graphs via
// force-directed simulation.
//
// # Algorithm
//
// Nodes start on a circle around the frame center and then run a fixed
// 50-iteration simulation: Coulomb-like pairwise repulsion (k/d²), spring
// attraction along each resolvable edge (d·c), a small centering pull, and
// damped velocity integration with per-step clamping to the frame's
// bounding box. The pairwise repulsion makes each iteration O(n²), fine
// for the tens-to-low-hundreds of nodes in a module graph, and the reason
// callers with very large graphs should run [Compute] off their main
// thread.
//
// The run completes synchronously and cannot be cancelled mid-flight;
// a fixed iteration count trades adaptivity for predictability and
// determinism.
//
// # Determinism
//
// Identical input (same node order, same frame) produces identical output.
// Initial placement depends on array index, so reordering the input nodes
// changes the result; this is an accepted property.
package layout

package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lukasmeier/depscope/pkg/graph"
)

// =============================================================================
// Simulation Constants - Single Source of Truth
// =============================================================================

// Default physics parameters. Chosen so a two-node graph settles at a
// readable equilibrium distance (repulsion/attraction → d³ = 5e5, d ≈ 79)
// well inside the default 800×600 frame.
const (
	// DefaultIterations is the fixed simulation length. There is no
	// convergence check: a fixed count keeps runs predictable and
	// deterministic.
	DefaultIterations = 50

	// DefaultRepulsion scales the Coulomb-like pairwise force k/d².
	DefaultRepulsion = 5000.0

	// DefaultAttraction is the spring coefficient applied per edge (d·c).
	DefaultAttraction = 0.01

	// DefaultDamping multiplies velocity each step to bring the system
	// to rest.
	DefaultDamping = 0.9

	// DefaultCentering pulls every node toward the frame center.
	DefaultCentering = 0.001

	// InitialRadiusRatio places nodes on a circle of radius
	// ratio·min(width, height) before simulation starts.
	InitialRadiusRatio = 0.3

	// MarginX and MarginY keep nodes clear of the frame border: positions
	// are clamped to [MarginX, width-MarginX] × [MarginY, height-MarginY]
	// after every integration step.
	MarginX = 60.0
	MarginY = 40.0

	// minDistance floors pairwise distance to avoid the 1/d² singularity
	// for coincident nodes.
	minDistance = 1.0
)

// Config holds the physics parameters for one simulation run.
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	Iterations int     `json:"iterations" toml:"iterations"`
	Repulsion  float64 `json:"repulsion" toml:"repulsion"`
	Attraction float64 `json:"attraction" toml:"attraction"`
	Damping    float64 `json:"damping" toml:"damping"`
	Centering  float64 `json:"centering" toml:"centering"`
}

// DefaultConfig returns the standard physics parameters.
func DefaultConfig() Config {
	return Config{
		Iterations: DefaultIterations,
		Repulsion:  DefaultRepulsion,
		Attraction: DefaultAttraction,
		Damping:    DefaultDamping,
		Centering:  DefaultCentering,
	}
}

// =============================================================================
// PositionedNode - Simulation Output
// =============================================================================

// PositionedNode is a graph node extended with its final world-space
// position. Velocity is simulation-internal and intentionally absent: it has
// no meaning once the run halts.
type PositionedNode struct {
	graph.Node
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Pos returns the position as a vector.
func (p *PositionedNode) Pos() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// =============================================================================
// Force Simulation
// =============================================================================

// body is the mutable per-node simulation state. Input nodes are never
// mutated; all movement happens on bodies.
type body struct {
	pos r2.Vec
	vel r2.Vec
}

// Compute runs the force simulation with default parameters.
// See ComputeWith for the contract.
func Compute(g *graph.Graph, width, height float64) []PositionedNode {
	return ComputeWith(DefaultConfig(), g, width, height)
}

// ComputeWith maps a graph onto stable 2-D positions inside a
// width×height frame.
//
// The run is deterministic for a fixed input ordering: initial placement
// depends on the node's index, so reordering the input changes the result.
// That is an accepted property of the algorithm, not a defect.
//
// Zero nodes returns an empty slice without running the simulation. Edges
// whose endpoints cannot be resolved are skipped during attraction.
func ComputeWith(cfg Config, g *graph.Graph, width, height float64) []PositionedNode {
	n := g.NodeCount()
	if n == 0 {
		return []PositionedNode{}
	}

	center := r2.Vec{X: width / 2, Y: height / 2}
	radius := InitialRadiusRatio * math.Min(width, height)

	// Initial placement on a circle, angle 2πi/n by input order.
	bodies := make([]body, n)
	for i := range bodies {
		angle := 2 * math.Pi * float64(i) / float64(n)
		bodies[i].pos = r2.Vec{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}

	// Resolve edges to body indexes once; dangling edges drop out here.
	type spring struct{ a, b int }
	springs := make([]spring, 0, g.EdgeCount())
	index := make(map[string]int, n)
	for i := range g.Nodes {
		index[g.Nodes[i].ID] = i
	}
	for i := range g.Edges {
		from, to, ok := g.Endpoints(i)
		if !ok {
			continue
		}
		springs = append(springs, spring{a: index[from.ID], b: index[to.ID]})
	}

	forces := make([]r2.Vec, n)
	for iter := 0; iter < cfg.Iterations; iter++ {
		for i := range forces {
			forces[i] = r2.Vec{}
		}

		// Repulsion over every unordered pair: O(n²), acceptable for the
		// tens-to-low-hundreds of nodes in a module graph.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				delta := r2.Sub(bodies[j].pos, bodies[i].pos)
				dist := math.Max(r2.Norm(delta), minDistance)
				f := r2.Scale(cfg.Repulsion/(dist*dist*dist), delta)
				forces[i] = r2.Sub(forces[i], f)
				forces[j] = r2.Add(forces[j], f)
			}
		}

		// Spring attraction along each resolvable edge.
		for _, s := range springs {
			delta := r2.Sub(bodies[s.b].pos, bodies[s.a].pos)
			f := r2.Scale(cfg.Attraction, delta)
			forces[s.a] = r2.Add(forces[s.a], f)
			forces[s.b] = r2.Sub(forces[s.b], f)
		}

		// Centering keeps disconnected components from drifting away.
		for i := 0; i < n; i++ {
			pull := r2.Scale(cfg.Centering, r2.Sub(center, bodies[i].pos))
			forces[i] = r2.Add(forces[i], pull)
		}

		// Integrate: accumulate, damp, move, clamp.
		for i := 0; i < n; i++ {
			b := &bodies[i]
			b.vel = r2.Scale(cfg.Damping, r2.Add(b.vel, forces[i]))
			b.pos = r2.Add(b.pos, b.vel)
			b.pos = ClampToFrame(b.pos, width, height)
		}
	}

	out := make([]PositionedNode, n)
	for i := range g.Nodes {
		out[i] = PositionedNode{
			Node: g.Nodes[i],
			X:    bodies[i].pos.X,
			Y:    bodies[i].pos.Y,
		}
	}
	return out
}

// ClampToFrame clamps a world position to the simulation bounding box for a
// width×height frame. Node drags reuse this so manual repositioning honors
// the same containment invariant as the simulation.
func ClampToFrame(p r2.Vec, width, height float64) r2.Vec {
	return r2.Vec{
		X: clamp(p.X, MarginX, width-MarginX),
		Y: clamp(p.Y, MarginY, height-MarginY),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package graph defines the immutable input representation for depscope:
// nodes, directed edges, and precomputed circular-dependency cycles.
//
// # Overview
//
// A [Graph] bundles the raw input slices with derived lookup structures:
// an id→node index, a name→node index, and the circular-node set (the
// union of all cycle members). The derived structures are built once by
// [New] (or the deserialization helpers) and are read-only afterward.
//
// Graphs follow a replace-wholesale lifecycle: when the caller supplies
// new input, the previous Graph is discarded and a fresh one is built.
// There is no incremental patching.
//
// # Edge Resolution
//
// Edge endpoints may reference a node by ID or by Name. [Graph.Resolve]
// tries the ID index first, then the name index. Edges whose endpoints
// cannot be resolved ("dangling" edges) are tolerated: they are skipped
// by the layout engine and the render model, but still counted by
// [Graph.Stats]. This is a degraded-input case, not an error.
//
// # Serialization
//
// Graphs round-trip through JSON via [MarshalGraph]/[UnmarshalGraph] and
// the Read/Write file helpers. The types also carry bson tags so graphs
// stored by upstream tooling in MongoDB can be loaded directly.
//
// # Concurrency
//
// A Graph is safe for concurrent readers once constructed. Construction
// and reads must not overlap.
package graph

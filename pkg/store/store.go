// Package store loads dependency graphs produced by upstream tooling.
//
// The core engine treats graph data as already-resolved input; this package
// is the boundary where that input comes from when it is not a local JSON
// file. It only reads; analysis, cycle detection, and graph writes belong
// to the upstream producer.
package store

import (
	"context"

	"github.com/lukasmeier/depscope/pkg/graph"
)

// GraphStore is the read-only interface for graph sources.
type GraphStore interface {
	// Load fetches the graph with the given identifier.
	Load(ctx context.Context, id string) (*graph.Graph, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

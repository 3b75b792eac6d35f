// Package cache memoizes expensive pipeline results, keyed by content hash.
//
// depscope uses it for computed layouts: the force simulation is
// deterministic, so a layout is fully determined by the graph bytes, the
// frame size, and the physics parameters. Hashing those into a key lets
// repeated runs skip the O(n²) simulation entirely. This is memoization of
// a pure function, not persistence of user-arranged positions.
//
// Backends: [FileCache] for CLI usage, [RedisCache] for shared deployments,
// [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL (0 means no expiry).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the layout parameters that participate in the cache key.
// Any field change must produce a different key.
type LayoutKeyOpts struct {
	Width      float64
	Height     float64
	Iterations int
	Repulsion  float64
	Attraction float64
	Damping    float64
	Centering  float64
}

// LayoutKey builds the cache key for a layout computation over the graph
// content identified by graphHash.
func LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

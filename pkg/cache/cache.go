// Package cache stores converted chart artifacts between CLI runs.
//
// Rasterizing and printing an SVG shells out to an external converter,
// which dominates the cost of a render. Artifacts are keyed by a hash of
// the SVG and the conversion settings, so an unchanged chart converts once.
package cache

import (
	"context"
	"time"
)

// Cache stores byte blobs by key.
type Cache interface {
	// Get returns the blob stored under key. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// DefaultTTL is how long converted artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour

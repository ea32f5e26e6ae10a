// Package cache stores rendered diagrams so unchanged documents are not
// laid out again.
//
// Keys come from [RenderKey], which hashes the DOT source together with the
// output format, so an entry never goes stale: any edit changes the key.
// Entries may still carry a TTL to bound the cache size.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with optional expiration.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// RenderKey returns the key of a picture rendered from dot in format: the
// prefix "render:" and the hex SHA-256 of the format, a NUL byte and dot.
func RenderKey(dot, format string) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write([]byte(dot))
	return "render:" + hex.EncodeToString(h.Sum(nil))
}

// NewNullCache returns a cache that never stores anything, for when
// caching is disabled.
func NewNullCache() Cache { return nullCache{} }

type nullCache struct{}

func (nullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error                     { return nil }
func (nullCache) Close() error                                             { return nil }

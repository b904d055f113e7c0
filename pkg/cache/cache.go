// Package cache provides key/value storage for remote API responses.
//
// Entries carry a per-entry TTL checked on read, plus a stored-at timestamp
// used by [Store.Sweep] to evict entries older than a longer retention
// window. Three backends are provided: file (default for the CLI), redis
// (for server deployments), and null (caching disabled).
package cache

import (
	"context"
	"time"
)

// Default expiry tuning. The TTL bounds how long a cached response is served
// without refetching; the retention window bounds how long stale entries may
// linger on disk before a sweep removes them.
const (
	DefaultTTL      = 30 * time.Minute
	RetentionWindow = 24 * time.Hour
	KeyPrefix       = "repopulse:"
)

// Store is the cache contract shared by all backends.
//
// Implementations degrade gracefully: callers treat a Get error as a miss
// and a Set error as a no-op, so storage failures never propagate past the
// fetch layer.
type Store interface {
	// Get retrieves a value. Returns (nil, false, nil) on a miss.
	// Entries past their TTL are deleted opportunistically and reported
	// as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL, overwriting any prior entry.
	// A TTL of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Sweep removes entries stored longer ago than retention, regardless
	// of their TTL state, and returns the number removed. Intended to run
	// once at process start.
	Sweep(ctx context.Context, retention time.Duration) (int, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Key builds a namespaced cache key for a category of repository data.
// Every category owns a disjoint key, so concurrent loads never contend.
func Key(category, owner, repo string) string {
	return KeyPrefix + category + ":" + owner + "/" + repo
}

// Package cache holds computed group balances between writes.
package cache

import "context"

// Cache defines a generic keyed cache.
type Cache[T any] interface {
	// Get retrieves a value from the cache. A miss is not an error.
	Get(ctx context.Context, key string) (T, bool, error)

	// Set stores a value in the cache.
	Set(ctx context.Context, key string, data T) error

	// Delete removes a key from the cache. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Cleaner is implemented by caches that expire entries lazily and can be swept.
type Cleaner interface {
	CleanExpired() int
}

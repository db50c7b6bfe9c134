package domain

import (
	"context"
	"time"
)

// FileFetcher fetches the raw bytes of a remotely hosted file. Implementations
// report any non-success outcome as an error; callers treat every failure the
// same way, there is no partial result.
type FileFetcher interface {
	// Fetch retrieves the file identified by the locator
	Fetch(ctx context.Context, loc FileLocator) ([]byte, error)
	// Name returns the transport name
	Name() string
	// Close releases transport resources
	Close() error
}

// Cache defines the interface for content caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}

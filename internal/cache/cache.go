// Package cache provides the byte-oriented key/value cache used by the
// service layer as a read-through cache for appointments.
package cache

import (
	"context"
	"errors"
	"time"
)

// Common cache errors
var (
	// ErrCacheKeyNotFound is returned by Get for a missing or expired key.
	ErrCacheKeyNotFound = errors.New("cache key not found")
	// ErrCacheConnection wraps backend failures.
	ErrCacheConnection = errors.New("cache connection error")
)

// Cache is implemented by the redis and in-memory backends.
//
//go:generate mockgen -source=cache.go -destination=../mock/cache_mock.go -package=mock
type Cache interface {
	// Set stores value under key. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns a copy of the value or ErrCacheKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

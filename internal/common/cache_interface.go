package common

import "time"

// CacheInterface is the read-cache contract the report handlers depend
// on. The in-process go-cache service is the default; Redis backs it in
// multi-instance deployments.
type CacheInterface interface {
	// Set stores a value under key for the given duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value by key, reporting whether it was present
	Get(key string) (interface{}, bool)

	// Delete removes a key; used by write paths to invalidate stale reads
	Delete(key string)

	// GetOrSet returns the cached value, or stores what loader produces
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close releases any underlying connections
	Close() error
}

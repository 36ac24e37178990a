package cache

import "errors"

var (
	// ErrCacheMiss is returned when no snapshot exists for a kind.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCorrupt is returned when a snapshot exists but cannot be decoded.
	ErrCorrupt = errors.New("corrupt cache entry")
)

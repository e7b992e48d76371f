// Package memo is a process-wide memoization cache for expensive load and
// compute steps. Entries are keyed by a hash of the function name and its
// JSON-encoded arguments and live until the process exits; there is no eviction.
package memo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/singleflight"
)

// Cache stores computed values by key. Concurrent calls for the same key share
// one computation. Errors are returned but never cached.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
	group   singleflight.Group
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// Key hashes a function name and its arguments.
func Key(fn string, args ...any) (string, error) {
	h := sha256.New()
	h.Write([]byte(fn))
	for i, a := range args {
		b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(a)
		if err != nil {
			return "", fmt.Errorf("memo key %s arg %d: %w", fn, i, err)
		}
		h.Write([]byte{0})
		h.Write(b)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Do returns the cached value for (fn, args) or runs compute once and caches its result.
func Do[T any](c *Cache, fn string, args []any, compute func() (T, error)) (T, error) {
	var zero T
	key, err := Key(fn, args...)
	if err != nil {
		return zero, err
	}
	if v, ok := c.lookup(key); ok {
		return v.(T), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		res, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = res
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

package openapi

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache keeps downloaded API documents on disk for a limited time.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates a cache in dir whose entries expire after ttl.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

func (c *Cache) cacheFile(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", hash[:8]))
}

// Get returns cached data if fresh, or nil if stale/missing.
func (c *Cache) Get(key string) []byte {
	path := c.cacheFile(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if time.Since(info.ModTime()) > c.ttl {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

// Put stores data in the cache.
func (c *Cache) Put(key string, data []byte) error {
	return os.WriteFile(c.cacheFile(key), data, 0o600)
}

// Invalidate removes a cached entry.
func (c *Cache) Invalidate(key string) {
	_ = os.Remove(c.cacheFile(key))
}

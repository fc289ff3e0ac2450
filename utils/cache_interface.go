package utils

import (
	"context"
	"log"
	"sync"
	"time"
)

// Cache is the storage interface injected into everything that caches:
// the TLD directory resolver and the HTTP result layer. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (CacheResult, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	IsHealthy() bool
}

// CacheResult represents the outcome of a cache read.
type CacheResult struct {
	Data  string
	Found bool
}

// memoryEntry is a cached value with its expiry instant.
type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache implements Cache with process-local storage. A new process
// starts cold; nothing is persisted.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries,
// sweeping expired entries every cleanInterval.
func NewMemoryCache(maxSize int, cleanInterval time.Duration) *MemoryCache {
	mc := &MemoryCache{
		entries: make(map[string]memoryEntry),
		maxSize: maxSize,
	}
	go mc.sweep(cleanInterval)
	return mc
}

// Get retrieves a value, treating expired entries as misses.
func (mc *MemoryCache) Get(ctx context.Context, key string) (CacheResult, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[key]
	if !ok {
		return CacheResult{Found: false}, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(mc.entries, key)
		return CacheResult{Found: false}, nil
	}
	return CacheResult{Data: entry.value, Found: true}, nil
}

// Set stores a value. When the cache is full and nothing has expired, the
// write is silently dropped; caching is best effort.
func (mc *MemoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.entries[key]; !exists && len(mc.entries) >= mc.maxSize {
		mc.evictExpiredLocked()
		if len(mc.entries) >= mc.maxSize {
			return nil
		}
	}
	mc.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(expiration)}
	return nil
}

// IsHealthy always returns true for the memory cache.
func (mc *MemoryCache) IsHealthy() bool {
	return true
}

func (mc *MemoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		mc.mu.Lock()
		mc.evictExpiredLocked()
		mc.mu.Unlock()
	}
}

func (mc *MemoryCache) evictExpiredLocked() {
	now := time.Now()
	for key, entry := range mc.entries {
		if now.After(entry.expiresAt) {
			delete(mc.entries, key)
		}
	}
}

// FallbackCache composes a primary and a fallback cache. Reads try the
// primary first; writes go to both so a primary outage loses nothing.
type FallbackCache struct {
	primary  Cache
	fallback Cache
}

// NewFallbackCache creates a fallback cache.
func NewFallbackCache(primary, fallback Cache) *FallbackCache {
	return &FallbackCache{primary: primary, fallback: fallback}
}

// Get tries the primary cache when healthy, otherwise the fallback.
func (fc *FallbackCache) Get(ctx context.Context, key string) (CacheResult, error) {
	if fc.primary.IsHealthy() {
		result, err := fc.primary.Get(ctx, key)
		if err == nil {
			return result, nil
		}
		log.Printf("Primary cache read failed for key %s: falling back\n", key)
	}
	return fc.fallback.Get(ctx, key)
}

// Set writes to both caches and reports the first error.
func (fc *FallbackCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	var primaryErr error
	if fc.primary.IsHealthy() {
		primaryErr = fc.primary.Set(ctx, key, value, expiration)
	}
	fallbackErr := fc.fallback.Set(ctx, key, value, expiration)
	if primaryErr != nil {
		return primaryErr
	}
	return fallbackErr
}

// IsHealthy returns true if either cache is healthy.
func (fc *FallbackCache) IsHealthy() bool {
	return fc.primary.IsHealthy() || fc.fallback.IsHealthy()
}

// IsPrimaryHealthy reports whether the primary cache (Redis) is reachable.
func (fc *FallbackCache) IsPrimaryHealthy() bool {
	return fc.primary.IsHealthy()
}

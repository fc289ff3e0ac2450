package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// GetFromCache attempts to retrieve data from the cache.
func GetFromCache(ctx context.Context, cache Cache, key string) (CacheResult, error) {
	result, err := cache.Get(ctx, key)
	if err != nil {
		return CacheResult{Found: false}, err
	}
	if result.Found {
		log.Printf("Serving cached result for key: %s\n", key)
	}
	return result, nil
}

// SetToCache stores data in the cache with an expiration, marshaling
// non-string values to JSON.
func SetToCache(ctx context.Context, cache Cache, key string, data interface{}, expiration time.Duration) error {
	var value string
	switch v := data.(type) {
	case string:
		value = v
	default:
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal data for caching: %w", err)
		}
		value = string(encoded)
	}

	if err := cache.Set(ctx, key, value, expiration); err != nil {
		log.Printf("Failed to cache result for key: %s, error: %v\n", key, err)
		return err
	}
	return nil
}

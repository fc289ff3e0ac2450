package utils

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache backed by Redis. Connection failures mark the
// cache unhealthy so the fallback cache takes over until Redis recovers.
type RedisCache struct {
	client  *redis.Client
	mu      sync.RWMutex
	healthy bool
}

// NewRedisCache creates a Redis cache and starts its background health checks.
func NewRedisCache(client *redis.Client) *RedisCache {
	rc := &RedisCache{client: client}
	rc.checkHealth(true)
	go rc.healthLoop()
	return rc
}

// Get retrieves a value from Redis. An unhealthy cache reports a miss.
func (rc *RedisCache) Get(ctx context.Context, key string) (CacheResult, error) {
	if !rc.IsHealthy() {
		return CacheResult{Found: false}, nil
	}

	value, err := rc.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return CacheResult{Data: value, Found: true}, nil
	case err == redis.Nil:
		return CacheResult{Found: false}, nil
	default:
		rc.setHealthy(false)
		return CacheResult{Found: false}, err
	}
}

// Set stores a value in Redis. Writes against an unhealthy cache are skipped.
func (rc *RedisCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if !rc.IsHealthy() {
		return nil
	}
	if err := rc.client.Set(ctx, key, value, expiration).Err(); err != nil {
		rc.setHealthy(false)
		return err
	}
	return nil
}

// IsHealthy returns the last known health status of the Redis connection.
func (rc *RedisCache) IsHealthy() bool {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.healthy
}

func (rc *RedisCache) setHealthy(healthy bool) {
	rc.mu.Lock()
	rc.healthy = healthy
	rc.mu.Unlock()
}

func (rc *RedisCache) checkHealth(initial bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	wasHealthy := rc.IsHealthy()
	_, err := rc.client.Ping(ctx).Result()
	if err != nil {
		rc.setHealthy(false)
		if initial {
			log.Printf("Redis unavailable: %v\n", err)
		} else if wasHealthy {
			log.Printf("Redis connection lost: %v\n", err)
		}
		return
	}
	rc.setHealthy(true)
	if !initial && !wasHealthy {
		log.Println("Redis connection restored")
	}
}

func (rc *RedisCache) healthLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		rc.checkHealth(false)
	}
}

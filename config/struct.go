package config

// Config represents the configuration for the application.
type Config struct {
	// Redis holds the connection settings for the Redis cache.
	Redis struct {
		Addr     string `json:"addr" yaml:"addr"`
		Password string `json:"password" yaml:"password"`
		DB       int    `json:"db" yaml:"db"`
	} `json:"redis" yaml:"redis"`
	// CacheExpiration is the lifetime of cached lookup results, in seconds.
	CacheExpiration int `json:"cacheExpiration" yaml:"cacheExpiration"`
	// DirectoryTTL is the lifetime of cached TLD endpoint entries, in seconds.
	DirectoryTTL int `json:"directoryTtl" yaml:"directoryTtl"`
	// Port is the port number the HTTP server listens on.
	Port int `json:"port" yaml:"port"`
	// RateLimit is the maximum number of lookups served concurrently.
	RateLimit int `json:"rateLimit" yaml:"rateLimit"`
	// Cache holds the in-memory fallback cache settings.
	Cache struct {
		// RequireRedis refuses to start when Redis is unreachable.
		RequireRedis bool `json:"requireRedis" yaml:"requireRedis"`
		// MemoryMaxSize caps the number of in-memory cache entries.
		MemoryMaxSize int `json:"memoryMaxSize" yaml:"memoryMaxSize"`
		// MemoryCleanInterval is the sweep interval, in seconds.
		MemoryCleanInterval int `json:"memoryCleanInterval" yaml:"memoryCleanInterval"`
	} `json:"cache" yaml:"cache"`
}

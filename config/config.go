package config

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/domainwatch/lookup/utils"
)

// discardLogger suppresses the Redis client's internal error logging. The
// client still works; it just stops spamming logs on connection failures.
type discardLogger struct{}

func (l *discardLogger) Printf(ctx context.Context, format string, v ...interface{}) {}

var (
	// Version information, read from build info (Go 1.18+).
	Version   string
	BuildTime string
	GitCommit string

	// RedisClient is the Redis client backing the primary cache.
	RedisClient *redis.Client
	// CacheManager is the unified cache interface with fallback support.
	CacheManager utils.Cache
	// CacheExpiration is the lifetime of cached lookup results.
	CacheExpiration time.Duration
	// DirectoryTTL is the lifetime of cached TLD endpoint entries.
	DirectoryTTL time.Duration
	// HttpClient is the shared client for RDAP and IANA requests.
	HttpClient = &http.Client{
		Timeout: 10 * time.Second,
	}
	// Wg is used to wait for in-flight requests during shutdown.
	Wg sync.WaitGroup
	// Port is the port the server listens on.
	Port int
	// RateLimit caps the number of concurrently served lookups.
	RateLimit          int
	ConcurrencyLimiter chan struct{}
	// Cache configuration.
	RequireRedis        bool
	MemoryMaxSize       int
	MemoryCleanInterval time.Duration
)

// Init loads configuration and wires the cache manager. It must run once
// before the server starts; it is not called from an init function so tests
// can construct their own collaborators instead.
func Init() {
	initVersionInfo()

	var config Config
	loadConfigFromFile(&config)
	overrideConfigWithEnv(&config)
	applyDefaults(&config)

	options := &redis.Options{
		Addr:            config.Redis.Addr,
		Password:        config.Redis.Password,
		DB:              config.Redis.DB,
		PoolSize:        10,
		MinIdleConns:    0,
		MaxRetries:      1,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     2 * time.Second,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    2 * time.Second,
		PoolTimeout:     2 * time.Second,
	}
	RedisClient = redis.NewClient(options)
	redis.SetLogger(&discardLogger{})

	CacheExpiration = time.Duration(config.CacheExpiration) * time.Second
	DirectoryTTL = time.Duration(config.DirectoryTTL) * time.Second
	RequireRedis = config.Cache.RequireRedis
	MemoryMaxSize = config.Cache.MemoryMaxSize
	MemoryCleanInterval = time.Duration(config.Cache.MemoryCleanInterval) * time.Second

	initializeCacheManager()

	Port = config.Port
	RateLimit = config.RateLimit
	ConcurrencyLimiter = make(chan struct{}, RateLimit)
}

// applyDefaults fills every setting the file and environment left unset, so
// the server starts with no configuration file at all.
func applyDefaults(config *Config) {
	if config.Redis.Addr == "" {
		config.Redis.Addr = "localhost:6379"
	}
	if config.CacheExpiration == 0 {
		config.CacheExpiration = 3600
	}
	if config.DirectoryTTL == 0 {
		config.DirectoryTTL = 86400
	}
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.RateLimit == 0 {
		config.RateLimit = 50
	}
	if config.Cache.MemoryMaxSize == 0 {
		config.Cache.MemoryMaxSize = 10000
	}
	if config.Cache.MemoryCleanInterval == 0 {
		config.Cache.MemoryCleanInterval = 300
	}
}

// initializeCacheManager sets up the cache with Redis primary and memory
// fallback.
func initializeCacheManager() {
	redisCache := utils.NewRedisCache(RedisClient)
	memoryCache := utils.NewMemoryCache(MemoryMaxSize, MemoryCleanInterval)
	CacheManager = utils.NewFallbackCache(redisCache, memoryCache)

	if redisCache.IsHealthy() {
		log.Println("✓ Redis cache initialized successfully")
	} else {
		log.Println("⚠ Redis unavailable, using memory cache as fallback")
		if RequireRedis {
			log.Fatal("Redis is required but unavailable. Set cache.requireRedis to false to allow fallback.")
		}
	}

	log.Printf("Cache configuration: Max memory entries=%d, Clean interval=%v\n",
		MemoryMaxSize, MemoryCleanInterval)
}

func loadConfigFromFile(config *Config) {
	configFile, err := os.Open("config.yaml")
	if err != nil {
		configFile, err = os.Open("config.json")
		if err != nil {
			log.Println("No configuration file found, using defaults")
			return
		}
	}
	defer configFile.Close()

	fileExt := strings.ToLower(filepath.Ext(configFile.Name()))
	switch fileExt {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(configFile).Decode(config); err != nil {
			log.Fatalf("Failed to decode YAML from configuration file: %v", err)
		}
	case ".json":
		if err := json.NewDecoder(configFile).Decode(config); err != nil {
			log.Fatalf("Failed to decode JSON from configuration file: %v", err)
		}
	default:
		log.Fatalf("Unsupported configuration file format: %s", fileExt)
	}
}

func overrideConfigWithEnv(config *Config) {
	if redisAddr := os.Getenv("WATCH_REDIS_ADDR"); redisAddr != "" {
		config.Redis.Addr = redisAddr
	}
	if redisPassword := os.Getenv("WATCH_REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if redisDB := os.Getenv("WATCH_REDIS_DB"); redisDB != "" {
		if dbInt, err := strconv.Atoi(redisDB); err == nil {
			config.Redis.DB = dbInt
		}
	}

	if cacheExpiration := os.Getenv("WATCH_CACHE_EXPIRATION"); cacheExpiration != "" {
		if cacheInt, err := strconv.Atoi(cacheExpiration); err == nil {
			config.CacheExpiration = cacheInt
		}
	}
	if directoryTTL := os.Getenv("WATCH_DIRECTORY_TTL"); directoryTTL != "" {
		if ttlInt, err := strconv.Atoi(directoryTTL); err == nil {
			config.DirectoryTTL = ttlInt
		}
	}

	if requireRedis := os.Getenv("WATCH_REQUIRE_REDIS"); requireRedis != "" {
		config.Cache.RequireRedis = requireRedis == "true" || requireRedis == "1"
	}
	if memoryMaxSize := os.Getenv("WATCH_MEMORY_MAX_SIZE"); memoryMaxSize != "" {
		if maxSize, err := strconv.Atoi(memoryMaxSize); err == nil {
			config.Cache.MemoryMaxSize = maxSize
		}
	}
	if memoryCleanInterval := os.Getenv("WATCH_MEMORY_CLEAN_INTERVAL"); memoryCleanInterval != "" {
		if interval, err := strconv.Atoi(memoryCleanInterval); err == nil {
			config.Cache.MemoryCleanInterval = interval
		}
	}

	if port := os.Getenv("WATCH_PORT"); port != "" {
		if portInt, err := strconv.Atoi(port); err == nil {
			config.Port = portInt
		}
	}
	if rateLimit := os.Getenv("WATCH_RATE_LIMIT"); rateLimit != "" {
		if rateInt, err := strconv.Atoi(rateLimit); err == nil {
			config.RateLimit = rateInt
		}
	}
}

// initVersionInfo reads version information from Go build info.
func initVersionInfo() {
	Version = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) >= 7 {
				GitCommit = setting.Value[:7]
			} else {
				GitCommit = setting.Value
			}
		case "vcs.time":
			BuildTime = setting.Value
		case "vcs.modified":
			if setting.Value == "true" {
				GitCommit += "-dirty"
			}
		}
	}
}

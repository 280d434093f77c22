package server

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cdyellick/ponte/pkg/cache"
	"github.com/cdyellick/ponte/pkg/errors"
	"github.com/cdyellick/ponte/pkg/store"
)

// Backend names for the [cache] and [store] config sections.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"

	StoreBackendMemory = "memory"
	StoreBackendMongo  = "mongo"
)

// Config is the service configuration, loaded from a TOML file:
//
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "ponte"
type Config struct {
	Addr string `toml:"addr"`

	Cache CacheConfig `toml:"cache"`
	Store StoreConfig `toml:"store"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`        // file backend
	RedisAddr string `toml:"redis_addr"` // redis backend
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// DefaultConfig returns a config suitable for local development: in-memory
// store, file cache under the user cache dir.
func DefaultConfig() Config {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return Config{
		Addr: ":8080",
		Cache: CacheConfig{
			Backend: CacheBackendFile,
			Dir:     filepath.Join(dir, "ponte"),
		},
		Store: StoreConfig{
			Backend:       StoreBackendMemory,
			MongoDatabase: "ponte",
		},
	}
}

// LoadConfig reads a TOML config file, layering it over the defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "loading config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend names and required per-backend fields.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendNone:
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidDefinition, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidDefinition,
			"unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}

	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidDefinition, "store.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidDefinition,
			"unknown store backend %q (must be one of: memory, mongo)", c.Store.Backend)
	}
	return nil
}

// OpenCache constructs the configured cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheBackendRedis:
		return cache.NewRedisCache(ctx, c.Cache.RedisAddr)
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	default:
		return cache.NewFileCache(c.Cache.Dir)
	}
}

// OpenStore constructs the configured persistence backend.
func (c Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case StoreBackendMongo:
		return store.NewMongoStore(ctx, c.Store.MongoURI, c.Store.MongoDatabase)
	default:
		return store.NewMemoryStore(), nil
	}
}

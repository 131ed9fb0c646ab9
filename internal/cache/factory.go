package cache

import (
	"fmt"

	"github.com/huffgo/huffc/internal/config"
)

// New builds the ArtifactCache selected by cfg.CacheBackend, dialing
// cfg.CacheDSN. CacheBackendNone (and an empty DSN on any backend) yields
// a NopCache so a misconfigured cache never blocks compilation.
func New(cfg *config.Config) (ArtifactCache, error) {
	if cfg.CacheDSN == "" {
		return NopCache{}, nil
	}
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		return NewRedisCache(cfg.CacheDSN)
	case config.CacheBackendSQL:
		return NewSQLCache(cfg.CacheDSN)
	case config.CacheBackendMongo:
		return NewMongoCache(cfg.CacheDSN, "huffc")
	case config.CacheBackendNone, "":
		return NopCache{}, nil
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", cfg.CacheBackend)
	}
}

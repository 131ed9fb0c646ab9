// Package config is the compiler's YAML-loadable configuration: plain
// fields, a DefaultConfig constructor, and yaml tags for on-disk config
// files, the same struct-plus-DefaultConfig shape used for every other
// subsystem config in this repo.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheBackend selects which internal/cache implementation compiled
// artifacts are stored in.
type CacheBackend string

const (
	CacheBackendNone  CacheBackend = "none"
	CacheBackendRedis CacheBackend = "redis"
	CacheBackendSQL   CacheBackend = "sql"
	CacheBackendMongo CacheBackend = "mongo"
)

// Config is the top-level huffc configuration: compile-time behavior,
// logging, and the optional artifact cache backend.
type Config struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format"`

	// CacheBackend selects the artifact cache. CacheBackendNone disables
	// caching entirely.
	CacheBackend CacheBackend `yaml:"cache_backend"`
	// CacheDSN is the backend-specific connection string (redis URL, SQL
	// DSN, or mongo URI), consumed by internal/cache.
	CacheDSN string `yaml:"cache_dsn"`
	// CacheTTL is how long a cached artifact remains valid.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// EnableMetrics turns on the Prometheus collectors in internal/metrics.
	EnableMetrics bool `yaml:"enable_metrics"`
	// EnableTracing turns on the OpenTelemetry spans in internal/tracing.
	EnableTracing bool `yaml:"enable_tracing"`
	// TracingEndpoint is the OTLP gRPC collector address; empty uses the
	// stdout exporter instead.
	TracingEndpoint string `yaml:"tracing_endpoint"`

	// WatchDebounce is how long the file watcher waits after the last
	// filesystem event before triggering a recompile.
	WatchDebounce time.Duration `yaml:"watch_debounce"`

	// DevServerAddr is the listen address for the websocket dev server.
	DevServerAddr string `yaml:"dev_server_addr"`
}

// DefaultConfig returns huffc's baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		CacheBackend:  CacheBackendNone,
		CacheTTL:      10 * time.Minute,
		EnableMetrics: false,
		EnableTracing: false,
		WatchDebounce: 200 * time.Millisecond,
		DevServerAddr: ":8420",
	}
}

// Load reads and unmarshals a YAML config file at path, starting from
// DefaultConfig so unset fields keep their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

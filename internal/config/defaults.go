package config

import (
	"os"
	"path/filepath"
	"time"
)

// Transport names
const (
	TransportHTTP    = "http"
	TransportArchive = "archive"
	TransportGit     = "git"
)

// Default values
const (
	DefaultOutputPath = "./docker-compose.yml"

	DefaultTransport  = TransportHTTP
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultBranch     = "master"

	DefaultWorkers = 4

	DefaultCacheEnabled = true
	DefaultCacheTTL     = 15 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".composefetch"
	}
	return filepath.Join(home, ".composefetch")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Path: DefaultOutputPath,
		},
		Fetch: FetchConfig{
			Transport:     DefaultTransport,
			Timeout:       DefaultTimeout,
			MaxRetries:    DefaultMaxRetries,
			DefaultBranch: DefaultBranch,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

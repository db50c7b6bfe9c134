package config

import (
	"fmt"
	"time"
)

// Config represents the application configuration
type Config struct {
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
	Fetch       FetchConfig       `mapstructure:"fetch" yaml:"fetch"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// FetchConfig contains settings for resolving and fetching remote files
type FetchConfig struct {
	Transport     string        `mapstructure:"transport" yaml:"transport"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries" yaml:"max_retries"`
	DefaultBranch string        `mapstructure:"default_branch" yaml:"default_branch"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration and applies floors for invalid values
func (c *Config) Validate() error {
	switch c.Fetch.Transport {
	case "", TransportHTTP, TransportArchive, TransportGit:
	default:
		return fmt.Errorf("invalid fetch.transport: %q (want %s, %s or %s)",
			c.Fetch.Transport, TransportHTTP, TransportArchive, TransportGit)
	}
	if c.Fetch.Transport == "" {
		c.Fetch.Transport = TransportHTTP
	}
	if c.Fetch.Timeout < time.Second {
		c.Fetch.Timeout = DefaultTimeout
	}
	if c.Fetch.MaxRetries < 0 {
		c.Fetch.MaxRetries = DefaultMaxRetries
	}
	if c.Fetch.DefaultBranch == "" {
		c.Fetch.DefaultBranch = DefaultBranch
	}
	if c.Concurrency.Workers < 1 {
		c.Concurrency.Workers = DefaultWorkers
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}
	return nil
}

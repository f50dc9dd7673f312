package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Scanner   ScannerConfig
	Analyzer  AnalyzerConfig
	Volumes   VolumesConfig
	Transfer  TransferConfig
	Logging   LogConfig
	Settings  SettingsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// CacheConfig holds result cache configuration.
type CacheConfig struct {
	ListingTTL  time.Duration `envconfig:"CACHE_LISTING_TTL" default:"5s"`
	MetadataTTL time.Duration `envconfig:"CACHE_METADATA_TTL" default:"60s"`
	VolumeTTL   time.Duration `envconfig:"CACHE_VOLUME_TTL" default:"30s"`
	MaxSize     int           `envconfig:"CACHE_MAX_SIZE" default:"100"`
}

// ScannerConfig holds directory scanner configuration.
type ScannerConfig struct {
	BatchSize int `envconfig:"SCAN_BATCH_SIZE" default:"50"`
	MaxItems  int `envconfig:"SCAN_MAX_ITEMS" default:"10000"`
}

// AnalyzerConfig holds folder analyzer configuration.
type AnalyzerConfig struct {
	MaxDepth int `envconfig:"ANALYZE_MAX_DEPTH" default:"3"`
}

// VolumesConfig holds volume enumeration configuration.
type VolumesConfig struct {
	QueryTimeout time.Duration `envconfig:"VOLUME_QUERY_TIMEOUT" default:"5s"`
}

// TransferConfig holds transfer engine configuration.
type TransferConfig struct {
	RcloneBinary string        `envconfig:"RCLONE_BINARY" default:"rclone"`
	BusyRetries  int           `envconfig:"TRANSFER_BUSY_RETRIES" default:"3"`
	BusyBackoff  time.Duration `envconfig:"TRANSFER_BUSY_BACKOFF" default:"1s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// SettingsConfig holds settings store configuration.
type SettingsConfig struct {
	Path string `envconfig:"SETTINGS_PATH" default:""`
}

// RateLimitConfig holds request rate limiting configuration.
type RateLimitConfig struct {
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "127.0.0.1",
		},
		Cache: CacheConfig{
			ListingTTL:  5 * time.Second,
			MetadataTTL: 60 * time.Second,
			VolumeTTL:   30 * time.Second,
			MaxSize:     100,
		},
		Scanner: ScannerConfig{
			BatchSize: 50,
			MaxItems:  10000,
		},
		Analyzer: AnalyzerConfig{
			MaxDepth: 3,
		},
		Volumes: VolumesConfig{
			QueryTimeout: 5 * time.Second,
		},
		Transfer: TransferConfig{
			RcloneBinary: "rclone",
			BusyRetries:  3,
			BusyBackoff:  time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 100,
			Burst:             200,
		},
	}
}

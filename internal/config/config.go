package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Dataset     DatasetConfig     `mapstructure:"dataset"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
	Search      SearchConfig      `mapstructure:"search"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions"`
	Cache       CacheConfig       `mapstructure:"cache"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port                int    `mapstructure:"port"`
	Host                string `mapstructure:"host"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `mapstructure:"idle_timeout_seconds"`
	ThrottleRPS         int    `mapstructure:"throttle_rps"`
	ThrottleBurst       int    `mapstructure:"throttle_burst"`
	AdminEnabled        bool   `mapstructure:"admin_enabled"`
}

// DatasetConfig describes the record source loaded at startup.
// Source is "csv" or "sqlite"; Path points at the file.
type DatasetConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

// RedisConfig contains the optional Redis cache backend configuration
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SearchConfig bounds search queries
type SearchConfig struct {
	DefaultLimit   int `mapstructure:"default_limit"`
	MaxLimit       int `mapstructure:"max_limit"`
	MinQueryLength int `mapstructure:"min_query_length"`
	MaxQueryLength int `mapstructure:"max_query_length"`
}

// SuggestionsConfig bounds autocomplete queries
type SuggestionsConfig struct {
	MaxSuggestions int `mapstructure:"max_suggestions"`
	MinQueryLength int `mapstructure:"min_query_length"`
	MaxQueryLength int `mapstructure:"max_query_length"`
}

// CacheConfig contains response cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxSize    int  `mapstructure:"max_size"`
	TTLSeconds int  `mapstructure:"ttl_seconds"`
}

// RateLimitConfig contains per-client rate limiting configuration
type RateLimitConfig struct {
	Enabled                bool `mapstructure:"enabled"`
	Requests               int  `mapstructure:"requests"`
	WindowSeconds          int  `mapstructure:"window_seconds"`
	CleanupIntervalSeconds int  `mapstructure:"cleanup_interval_seconds"`
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	// Set default values
	viper.SetDefault("environment", "development")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout_seconds", 30)
	viper.SetDefault("server.write_timeout_seconds", 30)
	viper.SetDefault("server.idle_timeout_seconds", 120)
	viper.SetDefault("server.throttle_rps", 500)
	viper.SetDefault("server.throttle_burst", 100)
	viper.SetDefault("server.admin_enabled", true)

	viper.SetDefault("dataset.source", "csv")
	viper.SetDefault("dataset.path", "./data/movie_metadata.csv")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("log.level", "info")

	viper.SetDefault("search.default_limit", 10)
	viper.SetDefault("search.max_limit", 100)
	viper.SetDefault("search.min_query_length", 1)
	viper.SetDefault("search.max_query_length", 100)

	viper.SetDefault("suggestions.max_suggestions", 20)
	viper.SetDefault("suggestions.min_query_length", 1)
	viper.SetDefault("suggestions.max_query_length", 50)

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl_seconds", 300)

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window_seconds", 60)
	viper.SetDefault("rate_limit.cleanup_interval_seconds", 60)

	// Configuration file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/cinefusion")

	// Environment variable settings
	viper.SetEnvPrefix("CINEFUSION")
	viper.AutomaticEnv()

	// Set key replacer to handle nested keys
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read configuration file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, using defaults and env vars
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

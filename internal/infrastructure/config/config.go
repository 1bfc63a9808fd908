package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/GriffinCanCode/codejudge/internal/evaluator"
	"github.com/GriffinCanCode/codejudge/internal/sandbox"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
	Evaluation EvaluationConfig
	Catalog    CatalogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"40"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// EvaluationConfig holds the limits applied to every submission.
type EvaluationConfig struct {
	MaxSourceSize     int `envconfig:"MAX_SOURCE_SIZE" default:"50000"`
	DeadlineMs        int `envconfig:"EXECUTION_DEADLINE_MS" default:"10000"`
	MaxCallStackSize  int `envconfig:"MAX_CALL_STACK" default:"1024"`
	MaxConsoleEntries int `envconfig:"MAX_CONSOLE_ENTRIES" default:"1000"`
	PoolSize          int `envconfig:"SANDBOX_POOL_SIZE" default:"4"`
}

// CatalogConfig holds problem catalog configuration.
type CatalogConfig struct {
	Dir     string `envconfig:"CATALOG_DIR" default:"./problems"`
	Pattern string `envconfig:"CATALOG_PATTERN" default:"**/*.{yaml,yml,toml,json}"`
}

// EngineConfig converts the evaluation settings for the engine.
func (c EvaluationConfig) EngineConfig() evaluator.Config {
	sb := sandbox.DefaultConfig()
	if c.MaxCallStackSize > 0 {
		sb.MaxCallStackSize = c.MaxCallStackSize
	}
	if c.MaxConsoleEntries > 0 {
		sb.MaxConsoleEntries = c.MaxConsoleEntries
	}
	return evaluator.Config{
		MaxSourceSize: c.MaxSourceSize,
		Deadline:      time.Duration(c.DeadlineMs) * time.Millisecond,
		Sandbox:       sb,
	}
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
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			Enabled:           true,
		},
		Evaluation: EvaluationConfig{
			MaxSourceSize:     evaluator.DefaultMaxSourceSize,
			DeadlineMs:        int(evaluator.DefaultDeadline / time.Millisecond),
			MaxCallStackSize:  1024,
			MaxConsoleEntries: 1000,
			PoolSize:          4,
		},
		Catalog: CatalogConfig{
			Dir:     "./problems",
			Pattern: "**/*.{yaml,yml,toml,json}",
		},
	}
}

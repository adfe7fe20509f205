// Package config provides centralized configuration management for dropandsum.
// It loads configuration from environment variables with defaults and
// validates all settings on startup to fail fast on misconfiguration.
// Command-line flags take their defaults from here and override it.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Aggregate AggregateConfig
	Server    ServerConfig
	Run       RunConfig
	Rate      RateLimitConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
}

// AggregateConfig holds defaults for the aggregation flags.
type AggregateConfig struct {
	// Delimiter is the field separator token; \t means tab (default: \t)
	Delimiter string `env:"DROPANDSUM_DELIMITER" default:"\\t"`

	// Sorted orders output by descending sum (default: false)
	Sorted bool `env:"DROPANDSUM_SORTED" default:"false"`

	// SumFirst prints the sum as the first field (default: false)
	SumFirst bool `env:"DROPANDSUM_SUM_FIRST" default:"false"`

	// HasHeaders passes the first line through (default: false)
	HasHeaders bool `env:"DROPANDSUM_HAS_HEADERS" default:"false"`
}

// ServerConfig holds HTTP transport settings for the serve command.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxBodySize caps the request body in bytes (default: 100MB)
	MaxBodySize int64 `env:"SERVER_MAX_BODY_SIZE" default:"104857600"`
}

// RunConfig bounds concurrent aggregation runs in the HTTP transport.
type RunConfig struct {
	// MaxConcurrent is the maximum number of parallel runs (default: 5)
	MaxConcurrent int `env:"RUN_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for a run slot (default: 30s)
	MaxWaitTime time.Duration `env:"RUN_MAX_WAIT_TIME" default:"30s"`
}

// RateLimitConfig holds per-IP rate limiting for the HTTP transport.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the limit per client IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// DatabaseConfig holds PostgreSQL settings for the load command.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required by load only)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

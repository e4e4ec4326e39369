// Package config provides configuration management with 3-tier priority:
// Environment variables > .env file > Default values
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Catalog     CatalogConfig
	Remote      RemoteConfig
	Policy      PolicyConfig
	Database    DatabaseConfig
	LogRotation LogRotationConfig
	RateLimit   RateLimitConfig
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Host             string
	Port             int
	TimeoutKeepAlive int
	AccessLog        bool
	LogLevel         string
}

// CatalogConfig holds local runtime (LM Studio / Ollama style) settings.
// The runtime exposes an OpenAI-compatible API under BaseURL.
type CatalogConfig struct {
	BaseURL         string
	TimeoutSeconds  int
	MonitorEnabled  bool
	IntervalSeconds int
}

// RemoteConfig holds remote vendor credentials. Keys are optional; a
// missing key disables the corresponding remote backend.
type RemoteConfig struct {
	OpenAIKey      string
	AnthropicKey   string
	MaxTokens      int
	TimeoutSeconds int
}

// HasKey reports whether a key is configured for the named vendor.
func (r RemoteConfig) HasKey(vendor string) bool {
	switch vendor {
	case "openai":
		return r.OpenAIKey != ""
	case "anthropic":
		return r.AnthropicKey != ""
	}
	return false
}

// PolicyConfig holds the routing policy file location.
type PolicyConfig struct {
	Path string // optional YAML overriding built-in rules and policies
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LogRotationConfig holds log rotation settings powered by lumberjack.
type LogRotationConfig struct {
	MaxSizeMB  int  // Maximum size in MB before rotation
	MaxBackups int  // Maximum number of old log files to retain
	MaxAgeDays int  // Maximum number of days to retain old log files
	Compress   bool // Whether to gzip compress rotated files
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled       bool
	MaxRequests   int
	WindowSeconds int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8700,
			TimeoutKeepAlive: 5,
			AccessLog:        true,
			LogLevel:         "INFO",
		},
		Catalog: CatalogConfig{
			BaseURL:         "http://localhost:1234/v1",
			TimeoutSeconds:  10,
			MonitorEnabled:  true,
			IntervalSeconds: 60,
		},
		Remote: RemoteConfig{
			MaxTokens:      4096,
			TimeoutSeconds: 120,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			MaxRequests:   100,
			WindowSeconds: 60,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "must be between 1 and 65535"}
	}
	if c.Catalog.BaseURL == "" {
		return &ConfigError{Field: "catalog.base_url", Message: "must not be empty"}
	}
	if c.Catalog.TimeoutSeconds < 1 {
		return &ConfigError{Field: "catalog.timeout_seconds", Message: "must be at least 1"}
	}
	if c.Remote.MaxTokens < 1 {
		return &ConfigError{Field: "remote.max_tokens", Message: "must be at least 1"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + ": " + e.Message
}

// Helper functions for environment variable parsing.

func getEnvStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	lower := strings.ToLower(v)
	return lower == "true" || lower == "1" || lower == "yes" || lower == "on"
}

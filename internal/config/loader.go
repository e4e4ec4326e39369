package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/clientforge/ai-router/internal/pkg/paths"
)

// Load loads configuration with 3-tier priority:
// Environment variables > .env file > Default values
func Load() (*Config, error) {
	// Load .env file if exists
	loadDotEnv()

	// Start with defaults
	cfg := DefaultConfig()

	// Set database and policy file locations
	cfg.Database.Path = paths.GetDBPath()
	cfg.Policy.Path = paths.GetPolicyPath()

	// Apply environment variable overrides (highest priority)
	applyEnvOverrides(cfg)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads .env file from the project root.
func loadDotEnv() {
	envFile := filepath.Join(paths.GetBasePath(), ".env")
	data, err := os.ReadFile(envFile)
	if err != nil {
		return // .env file is optional
	}

	// Simple .env parser: KEY=VALUE lines
	for _, line := range splitLines(string(data)) {
		line = trimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		if idx := indexOf(line, '='); idx > 0 {
			key := trimSpace(line[:idx])
			val := trimSpace(line[idx+1:])
			// Remove surrounding quotes
			val = trimQuotes(val)
			// Only set if not already set (env vars take precedence)
			if os.Getenv(key) == "" {
				os.Setenv(key, val)
			}
		}
	}
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	// Server config
	cfg.Server.Host = getEnvStr("AI_ROUTER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("AI_ROUTER_PORT", cfg.Server.Port)
	cfg.Server.TimeoutKeepAlive = getEnvInt("AI_ROUTER_TIMEOUT_KEEP_ALIVE", cfg.Server.TimeoutKeepAlive)
	cfg.Server.AccessLog = getEnvBool("AI_ROUTER_ACCESS_LOG", cfg.Server.AccessLog)
	cfg.Server.LogLevel = getEnvStr("LOG_LEVEL", cfg.Server.LogLevel)

	// Local catalog config
	cfg.Catalog.BaseURL = getEnvStr("AI_ROUTER_LOCAL_BASE_URL", cfg.Catalog.BaseURL)
	cfg.Catalog.TimeoutSeconds = getEnvInt("AI_ROUTER_LOCAL_TIMEOUT_SECONDS", cfg.Catalog.TimeoutSeconds)
	cfg.Catalog.MonitorEnabled = getEnvBool("AI_ROUTER_CATALOG_MONITOR_ENABLED", cfg.Catalog.MonitorEnabled)
	cfg.Catalog.IntervalSeconds = getEnvInt("AI_ROUTER_CATALOG_MONITOR_INTERVAL_SECONDS", cfg.Catalog.IntervalSeconds)

	// Remote vendor credentials use the vendors' conventional names.
	cfg.Remote.OpenAIKey = getEnvStr("OPENAI_API_KEY", cfg.Remote.OpenAIKey)
	cfg.Remote.AnthropicKey = getEnvStr("ANTHROPIC_API_KEY", cfg.Remote.AnthropicKey)
	cfg.Remote.MaxTokens = getEnvInt("AI_ROUTER_REMOTE_MAX_TOKENS", cfg.Remote.MaxTokens)
	cfg.Remote.TimeoutSeconds = getEnvInt("AI_ROUTER_REMOTE_TIMEOUT_SECONDS", cfg.Remote.TimeoutSeconds)

	// Policy file path
	if policyPath := os.Getenv("AI_ROUTER_POLICY_FILE"); policyPath != "" {
		cfg.Policy.Path = policyPath
	}

	// Database path
	if dbPath := os.Getenv("AI_ROUTER_DB"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Log rotation config
	cfg.LogRotation.MaxSizeMB = getEnvInt("AI_ROUTER_LOG_MAX_SIZE_MB", cfg.LogRotation.MaxSizeMB)
	cfg.LogRotation.MaxBackups = getEnvInt("AI_ROUTER_LOG_MAX_BACKUPS", cfg.LogRotation.MaxBackups)
	cfg.LogRotation.MaxAgeDays = getEnvInt("AI_ROUTER_LOG_MAX_AGE_DAYS", cfg.LogRotation.MaxAgeDays)
	cfg.LogRotation.Compress = getEnvBool("AI_ROUTER_LOG_COMPRESS", cfg.LogRotation.Compress)

	// Rate limit config
	cfg.RateLimit.Enabled = getEnvBool("AI_ROUTER_RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.MaxRequests = getEnvInt("AI_ROUTER_RATE_LIMIT_MAX_REQUESTS", cfg.RateLimit.MaxRequests)
	cfg.RateLimit.WindowSeconds = getEnvInt("AI_ROUTER_RATE_LIMIT_WINDOW_SECONDS", cfg.RateLimit.WindowSeconds)
}

// String utility functions (avoiding external dependencies).

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			line := s[start:i]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			lines = append(lines, line)
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func trimSpace(s string) string {
	start := 0
	end := len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

func indexOf(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

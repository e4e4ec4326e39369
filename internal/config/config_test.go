//go:build !integration && !e2e
// +build !integration,!e2e

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8700, cfg.Server.Port)
	assert.Equal(t, "http://localhost:1234/v1", cfg.Catalog.BaseURL)
	assert.True(t, cfg.Catalog.MonitorEnabled)
	assert.Equal(t, 4096, cfg.Remote.MaxTokens)
	assert.Equal(t, 120, cfg.Remote.TimeoutSeconds)
	assert.Empty(t, cfg.Remote.OpenAIKey)
	assert.Empty(t, cfg.Remote.AnthropicKey)
	assert.True(t, cfg.RateLimit.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "empty base url",
			mutate:  func(c *Config) { c.Catalog.BaseURL = "" },
			wantErr: "catalog.base_url",
		},
		{
			name:    "zero catalog timeout",
			mutate:  func(c *Config) { c.Catalog.TimeoutSeconds = 0 },
			wantErr: "catalog.timeout_seconds",
		},
		{
			name:    "zero max tokens",
			mutate:  func(c *Config) { c.Remote.MaxTokens = 0 },
			wantErr: "remote.max_tokens",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRemoteConfig_HasKey(t *testing.T) {
	remote := RemoteConfig{OpenAIKey: "sk-test"}
	assert.True(t, remote.HasKey("openai"))
	assert.False(t, remote.HasKey("anthropic"))
	assert.False(t, remote.HasKey("mistral"))

	remote.AnthropicKey = "sk-ant-test"
	assert.True(t, remote.HasKey("anthropic"))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AI_ROUTER_PORT", "9100")
	t.Setenv("AI_ROUTER_LOCAL_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("OPENAI_API_KEY", "sk-env-test")
	t.Setenv("AI_ROUTER_REMOTE_MAX_TOKENS", "1024")
	t.Setenv("AI_ROUTER_CATALOG_MONITOR_ENABLED", "false")
	t.Setenv("AI_ROUTER_RATE_LIMIT_MAX_REQUESTS", "42")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Catalog.BaseURL)
	assert.Equal(t, "sk-env-test", cfg.Remote.OpenAIKey)
	assert.Equal(t, 1024, cfg.Remote.MaxTokens)
	assert.False(t, cfg.Catalog.MonitorEnabled)
	assert.Equal(t, 42, cfg.RateLimit.MaxRequests)
}

func TestEnvOverrides_InvalidIntKeepsDefault(t *testing.T) {
	t.Setenv("AI_ROUTER_PORT", "not-a-number")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 8700, cfg.Server.Port)
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"anything", false},
	}
	for _, tt := range tests {
		t.Setenv("AI_ROUTER_TEST_BOOL", tt.value)
		assert.Equal(t, tt.expected, getEnvBool("AI_ROUTER_TEST_BOOL", false), tt.value)
	}
}

func TestLoaderStringHelpers(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb\n"))
	assert.Equal(t, "x", trimSpace("  x\t"))
	assert.Equal(t, 1, indexOf("a=b", '='))
	assert.Equal(t, -1, indexOf("ab", '='))
	assert.Equal(t, "v", trimQuotes(`"v"`))
	assert.Equal(t, "v", trimQuotes("'v'"))
	assert.Equal(t, `"v`, trimQuotes(`"v`))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 9090
  mode: debug
log:
  level: debug
platforms:
  polymarket:
    base_url: http://poly.local
    timeout: 3
  kalshi:
    base_url: http://kalshi.local
    auth_key: from-yaml
ai:
  openai:
    api_key: yaml-openai
  routing:
    prefixes: ["gpt-", "chatgpt-"]
audit:
  enabled: true
  conn_max_lifetime: 5m
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	return dir
}

func TestLoadFromYAMLWithEnvOverride(t *testing.T) {
	t.Setenv("KALSHI_GATEWAY_API_KEY", "from-env")
	t.Setenv("XAI_API_KEY", "xai-env")
	t.Setenv("AUDIT_DSN", "postgres://u:p@db:5432/predictos")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadFrom(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)

	poly := cfg.Platform("polymarket")
	assert.Equal(t, "http://poly.local", poly.BaseURL)
	assert.Equal(t, 3, poly.Timeout)
	assert.Equal(t, "https://polymarket.com", poly.WebURL)

	kalshi := cfg.Platform("kalshi")
	assert.Equal(t, "http://kalshi.local", kalshi.BaseURL)
	assert.Equal(t, "from-env", kalshi.AuthKey)
	assert.Equal(t, 15, kalshi.Timeout)

	assert.Equal(t, "yaml-openai", cfg.AI.OpenAI.APIKey)
	assert.Equal(t, "xai-env", cfg.AI.XAI.APIKey)
	assert.Equal(t, "https://api.x.ai/v1", cfg.AI.XAI.BaseURL)
	assert.Equal(t, []string{"gpt-", "chatgpt-"}, cfg.AI.Routing.Prefixes)
	assert.Contains(t, cfg.AI.Routing.Models, "o3-mini")
	assert.Equal(t, 16, cfg.AI.QueryMaxTokens)
	assert.Equal(t, 4096, cfg.AI.AnalysisMaxTokens)

	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, "postgres://u:p@db:5432/predictos", cfg.Audit.DSN)
	assert.Equal(t, 5*time.Minute, cfg.Audit.ConnMaxLifetime)
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://gamma-api.polymarket.com", cfg.Platform("polymarket").BaseURL)
	assert.Equal(t, []string{"gpt-"}, cfg.AI.Routing.Prefixes)
	assert.False(t, cfg.Audit.Enabled)
}

func TestLoadFromInvalidYAML(t *testing.T) {
	_, err := LoadFrom(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

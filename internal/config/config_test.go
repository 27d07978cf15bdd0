package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/blueprint/core/cost"
)

// isolate runs the test in an empty directory with no BLUEPRINT_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{
		"BLUEPRINT_CONFIG", "BLUEPRINT_PROVIDER", "BLUEPRINT_MODEL", "BLUEPRINT_API_KEY", "BLUEPRINT_BASE_URL",
		"BLUEPRINT_ADDR", "PORT", "BLUEPRINT_MAX_RETRIES", "BLUEPRINT_RETRY_DELAY", "BLUEPRINT_TEMPERATURE",
		"BLUEPRINT_MAX_TOKENS", "BLUEPRINT_JSON_MODE", "BLUEPRINT_STRICT_INTEGRITY", "BLUEPRINT_LIBRARY_REPAIR",
		"BLUEPRINT_TIMEOUT", "BLUEPRINT_LOG_LEVEL", "BLUEPRINT_LOG_FORMAT", "BLUEPRINT_LOG_MIDDLEWARE",
		"BLUEPRINT_SYSTEM_PROMPT_FILE", "BLUEPRINT_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, 3, cfg.Generation.MaxRetries)
	assert.Equal(t, 1500*time.Millisecond, cfg.Generation.RetryDelay)
	assert.Equal(t, "gemini-2.5-flash", cfg.Provider.Model)
}

func TestLoad_YAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
provider:
  name: anthropic
  model: claude-sonnet-4-5
  timeout: 45s
generation:
  maxRetries: 1
  retryDelay: 250ms
recovery:
  strictIntegrity: true
server:
  addr: ":9000"
pricing:
  my-model:
    inputCostPerMillion: 0.5
    outputCostPerMillion: 1.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider.Name)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Provider.Model)
	assert.Equal(t, 45*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 1, cfg.Generation.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Generation.RetryDelay)
	assert.True(t, cfg.Recovery.StrictIntegrity)
	assert.Equal(t, ":9000", cfg.Server.Addr)

	assert.InDelta(t, 1.5, cfg.Pricing["my-model"].OutputCostPerMillion, 1e-9)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, 16000, cfg.Generation.MaxTokens)
	assert.True(t, cfg.Recovery.LibraryRepair)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, DefaultPath), "provider:\n  name: gemini\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider.Name)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolate(t)

	_, err := Load("nope.yaml")
	assert.ErrorContains(t, err, "read config nope.yaml")

	t.Setenv("BLUEPRINT_CONFIG", "also-missing.yaml")
	_, err = Load("")
	assert.ErrorContains(t, err, "also-missing.yaml")
}

func TestLoad_BadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "provider: [unclosed")

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, "generation:\n  maxRetries: 1\n")

	t.Setenv("BLUEPRINT_MAX_RETRIES", "5")
	t.Setenv("BLUEPRINT_RETRY_DELAY", "2s")
	t.Setenv("BLUEPRINT_PROVIDER", "genai")
	t.Setenv("BLUEPRINT_TEMPERATURE", "0.7")
	t.Setenv("BLUEPRINT_STRICT_INTEGRITY", "true")
	t.Setenv("BLUEPRINT_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("PORT", "8080")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Generation.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Generation.RetryDelay)
	assert.Equal(t, "genai", cfg.Provider.Name)
	assert.InDelta(t, 0.7, cfg.Generation.Temperature, 1e-6)
	assert.True(t, cfg.Recovery.StrictIntegrity)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_BadEnv(t *testing.T) {
	isolate(t)
	t.Setenv("BLUEPRINT_MAX_RETRIES", "many")
	t.Setenv("BLUEPRINT_RETRY_DELAY", "soon")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorContains(t, err, "BLUEPRINT_MAX_RETRIES")
	assert.ErrorContains(t, err, "BLUEPRINT_RETRY_DELAY")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "BLUEPRINT_MODEL=from-dotenv\n")
	t.Cleanup(func() { _ = os.Unsetenv("BLUEPRINT_MODEL") })
	// godotenv does not override variables that are already set, even to "".
	require.NoError(t, os.Unsetenv("BLUEPRINT_MODEL"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Provider.Model)
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "BAD-KEY=value\n")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorContains(t, err, "load .env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown provider", func(c *Config) { c.Provider.Name = "llama" }, `provider.name "llama"`},
		{"negative retries", func(c *Config) { c.Generation.MaxRetries = -1 }, "generation.maxRetries"},
		{"negative delay", func(c *Config) { c.Generation.RetryDelay = -time.Second }, "generation.retryDelay"},
		{"zero tokens", func(c *Config) { c.Generation.MaxTokens = 0 }, "generation.maxTokens"},
		{"hot temperature", func(c *Config) { c.Generation.Temperature = 3 }, "generation.temperature"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"bad middleware level", func(c *Config) { c.Log.Middleware = "loud" }, "log.middleware"},
		{"negative price", func(c *Config) {
			c.Pricing = map[string]cost.ModelCost{"m": {InputCostPerMillion: -1}}
		}, "pricing.m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestSystemPrompt(t *testing.T) {
	dir := isolate(t)

	cfg := Default()
	got, err := cfg.SystemPrompt()
	require.NoError(t, err)
	assert.Empty(t, got)

	path := filepath.Join(dir, "system.txt")
	writeFile(t, path, "  be brief  \n")
	cfg.Prompt.SystemFile = path
	got, err = cfg.SystemPrompt()
	require.NoError(t, err)
	assert.Equal(t, "be brief", got)

	cfg.Prompt.SystemFile = filepath.Join(dir, "missing.txt")
	_, err = cfg.SystemPrompt()
	assert.Error(t, err)
}

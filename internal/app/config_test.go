package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, ProviderAnthropic, cfg.AI.Provider)
	assert.Equal(t, "claude-3-haiku-20240307", cfg.AI.AnthropicModel)
	assert.Equal(t, StoreMemory, cfg.Store.Type)
	assert.Equal(t, 6*time.Second, cfg.PlaceholderInterval)
	assert.Zero(t, cfg.AI.RateLimit)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("GOPORT", "9090")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OAI_API_KEY", "sk-test")
	t.Setenv("AI_RATE_LIMIT", "2.5")
	t.Setenv("PLACEHOLDER_INTERVAL", "250ms")
	t.Setenv("STORE", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.OAIApiKey)
	assert.Equal(t, 2.5, cfg.AI.RateLimit)
	assert.Equal(t, 250*time.Millisecond, cfg.PlaceholderInterval)
	assert.Equal(t, "localhost:6379", cfg.Store.RedisAddr)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("goport: \"7000\"\nstore: postgres\ndatabase_url: postgres://localhost/ideas\nlog_format: json\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := LoadConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.Store.Type)
	assert.Equal(t, "postgres://localhost/ideas", cfg.Store.DatabaseUrl)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfigValidation(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		err  string
	}{
		{name: "Unknown provider", env: map[string]string{"AI_PROVIDER": "bard"}, err: `unknown ai_provider "bard"`},
		{name: "Unknown store", env: map[string]string{"STORE": "csv"}, err: `unknown store "csv"`},
		{name: "Postgres without url", env: map[string]string{"STORE": "postgres"}, err: "database_url is required"},
		{name: "Libsql without url", env: map[string]string{"STORE": "libsql"}, err: "libsql_url is required"},
		{name: "Postgrest without url", env: map[string]string{"STORE": "postgrest"}, err: "postgrest_url is required"},
		{name: "Bad log format", env: map[string]string{"LOG_FORMAT": "xml"}, err: "log_format must be text or json"},
		{name: "Negative rate", env: map[string]string{"AI_RATE_LIMIT": "-1"}, err: "ai_rate_limit must not be negative"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(t.TempDir())

			assert.ErrorContains(t, err, tc.err)
		})
	}
}

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	InitLogger(&buf, "warn", "json")

	slog.Info("hidden")
	slog.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

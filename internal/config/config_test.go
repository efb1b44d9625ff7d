package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"MEALR_DB_PATH", "MEALR_REDIS_URL", "MEALR_LOG_LEVEL", "OPENAI_API_KEY", "OPENAI_BASE_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := LoadFrom(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)

	assert.True(t, cfg.Shopping.UsePantry)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, "claude-cli", cfg.AI.Provider)
	assert.Equal(t, filepath.Join(dir, "mealr.db"), cfg.Database.Path)
	assert.Equal(t, "09:00", cfg.Notifications.CheckAt)
	assert.Equal(t, 3, cfg.Notifications.ExpiryDays)
}

func TestLoadFrom_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
path = "/tmp/kitchen.db"

[shopping]
use_pantry = false

[ai]
provider = "openai"
model = "gpt-4o-mini"

[server]
allowed_origins = ["http://localhost:3000"]
`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/kitchen.db", cfg.Database.Path)
	assert.False(t, cfg.Shopping.UsePantry)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	// Untouched sections keep their defaults.
	assert.Equal(t, "127.0.0.1:8420", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MEALR_DB_PATH", "/data/mealr.db")
	t.Setenv("MEALR_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "/data/mealr.db", cfg.Database.Path)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
}

func TestLoadFrom_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MEALR_LOG_LEVEL=debug\n"), 0644))

	cfg, err := LoadFrom(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFrom_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cache\nbackend ="), 0644))
	_, err := LoadFrom(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "redis.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cache]\nbackend = \"redis\"\n"), 0644))
	_, err = LoadFrom(path)
	assert.ErrorContains(t, err, "redis_url")

	path = filepath.Join(dir, "ai.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ai]\nprovider = \"anthropic-api\"\n"), 0644))
	_, err = LoadFrom(path)
	assert.ErrorContains(t, err, "unknown ai provider")
}

func TestSetValue(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ai]\nmodel = \"sonnet\"\n"), 0644))

	require.NoError(t, SetValue(path, "shopping.use_pantry", false))
	require.NoError(t, SetValue(path, "server.addr", ":9000"))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.False(t, cfg.Shopping.UsePantry)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "sonnet", cfg.AI.Model)

	assert.Error(t, SetValue(path, "nodot", "x"))
	assert.Error(t, SetValue(path, "shopping.use_pantry", "maybe"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		APIBaseURL:  "https://scapi.elitceler.com/api/v1",
		HTTPTimeout: 30 * time.Second,
		CachePath:   "/tmp/cache.db",
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_MinimalConfig(t *testing.T) {
	cfg := &Config{APIBaseURL: DefaultAPIBaseURL}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_MissingBaseURL(t *testing.T) {
	cfg := &Config{}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidBaseURL(t *testing.T) {
	cfg := &Config{APIBaseURL: "not a url"}

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streetcause_admin.yaml")
	content := "apiBaseURL: https://staging.example.com/api/v1\nhttpTimeout: 15s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}

func TestLoadFromPath_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streetcause_admin.yaml")
	content := "apiBaseURL: https://staging.example.com/api/v1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("STREETCAUSE_API_URL", "https://override.example.com/api/v1")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com/api/v1", cfg.APIBaseURL)
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCacheFile(t *testing.T) {
	cfg := &Config{APIBaseURL: DefaultAPIBaseURL, CachePath: "/tmp/snapshots.db"}
	path, enabled := cfg.CacheFile()
	assert.True(t, enabled)
	assert.Equal(t, "/tmp/snapshots.db", path)

	cfg.CachePath = "off"
	_, enabled = cfg.CacheFile()
	assert.False(t, enabled)

	cfg.CachePath = ""
	path, enabled = cfg.CacheFile()
	assert.True(t, enabled)
	assert.Contains(t, path, ".streetcause-admin")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.ServerAddr())
	assert.Equal(t, 120*time.Minute, cfg.SessionTTL())
	assert.Equal(t, 10*time.Minute, cfg.CleanupInterval())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  bind_address: 127.0.0.1
storage:
  data_directory: tables
  session_ttl_minutes: 30
oracle:
  model: test-model
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddr())
	assert.Equal(t, filepath.Join(dir, "tables"), cfg.Storage.DataDirectory)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
	assert.Equal(t, "test-model", cfg.Oracle.Model)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("ORACLE_API_KEY", "secret")
	t.Setenv("DATA_DIR", "/var/tables")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Oracle.APIKey)
	assert.Equal(t, "/var/tables", cfg.Storage.DataDirectory)
}

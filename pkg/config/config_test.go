package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadHubAppliesDefaultsWhenFieldsMissing(t *testing.T) {
	path := writeTempConfig(t, `
token:
  secret: "a-very-long-signing-secret-value-ok"
`)
	cfg, err := LoadHub(path)
	require.NoError(t, err)

	assert.Equal(t, ":43572", cfg.Bind)
	assert.Equal(t, ":43573", cfg.HTTPBind)
	assert.Equal(t, 100, cfg.MaxConnections)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatTimeout)
	assert.Equal(t, 60*time.Second, cfg.BatteryPollInterval)
	assert.Equal(t, "memory", cfg.Artifacts.Backend)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadHubRejectsShortTokenSecret(t *testing.T) {
	path := writeTempConfig(t, `
token:
  secret: "too-short"
`)
	_, err := LoadHub(path)
	require.Error(t, err)
}

func TestLoadHubReadsEnvOverride(t *testing.T) {
	path := writeTempConfig(t, `
token:
  secret: "a-very-long-signing-secret-value-ok"
`)
	t.Setenv("ARCADE_BIND", ":9999")

	cfg, err := LoadHub(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Bind)
}

func TestLoadAgentRequiresHubURL(t *testing.T) {
	path := writeTempConfig(t, `
mac_address: "aa:bb:cc"
games_root: "/games"
cache_dir: "/cache"
`)
	_, err := LoadAgent(path)
	require.Error(t, err)
}

func TestLoadAgentAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
hub_url: "https://hub.example.com"
mac_address: "aa:bb:cc"
games_root: "/games"
cache_dir: "/cache"
`)
	cfg, err := LoadAgent(path)
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.SyncInterval)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadHubMissingFileFailsWithoutTokenSecret(t *testing.T) {
	cfg, err := LoadHub(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)
}

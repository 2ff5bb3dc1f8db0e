package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bamsammich/xfer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	configDir := filepath.Join(dir, "xfer")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Defaults.Verify)
	assert.Nil(t, cfg.Defaults.Retries)
	assert.Nil(t, cfg.Deferred.Queue)
}

func TestLoad_FullConfig(t *testing.T) {
	writeConfig(t, `
[defaults]
overwrite = true
preserve_times = false
verify = true
retries = 5
retry_interval = 3
bwlimit = "100MB"
chunk_size = "256KiB"

[deferred]
queue = "/var/lib/xfer/pending.toml"
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults.Overwrite)
	assert.True(t, *cfg.Defaults.Overwrite)
	require.NotNil(t, cfg.Defaults.PreserveTimes)
	assert.False(t, *cfg.Defaults.PreserveTimes)
	require.NotNil(t, cfg.Defaults.Retries)
	assert.Equal(t, 5, *cfg.Defaults.Retries)

	d, ok := cfg.Defaults.RetryIntervalDuration()
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, d)

	require.NotNil(t, cfg.Defaults.BWLimit)
	n, err := config.ParseSize(*cfg.Defaults.BWLimit)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000_000), n)

	assert.Equal(t, "/var/lib/xfer/pending.toml", cfg.QueuePath())
}

func TestLoad_PartialConfig(t *testing.T) {
	writeConfig(t, `
[defaults]
verify = true
`)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.Defaults.Verify)
	assert.Nil(t, cfg.Defaults.Retries)
	_, ok := cfg.Defaults.RetryIntervalDuration()
	assert.False(t, ok)
}

func TestLoad_InvalidTOML(t *testing.T) {
	writeConfig(t, `[defaults
verify = `)

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_UnknownKey(t *testing.T) {
	writeConfig(t, `
[defaults]
workers = 4
`)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestLoad_NegativeRetries(t *testing.T) {
	writeConfig(t, `
[defaults]
retries = -1
`)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries")
}

func TestLoad_BadBWLimit(t *testing.T) {
	writeConfig(t, `
[defaults]
bwlimit = "fast"
`)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bwlimit")
}

func TestPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/xfer/config.toml", config.Path())
}

func TestPath_Default(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "xfer", "config.toml"), config.Path())
}

func TestQueuePath_DefaultsToState(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, "/custom/state/xfer/pending.toml", config.Config{}.QueuePath())
}

func TestParseSize(t *testing.T) {
	n, err := config.ParseSize("1MiB")
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), n)

	_, err = config.ParseSize("")
	assert.Error(t, err)
}

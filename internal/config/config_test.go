package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Configuration is process global, so these tests do not run in parallel.

func TestInitializeDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, Initialize("", nil))

	cfg := Get()
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 1500, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.True(t, cfg.HTTP.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "human", cfg.Log.Format)

	assert.FileExists(t, filepath.Join(home, appDir, "config.yaml"))
	assert.NotNil(t, GetViper())
}

func TestInitializeFromFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	file := filepath.Join(t.TempDir(), "arqc.yaml")
	content := `server:
  port: 1600
  read_timeout: 5s
http:
  enabled: false
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	require.NoError(t, Initialize(file, nil))

	cfg := Get()
	assert.Equal(t, 1600, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.False(t, cfg.HTTP.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestInitializeEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GOARQC_SERVER_PORT", "1700")
	t.Setenv("GOARQC_LOG_LEVEL", "warn")

	require.NoError(t, Initialize("", nil))

	assert.Equal(t, 1700, Get().Server.Port)
	assert.Equal(t, "warn", Get().Log.Level)
}

func TestInitializeMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := Initialize(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestInitializeFlagOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GOARQC_SERVER_PORT", "1700")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 1500, "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--port", "1800"}))

	require.NoError(t, Initialize("", flags))

	assert.Equal(t, 1800, Get().Server.Port)
	assert.Equal(t, "info", Get().Log.Level)
}

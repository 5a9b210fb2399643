package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(""))
	cfg := Get()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, time.Duration(0), cfg.Duration)
	assert.Equal(t, []string{"zones.yaml"}, cfg.ZoneFiles)
	assert.True(t, cfg.WatchZones)
	assert.False(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.DebugFeed.Enabled)
	assert.Equal(t, "localhost:8089", cfg.DebugFeed.Addr)
	assert.Equal(t, -9.81, cfg.Physics.GravityY)
	assert.Equal(t, 3, cfg.Physics.Actors)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "forcezone.yaml")
	body := `
logLevel: debug
tickRate: 120
duration: 3s
zonesFile: [a.yaml, b.yaml]
debugFeed:
  enabled: true
  addr: ":9000"
metrics:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	require.NoError(t, Load(path))

	cfg := Get()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 120, cfg.TickRate)
	assert.Equal(t, 3*time.Second, cfg.Duration)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.ZoneFiles)
	assert.True(t, cfg.DebugFeed.Enabled)
	assert.Equal(t, ":9000", cfg.DebugFeed.Addr)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("FORCEZONE_TICKRATE", "30")
	t.Setenv("FORCEZONE_DEBUGFEED_ADDR", "0.0.0.0:7000")
	t.Setenv("FORCEZONE_METRICS_ENABLED", "true")

	require.NoError(t, Load(""))
	cfg := Get()
	assert.Equal(t, 30, cfg.TickRate)
	assert.Equal(t, "0.0.0.0:7000", cfg.DebugFeed.Addr)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path/forcezone.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestConfigValidate(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(""))

	cfg := Get()
	cfg.TickRate = 0
	assert.Error(t, cfg.Validate())

	cfg = Get()
	cfg.TickRate = int(time.Second) + 1
	assert.ErrorContains(t, cfg.Validate(), "tickRate must not exceed")

	cfg = Get()
	cfg.TickRate = int(time.Second)
	assert.NoError(t, cfg.Validate())

	cfg = Get()
	cfg.Duration = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = Get()
	cfg.ZoneFiles = nil
	assert.Error(t, cfg.Validate())
}

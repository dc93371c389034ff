package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-pointcloud/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func printConfig(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"config"}, args...))
	if err := cmd.Execute(); err != nil {
		return config.Config{}, err
	}
	return config.Parse(out.Bytes())
}

func TestConfigCommand_Defaults(t *testing.T) {
	cfg, err := printConfig(t)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultSensorKind, cfg.Sensor.Kind)
	assert.True(t, cfg.MirrorEnabled())
	assert.Equal(t, config.DefaultSkipRows, cfg.SkipRowsValue())
	assert.Equal(t, float32(config.DefaultDivisor), cfg.Color.Divisor)
	assert.Equal(t, config.DefaultAlign, cfg.Color.Align)
}

func TestConfigCommand_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[sensor]
kind = "playback"
playback_dir = "recordings"

[color]
divisor = 255.0
skip_rows = 10
`), 0o644))

	cfg, err := printConfig(t, "--config", path, "--no-mirror", "--skip-rows", "0", "--align", "crop")
	require.NoError(t, err)

	assert.Equal(t, "playback", cfg.Sensor.Kind)
	assert.Equal(t, "recordings", cfg.Sensor.PlaybackDir)
	assert.False(t, cfg.MirrorEnabled())
	assert.Equal(t, 0, cfg.SkipRowsValue(), "an explicit zero overrides the file")
	assert.Equal(t, float32(255), cfg.Color.Divisor)
	assert.Equal(t, "crop", cfg.Color.Align)
}

func TestConfigCommand_InvalidCombination(t *testing.T) {
	_, err := printConfig(t, "--watch-shaders")
	assert.Error(t, err)
}

func TestConfigCommand_MissingFile(t *testing.T) {
	_, err := printConfig(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

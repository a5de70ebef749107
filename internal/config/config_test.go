package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.True(t, filepath.IsAbs(cfg.Paths.ModelsDir), "paths must be resolved to absolute")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ESTIMMO_SERVER_PORT", "9090")
	t.Setenv("ESTIMMO_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "estimmo.yml")
	content := []byte("server:\n  port: 9999\nlogging:\n  level: warn\n")
	require.NoError(t, os.WriteFile(file, content, 0o644))

	t.Setenv("ESTIMMO_CONFIG", file)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsInvalidLevel(t *testing.T) {
	t.Setenv("ESTIMMO_LOGGING_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("ESTIMMO_SERVER_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestBundlePaths(t *testing.T) {
	p := PathsConfig{ModelsDir: "/opt/estimmo/models"}

	assert.Equal(t, "/opt/estimmo/models/bundle.gob", p.BundleFile())
	assert.Equal(t, "/opt/estimmo/models/metadata.json", p.MetadataFile())
}

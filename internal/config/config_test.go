package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.PlanDir, cfg.PlanDir)
	assert.Equal(t, def.LogLevel, cfg.LogLevel)
	assert.False(t, cfg.JSON)
}

func TestLoadReadsDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "rigup")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`log_level = "debug"`), 0600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadOverlaysFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
manifest_path = "/profiles/dev.yaml"
json = true
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/profiles/dev.yaml", cfg.ManifestPath)
	assert.True(t, cfg.JSON)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset keys keep their defaults.
	assert.Equal(t, Default().PlanDir, cfg.PlanDir)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("manifest_path = [broken"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RIGUP_MANIFEST", "/env/manifest.yaml")
	t.Setenv("RIGUP_LOG_LEVEL", "warn")
	t.Setenv("RIGUP_JSON", "1")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/env/manifest.yaml", cfg.ManifestPath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.JSON)
}

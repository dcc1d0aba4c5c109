package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "first-match", cfg.Reasoner.Strategy)
	assert.Equal(t, 100, cfg.Reasoner.NMax)
	assert.False(t, cfg.Reasoner.SchemaCheck)
	assert.Equal(t, "min-max", cfg.Reasoner.FuzzySystem)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "reasoner:\n  strategy: stratified-manual\n  n_max: 50\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "stratified-manual", cfg.Reasoner.Strategy)
	assert.Equal(t, 50, cfg.Reasoner.NMax)
	// Unspecified fields keep the zero-config default from the YAML's
	// overlay onto an already-default struct.
	assert.Equal(t, "min-max", cfg.Reasoner.FuzzySystem)
}

func TestLoadMalformedYAMLIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reasoner: [this is not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

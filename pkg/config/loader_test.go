package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listenAddr: \":9000\"\nlogLevel: debug\n"), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30, cfg.RequestTimeoutSeconds) // untouched default
}

func TestLoadFromFileMissingReturnsErrFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/config.yaml")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadFromFileEmptyReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

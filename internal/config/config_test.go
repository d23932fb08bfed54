package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "load must not create the file")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Defaults()
	require.NoError(t, cfg.Set("output", "JSON"))
	require.NoError(t, cfg.Set("markdown", "off"))
	require.NoError(t, cfg.Set("max_tokens", "2048"))
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, loaded.Output)
	assert.False(t, loaded.Markdown)
	assert.Equal(t, 2048, loaded.MaxTokens)
	assert.Equal(t, 20, loaded.UsageLimit)
}

func TestLoadRepairsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("output = \"xml\"\nmax_tokens = -1\nusage_limit = 500\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, OutputHuman, cfg.Output)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, 20, cfg.UsageLimit)
	assert.Equal(t, 1, cfg.Version)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("output = = ="), 0o644))

	cfg, err := LoadFile(path)
	assert.Error(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestSetRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	assert.Error(t, cfg.Set("output", "xml"))
	assert.Error(t, cfg.Set("color", "sometimes"))
	assert.Error(t, cfg.Set("markdown", "maybe"))
	assert.Error(t, cfg.Set("max_tokens", "0"))
	assert.Error(t, cfg.Set("usage_limit", "101"))
	assert.Error(t, cfg.Set("temperature", "1"))
	assert.Equal(t, Defaults(), cfg)
}

func TestGetCoversEveryKey(t *testing.T) {
	cfg := Defaults()
	for _, key := range Keys() {
		v, err := cfg.Get(key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, v, key)
	}
	_, err := cfg.Get("nope")
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "cli.toml"), Path(dir))
	assert.Equal(t, filepath.Join(dir, "history"), HistoryPath(dir))
}

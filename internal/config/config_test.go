package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "OPENROUTER_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, "hash", cfg.Embedder.Type)
	assert.Equal(t, 512, cfg.Embedder.Dimension)
	assert.Equal(t, 800, cfg.Chunker.ChunkSize)
	assert.Equal(t, 120, cfg.Chunker.Overlap)
	assert.Equal(t, 5, cfg.Chunker.TopK)
	assert.InDelta(t, 1e-8, cfg.Catalog.FreePriceThreshold, 0)
}

func TestLoad_AppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker:\n  chunk_size: 400\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Chunker.ChunkSize)
	assert.Equal(t, 120, cfg.Chunker.Overlap)
	assert.Equal(t, "hash", cfg.Embedder.Type)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := defaultConfig()
	cfg.LLM.Model = "acme/tiny-chat:free"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

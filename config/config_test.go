package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "port: \"9090\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DefaultChunkSizeTokens, cfg.Chunking.ChunkSizeTokens)
	assert.Equal(t, DefaultOverlapTokens, cfg.Chunking.OverlapTokens)
	assert.Equal(t, DefaultBatchSize, cfg.Embedding.BatchSize)
	assert.Equal(t, DefaultMaxRetries, cfg.Embedding.MaxRetries)
	assert.Equal(t, DefaultRetryBackoffMs, cfg.Embedding.RetryBackoffMs)
	assert.Equal(t, DefaultPreviewChunks, cfg.Ingest.PreviewChunks)
	assert.Equal(t, int64(DefaultMaxDocumentBytes), cfg.Ingest.MaxDocumentBytes)
	assert.Equal(t, DefaultClass, cfg.Weaviate.Class)
	assert.Equal(t, DefaultNamespace, cfg.Weaviate.Namespace)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
}

func TestLoadConfig_ExplicitZeroOverlap(t *testing.T) {
	path := writeConfig(t, `
chunking:
  chunk_size_tokens: 400
  overlap_tokens: 0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// An explicit zero disables overlap; only an absent key defaults.
	assert.Equal(t, 400, cfg.Chunking.ChunkSizeTokens)
	assert.Equal(t, 0, cfg.Chunking.OverlapTokens)
}

func TestLoadConfig_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
port: "8000"
chunking:
  chunk_size_tokens: 512
  overlap_tokens: 64
embedding:
  provider: local
  model: nomic-embed-text
  base_url: http://localhost:11434/v1
  batch_size: 8
ingest:
  preview_chunks: 2
  purge_before_ingest: true
weaviate:
  host: http://localhost:8080
  class: KnowledgeChunk
  namespace: tenant-a
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.Chunking.ChunkSizeTokens)
	assert.Equal(t, 64, cfg.Chunking.OverlapTokens)
	assert.Equal(t, "local", cfg.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, 8, cfg.Embedding.BatchSize)
	assert.Equal(t, 2, cfg.Ingest.PreviewChunks)
	assert.True(t, cfg.Ingest.PurgeBeforeIngest)
	assert.Equal(t, "KnowledgeChunk", cfg.Weaviate.Class)
	assert.Equal(t, "tenant-a", cfg.Weaviate.Namespace)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijeet-gautam-07/rag-docs/config"
	"github.com/abhijeet-gautam-07/rag-docs/types"
)

func localTestConfig(baseURL string) config.EmbeddingConfig {
	return config.EmbeddingConfig{
		Provider:       "local",
		Model:          "test-embed",
		BaseURL:        baseURL,
		MaxRetries:     3,
		RetryBackoffMs: 1,
	}
}

func TestNewLocalEmbedding_RequiresBaseURL(t *testing.T) {
	_, err := NewLocalEmbedding(config.EmbeddingConfig{Model: "test-embed"})
	require.Error(t, err)

	var cfgErr *types.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "embedding.base_url", cfgErr.Field)
}

func TestEmbedTexts_OpenAIShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-embed", req["model"])

		// Items deliberately out of order; the index field wins.
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.3, 0.3}, "index": 2},
				{"embedding": []float32{0.1, 0.1}, "index": 0},
				{"embedding": []float32{0.2, 0.2}, "index": 1},
			},
		})
	}))
	defer server.Close()

	embedder, err := NewLocalEmbedding(localTestConfig(server.URL))
	require.NoError(t, err)

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{0.1, 0.1}, vectors[0])
	assert.Equal(t, []float32{0.2, 0.2}, vectors[1])
	assert.Equal(t, []float32{0.3, 0.3}, vectors[2])
}

func TestEmbedTexts_OllamaShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{1, 2}, {3, 4}},
		})
	}))
	defer server.Close()

	embedder, err := NewLocalEmbedding(localTestConfig(server.URL))
	require.NoError(t, err)

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 2}, vectors[0])
	assert.Equal(t, []float32{3, 4}, vectors[1])
}

func TestEmbedQuery_SingleVectorShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"embedding": []float32{0.5, 0.6, 0.7},
		})
	}))
	defer server.Close()

	embedder, err := NewLocalEmbedding(localTestConfig(server.URL))
	require.NoError(t, err)

	vector, err := embedder.EmbedQuery(context.Background(), "what is this")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.6, 0.7}, vector)
}

func TestEmbedTexts_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	embedder, err := NewLocalEmbedding(localTestConfig(server.URL))
	require.NoError(t, err)

	_, err = embedder.EmbedTexts(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var serviceErr *types.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, http.StatusNotFound, serviceErr.StatusCode)
	assert.False(t, serviceErr.Transient())
}

func TestEmbedTexts_ServerErrorRetriedThenExhausted(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	embedder, err := NewLocalEmbedding(localTestConfig(server.URL))
	require.NoError(t, err)

	_, err = embedder.EmbedTexts(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, types.ErrRetriesExhausted)
}

func TestEmbedTexts_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Two inputs, one vector back.
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{1, 2}},
		})
	}))
	defer server.Close()

	embedder, err := NewLocalEmbedding(localTestConfig(server.URL))
	require.NoError(t, err)

	_, err = embedder.EmbedTexts(context.Background(), []string{"a", "b"})
	require.Error(t, err)

	var alignErr *types.AlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Equal(t, 2, alignErr.Want)
}

func TestEmbedTexts_EmptyInput(t *testing.T) {
	embedder, err := NewLocalEmbedding(localTestConfig("http://localhost:9"))
	require.NoError(t, err)

	vectors, err := embedder.EmbedTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestNormalizeEmbeddings_RejectsDuplicateIndex(t *testing.T) {
	payload := []byte(`{"data":[{"embedding":[1],"index":0},{"embedding":[2],"index":0}]}`)
	_, err := normalizeEmbeddings(payload, 2)
	require.Error(t, err)

	var alignErr *types.AlignmentError
	assert.ErrorAs(t, err, &alignErr)
}

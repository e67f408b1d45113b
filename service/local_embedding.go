package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abhijeet-gautam-07/rag-docs/config"
	"github.com/abhijeet-gautam-07/rag-docs/types"
	"github.com/abhijeet-gautam-07/rag-docs/utils"
)

const localEmbedTimeout = 60 * time.Second

// LocalEmbedding talks to an OpenAI-compatible embeddings endpoint (LM
// Studio, Ollama, vLLM, ...). Those servers answer in a few different
// response shapes, so each reply is normalized by trying the known shapes
// in a fixed priority order; a reply that cannot be normalized into
// exactly one vector per input fails the call.
type LocalEmbedding struct {
	baseURL    string
	apiKey     string
	model      string
	client     *http.Client
	maxRetries int
	backoff    time.Duration
}

// NewLocalEmbedding creates the client. base_url is required; an API key
// is optional for local servers.
func NewLocalEmbedding(cfg config.EmbeddingConfig) (*LocalEmbedding, error) {
	if cfg.BaseURL == "" {
		return nil, &types.ConfigError{Field: "embedding.base_url"}
	}
	return &LocalEmbedding{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		client:     &http.Client{Timeout: localEmbedTimeout},
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.RetryBackoffMs) * time.Millisecond,
	}, nil
}

func (s *LocalEmbedding) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	body := map[string]any{
		"model": s.model,
		"input": texts,
	}
	return s.embed(ctx, body, len(texts))
}

// EmbedQuery uses the single-input call shape some servers prefer.
func (s *LocalEmbedding) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	body := map[string]any{
		"model": s.model,
		"input": text,
	}
	vectors, err := s.embed(ctx, body, 1)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *LocalEmbedding) ModelName() string {
	return s.model
}

func (s *LocalEmbedding) Close() error {
	return nil
}

func (s *LocalEmbedding) embed(ctx context.Context, body map[string]any, want int) ([][]float32, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	var vectors [][]float32
	err = utils.WithRetry(ctx, s.maxRetries, s.backoff, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embeddings", bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("create embedding request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if s.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+s.apiKey)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			// network failures carry no status; treat as transient
			return &types.ServiceError{Service: "embedding", StatusCode: http.StatusServiceUnavailable, Message: err.Error()}
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return &types.ServiceError{Service: "embedding", StatusCode: http.StatusServiceUnavailable, Message: err.Error()}
		}
		if resp.StatusCode != http.StatusOK {
			return &types.ServiceError{
				Service:    "embedding",
				StatusCode: resp.StatusCode,
				Message:    types.TruncateString(string(payload), 256),
			}
		}

		normalized, err := normalizeEmbeddings(payload, want)
		if err != nil {
			return err
		}
		vectors = normalized
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

// normalizeEmbeddings tries the known response shapes in priority order.
// Exact count match is the acceptance gate for every shape; partial
// matches are never padded or truncated.
func normalizeEmbeddings(payload []byte, want int) ([][]float32, error) {
	// OpenAI shape: {"data": [{"embedding": [...], "index": 0}, ...]}
	var openaiOut struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     *int      `json:"index"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &openaiOut); err == nil && len(openaiOut.Data) == want {
		vectors := make([][]float32, want)
		aligned := true
		for i, item := range openaiOut.Data {
			slot := i
			if item.Index != nil {
				slot = *item.Index
			}
			if slot < 0 || slot >= want || vectors[slot] != nil {
				aligned = false
				break
			}
			vectors[slot] = item.Embedding
		}
		if aligned && requireAligned(vectors, want, string(payload)) == nil {
			return vectors, nil
		}
	}

	// Ollama /api/embed shape: {"embeddings": [[...], [...]]}
	var ollamaOut struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(payload, &ollamaOut); err == nil && len(ollamaOut.Embeddings) == want {
		if requireAligned(ollamaOut.Embeddings, want, string(payload)) == nil {
			return ollamaOut.Embeddings, nil
		}
	}

	// Single-vector shape: {"embedding": [...]}
	if want == 1 {
		var single struct {
			Embedding []float32 `json:"embedding"`
		}
		if err := json.Unmarshal(payload, &single); err == nil && len(single.Embedding) > 0 {
			return [][]float32{single.Embedding}, nil
		}
	}

	return nil, &types.AlignmentError{Want: want, Got: 0, RawBody: string(payload)}
}

package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/abhijeet-gautam-07/rag-docs/config"
	"github.com/abhijeet-gautam-07/rag-docs/types"
	"github.com/abhijeet-gautam-07/rag-docs/utils"
)

// GeminiEmbedding embeds text through the Gemini API using batched
// embed-content calls.
type GeminiEmbedding struct {
	client     *genai.Client
	model      string
	maxRetries int
	backoff    time.Duration
}

// NewGeminiEmbedding creates the client. The API key is required and
// checked before any network call.
func NewGeminiEmbedding(ctx context.Context, cfg config.EmbeddingConfig) (*GeminiEmbedding, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, &types.ConfigError{Field: "GEMINI_API_KEY"}
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}
	return &GeminiEmbedding{
		client:     client,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.RetryBackoffMs) * time.Millisecond,
	}, nil
}

func (s *GeminiEmbedding) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	em := s.client.EmbeddingModel(s.model)

	var vectors [][]float32
	err := utils.WithRetry(ctx, s.maxRetries, s.backoff, func() error {
		batch := em.NewBatch()
		for _, text := range texts {
			batch.AddContent(genai.Text(text))
		}
		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return classifyGeminiError(err)
		}
		if len(resp.Embeddings) != len(texts) {
			return &types.AlignmentError{Want: len(texts), Got: len(resp.Embeddings)}
		}
		ordered := make([][]float32, len(texts))
		for i, emb := range resp.Embeddings {
			ordered[i] = emb.Values
		}
		if err := requireAligned(ordered, len(texts), ""); err != nil {
			return err
		}
		vectors = ordered
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

func (s *GeminiEmbedding) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *GeminiEmbedding) ModelName() string {
	return s.model
}

func (s *GeminiEmbedding) Close() error {
	return s.client.Close()
}

func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &types.ServiceError{
			Service:    "gemini",
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
		}
	}
	return &types.ServiceError{
		Service:    "gemini",
		StatusCode: http.StatusServiceUnavailable,
		Message:    err.Error(),
	}
}

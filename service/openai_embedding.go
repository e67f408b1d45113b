package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/abhijeet-gautam-07/rag-docs/config"
	"github.com/abhijeet-gautam-07/rag-docs/types"
	"github.com/abhijeet-gautam-07/rag-docs/utils"
)

// OpenAIEmbedding embeds text through the OpenAI API (or an API-compatible
// server when base_url is set).
type OpenAIEmbedding struct {
	client     *openai.Client
	model      string
	maxRetries int
	backoff    time.Duration
}

// NewOpenAIEmbedding creates the client. The API key is required and
// checked before any network call.
func NewOpenAIEmbedding(cfg config.EmbeddingConfig) (*OpenAIEmbedding, error) {
	if cfg.APIKey == "" {
		return nil, &types.ConfigError{Field: "OPENAI_API_KEY"}
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIEmbedding{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.RetryBackoffMs) * time.Millisecond,
	}, nil
}

func (s *OpenAIEmbedding) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var vectors [][]float32
	err := utils.WithRetry(ctx, s.maxRetries, s.backoff, func() error {
		resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: openai.EmbeddingModel(s.model),
		})
		if err != nil {
			return classifyOpenAIError(err)
		}
		if len(resp.Data) != len(texts) {
			return &types.AlignmentError{Want: len(texts), Got: len(resp.Data)}
		}
		// The API may return items out of order; place them by index.
		ordered := make([][]float32, len(texts))
		for _, item := range resp.Data {
			if item.Index < 0 || item.Index >= len(texts) || ordered[item.Index] != nil {
				return &types.AlignmentError{Want: len(texts), Got: len(resp.Data)}
			}
			ordered[item.Index] = item.Embedding
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

func (s *OpenAIEmbedding) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *OpenAIEmbedding) ModelName() string {
	return s.model
}

func (s *OpenAIEmbedding) Close() error {
	return nil
}

// classifyOpenAIError maps SDK errors onto the transient/non-transient
// taxonomy. Transport-level failures carry no status and are treated as
// transient.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &types.ServiceError{
			Service:    "openai",
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
		}
	}
	return &types.ServiceError{
		Service:    "openai",
		StatusCode: http.StatusServiceUnavailable,
		Message:    err.Error(),
	}
}

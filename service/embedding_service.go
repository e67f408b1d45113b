package service

import (
	"context"
	"fmt"

	"github.com/abhijeet-gautam-07/rag-docs/config"
	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// EmbeddingService converts ordered batches of texts into equally ordered
// embedding vectors. Implementations must either return exactly one vector
// per input text, aligned by position, or fail the whole call — a partial
// or reshuffled response is never passed through.
type EmbeddingService interface {
	// EmbedTexts embeds a batch of non-empty texts. len(result) == len(texts)
	// on success, with result[i] belonging to texts[i].
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query string. It may use a different
	// upstream call shape than EmbedTexts; callers only rely on getting
	// one vector back.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the embedding model identifier.
	ModelName() string

	// Close releases provider resources.
	Close() error
}

// NewEmbeddingService builds the provider selected in cfg.
func NewEmbeddingService(ctx context.Context, cfg config.EmbeddingConfig) (EmbeddingService, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIEmbedding(cfg)
	case "local", "ollama", "openai-compatible":
		return NewLocalEmbedding(cfg)
	case "gemini":
		return NewGeminiEmbedding(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

// requireAligned checks that every slot received exactly one vector.
func requireAligned(vectors [][]float32, want int, raw string) error {
	if len(vectors) != want {
		return &types.AlignmentError{Want: want, Got: len(vectors), RawBody: raw}
	}
	for _, v := range vectors {
		if len(v) == 0 {
			return &types.AlignmentError{Want: want, Got: len(vectors), RawBody: raw}
		}
	}
	return nil
}
